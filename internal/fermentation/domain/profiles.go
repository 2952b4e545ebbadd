package fermentation

import "sort"

// ProfileKey identifies a fermentation temperature profile.
type ProfileKey string

const (
	ProfileBoldRed       ProfileKey = "bold_red"
	ProfileLightRed      ProfileKey = "light_red"
	ProfileAromaticWhite ProfileKey = "aromatic_white"
	ProfileFullWhite     ProfileKey = "full_white"
	ProfileRose          ProfileKey = "rose"
)

// Profile is a target temperature range for a wine style, in °F.
type Profile struct {
	Key            ProfileKey `json:"key"`
	Name           string     `json:"name"`
	TempRangeMin   float64    `json:"temp_range_min"`
	TempRangeMax   float64    `json:"temp_range_max"`
	TempRangeIdeal float64    `json:"temp_range_ideal"`
	TargetDays     int        `json:"target_days"`
}

var profiles = map[ProfileKey]Profile{
	ProfileBoldRed: {
		Key:            ProfileBoldRed,
		Name:           "Bold Red (Cabernet, Syrah, Zinfandel)",
		TempRangeMin:   80,
		TempRangeMax:   90,
		TempRangeIdeal: 85,
		TargetDays:     10,
	},
	ProfileLightRed: {
		Key:            ProfileLightRed,
		Name:           "Light Red (Pinot Noir, Gamay)",
		TempRangeMin:   70,
		TempRangeMax:   85,
		TempRangeIdeal: 78,
		TargetDays:     12,
	},
	ProfileAromaticWhite: {
		Key:            ProfileAromaticWhite,
		Name:           "Aromatic White (Riesling, Sauvignon Blanc)",
		TempRangeMin:   50,
		TempRangeMax:   60,
		TempRangeIdeal: 55,
		TargetDays:     21,
	},
	ProfileFullWhite: {
		Key:            ProfileFullWhite,
		Name:           "Full-Bodied White (Chardonnay, Viognier)",
		TempRangeMin:   58,
		TempRangeMax:   68,
		TempRangeIdeal: 63,
		TargetDays:     18,
	},
	ProfileRose: {
		Key:            ProfileRose,
		Name:           "Rosé",
		TempRangeMin:   55,
		TempRangeMax:   65,
		TempRangeIdeal: 60,
		TargetDays:     14,
	},
}

// LookupProfile returns the profile for key.
func LookupProfile(key ProfileKey) (Profile, bool) {
	if key == "" {
		return Profile{}, false
	}
	p, ok := profiles[key]
	return p, ok
}

// Profiles returns all profiles ordered by key.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
