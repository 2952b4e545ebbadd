package fermentation

import (
	"fmt"
	"strings"
	"time"
)

const (
	stuckBrixFloor      = 5.0
	stuckDays           = 14
	notStartingDays     = 7
	notStartingMinDrop  = 3.0
	slowingMinDays      = 3
	slowingBrixFloor    = 2.0
	slowingMinDailyDrop = 0.5
	genericHighTempF    = 90.0
	staleLogDays        = 2.0
	pressBrixCeiling    = 2.0
	pressBrixFloor      = -2.0
	h2sNoteWindow       = 3
)

var h2sKeywords = []string{"h2s", "rotten egg", "sulfur"}

type rule func(state State, logs []LogEntry, events []Event) (Recommendation, bool)

// Evaluated in this order; ties in priority keep it.
var rules = []rule{
	stuckFermentation,
	fermentationNotStarting,
	fermentationSlowing,
	temperatureOutOfRange,
	nutrientTiming,
	logStaleness,
	pressReadiness,
	hydrogenSulfide,
}

// GenerateRecommendations evaluates every advisory rule against the snapshot.
// logs and events must already be ordered newest-first. The result is sorted
// by priority and never nil.
func GenerateRecommendations(state State, logs []LogEntry, events []Event) []Recommendation {
	recs := make([]Recommendation, 0, len(rules))
	for _, r := range rules {
		if rec, ok := r(state, logs, events); ok {
			recs = append(recs, rec)
		}
	}
	SortByPriority(recs)
	return recs
}

func stuckFermentation(state State, _ []LogEntry, _ []Event) (Recommendation, bool) {
	brix, ok := reading(state.CurrentBrix)
	if !ok || !(brix > stuckBrixFloor && state.DaysFermenting > stuckDays) {
		return Recommendation{}, false
	}
	return Recommendation{
		Kind:     KindWarning,
		Priority: PriorityHigh,
		Title:    "Stuck Fermentation",
		Message: fmt.Sprintf("Brix is still %.1f°Bx after %d days. Fermentation may be stuck.",
			brix, state.DaysFermenting),
		Suggestions: []string{
			"Check must temperature and warm to 70-75°F if it is below range",
			"Measure YAN and add complex yeast nutrient if deficient",
			"Gently rouse the lees to resuspend settled yeast",
			"Prepare a restart culture with EC-1118 and acclimate it gradually",
			"Check for excessive SO2 or volatile acidity that could inhibit yeast",
		},
		SuggestedAction: ActionIntervention,
	}, true
}

func fermentationNotStarting(state State, _ []LogEntry, _ []Event) (Recommendation, bool) {
	current, okCurrent := reading(state.CurrentBrix)
	initial, okInitial := reading(state.InitialBrix)
	if !okCurrent || !okInitial {
		return Recommendation{}, false
	}
	drop := initial - current
	if !(current > stuckBrixFloor && drop < notStartingMinDrop && state.DaysFermenting > notStartingDays) {
		return Recommendation{}, false
	}
	return Recommendation{
		Kind:     KindWarning,
		Priority: PriorityHigh,
		Title:    "Critical: Fermentation Not Starting",
		Message: fmt.Sprintf("Brix has dropped only %.1f° in %d days (%.1f → %.1f). Yeast may not be active.",
			drop, state.DaysFermenting, initial, current),
		Suggestions: []string{
			"Confirm the yeast was rehydrated and pitched correctly",
			"Check must temperature is within the yeast's active range",
			"Verify SO2 additions were not excessive",
			"Re-pitch with a vigorous strain such as EC-1118",
		},
		SuggestedAction: ActionIntervention,
	}, true
}

func fermentationSlowing(state State, logs []LogEntry, _ []Event) (Recommendation, bool) {
	if len(logs) < 2 {
		return Recommendation{}, false
	}
	current, okCurrent := reading(state.CurrentBrix)
	last, okLast := reading(logs[0].Brix)
	previous, okPrevious := reading(logs[1].Brix)
	if !okCurrent || !okLast || !okPrevious {
		return Recommendation{}, false
	}
	if !(current > slowingBrixFloor && state.DaysFermenting > slowingMinDays) {
		return Recommendation{}, false
	}
	// Past the stuck window the stuck-fermentation rule applies instead.
	if !(current > stuckBrixFloor && state.DaysFermenting <= stuckDays) {
		return Recommendation{}, false
	}
	drop := previous - last
	if !(drop < slowingMinDailyDrop) {
		return Recommendation{}, false
	}
	return Recommendation{
		Kind:     KindWarning,
		Priority: PriorityHigh,
		Title:    "Fermentation Slowing",
		Message: fmt.Sprintf("Brix dropped only %.1f° between the last two readings (%.1f → %.1f).",
			drop, previous, last),
		Suggestions: []string{
			"Check must temperature and adjust toward the profile's ideal",
			"Consider a staggered nutrient addition",
			"Punch down or pump over to distribute yeast and add oxygen",
			"Take another reading within 12 hours to confirm the trend",
		},
		SuggestedAction: ActionNutrient,
	}, true
}

func temperatureOutOfRange(state State, _ []LogEntry, _ []Event) (Recommendation, bool) {
	temp, ok := reading(state.CurrentTempF)
	if !ok {
		return Recommendation{}, false
	}
	profile, ok := LookupProfile(state.Profile)
	if !ok {
		if !(temp > genericHighTempF) {
			return Recommendation{}, false
		}
		return Recommendation{
			Kind:     KindWarning,
			Priority: PriorityHigh,
			Title:    "High Temperature Alert",
			Message:  fmt.Sprintf("Must temperature is %.1f°F. Above 90°F yeast can stress or die.", temp),
			Suggestions: []string{
				"Cool the tank with a glycol jacket or cooling plates",
				"Move the vessel to a cooler area if possible",
				"Add dry ice to lower the cap temperature",
				"Increase monitoring frequency until temperature stabilizes",
			},
			SuggestedAction: ActionDeviation,
		}, true
	}
	switch {
	case temp > profile.TempRangeMax:
		return Recommendation{
			Kind:     KindWarning,
			Priority: PriorityHigh,
			Title:    "Temperature Too High",
			Message: fmt.Sprintf("Must temperature %.1f°F is above the %s range (%.0f-%.0f°F).",
				temp, profile.Name, profile.TempRangeMin, profile.TempRangeMax),
			Suggestions: []string{
				"Engage tank cooling or glycol jacket",
				fmt.Sprintf("Target the ideal of %.0f°F for this style", profile.TempRangeIdeal),
				"Avoid punch-downs during the hottest part of the day",
				"Watch for loss of aromatics and yeast stress",
			},
			SuggestedAction: ActionDeviation,
		}, true
	case temp < profile.TempRangeMin:
		return Recommendation{
			Kind:     KindWarning,
			Priority: PriorityMedium,
			Title:    "Temperature Too Low",
			Message: fmt.Sprintf("Must temperature %.1f°F is below the %s range (%.0f-%.0f°F).",
				temp, profile.Name, profile.TempRangeMin, profile.TempRangeMax),
			Suggestions: []string{
				"Warm the tank with a heating belt or jacket",
				"Move the vessel to a warmer area",
				fmt.Sprintf("Target the ideal of %.0f°F for this style", profile.TempRangeIdeal),
			},
			SuggestedAction: ActionDeviation,
		}, true
	default:
		return Recommendation{}, false
	}
}

func nutrientTiming(state State, _ []LogEntry, events []Event) (Recommendation, bool) {
	current, okCurrent := reading(state.CurrentBrix)
	initial, okInitial := reading(state.InitialBrix)
	if !okCurrent || !okInitial || initial == 0 || !(current > stuckBrixFloor) {
		return Recommendation{}, false
	}
	dropPercent := (initial - current) / initial * 100
	additions, lastAddition := nutrientHistory(events)

	switch {
	case dropPercent >= 25 && dropPercent < 40 && additions == 0:
		return Recommendation{
			Kind:     KindInfo,
			Priority: PriorityMedium,
			Title:    "Nutrient Addition Recommended",
			Message: fmt.Sprintf("Sugar is %.0f%% depleted. This is the ideal window for the first nutrient addition (about 1/3 sugar depletion).",
				dropPercent),
			Suggestions: []string{
				"Add Fermaid K or another complex nutrient at 25 g/hL",
				"Dissolve nutrient in water before adding to avoid foaming",
				"Record the addition as a nutrient event",
			},
			SuggestedAction: ActionNutrient,
		}, true
	case dropPercent >= 55 && dropPercent < 70 && additions == 1:
		message := fmt.Sprintf("Sugar is %.0f%% depleted. Time for the second nutrient addition (about 2/3 sugar depletion).",
			dropPercent)
		if !state.AsOf.IsZero() && !lastAddition.IsZero() {
			days := int(state.AsOf.Sub(lastAddition).Hours() / 24)
			if days >= 0 {
				message += fmt.Sprintf(" Last addition was %d days ago.", days)
			}
		}
		return Recommendation{
			Kind:     KindInfo,
			Priority: PriorityMedium,
			Title:    "Second Nutrient Addition",
			Message:  message,
			Suggestions: []string{
				"Add the second half of the planned nutrient dose",
				"Avoid DAP this late in fermentation; use organic nutrient only",
				"Record the addition as a nutrient event",
			},
			SuggestedAction: ActionNutrient,
		}, true
	default:
		return Recommendation{}, false
	}
}

func logStaleness(state State, logs []LogEntry, _ []Event) (Recommendation, bool) {
	if len(logs) > 0 {
		if state.AsOf.IsZero() || logs[0].LogDate.IsZero() {
			return Recommendation{}, false
		}
		hours := state.AsOf.Sub(logs[0].LogDate).Hours()
		if hours/24 < staleLogDays {
			return Recommendation{}, false
		}
		return Recommendation{
			Kind:     KindWarning,
			Priority: PriorityMedium,
			Title:    "Log Reminder",
			Message:  fmt.Sprintf("Last fermentation log was %.0f days ago. Take daily Brix and temperature readings.", hours/24),
			Suggestions: []string{
				"Measure Brix with a hydrometer or refractometer",
				"Record must temperature",
				"Note aromas and cap condition",
			},
			SuggestedAction: ActionLog,
		}, true
	}
	if state.DaysFermenting <= 0 {
		return Recommendation{}, false
	}
	return Recommendation{
		Kind:     KindWarning,
		Priority: PriorityMedium,
		Title:    "No Logs Recorded",
		Message:  fmt.Sprintf("Fermentation started %d days ago but no logs have been recorded.", state.DaysFermenting),
		Suggestions: []string{
			"Record a baseline Brix and temperature reading",
			"Log daily while fermentation is active",
			"Note the yeast strain and any additions made so far",
		},
		SuggestedAction: ActionLog,
	}, true
}

func pressReadiness(state State, _ []LogEntry, _ []Event) (Recommendation, bool) {
	brix, ok := reading(state.CurrentBrix)
	if !ok || !(brix > pressBrixFloor && brix <= pressBrixCeiling) {
		return Recommendation{}, false
	}
	message := fmt.Sprintf("Brix is %.1f°Bx. Fermentation is nearly complete.", brix)
	if brix <= 0 {
		message = fmt.Sprintf("Brix is %.1f°Bx. Fermentation appears complete (dry).", brix)
	}
	return Recommendation{
		Kind:     KindSuccess,
		Priority: PriorityMedium,
		Title:    "Approaching Press Readiness",
		Message:  message,
		Suggestions: []string{
			"Confirm dryness with a residual sugar test",
			"Taste for tannin extraction and decide on extended maceration",
			"Schedule the press and clean receiving vessels",
			"Plan malolactic inoculation if desired",
		},
	}, true
}

func hydrogenSulfide(_ State, logs []LogEntry, _ []Event) (Recommendation, bool) {
	window := logs
	if len(window) > h2sNoteWindow {
		window = window[:h2sNoteWindow]
	}
	for _, entry := range window {
		if entry.Notes == nil {
			continue
		}
		notes := strings.ToLower(*entry.Notes)
		for _, keyword := range h2sKeywords {
			if !strings.Contains(notes, keyword) {
				continue
			}
			return Recommendation{
				Kind:     KindWarning,
				Priority: PriorityHigh,
				Title:    "H₂S Detected in Recent Notes",
				Message:  "Recent log notes mention sulfide aromas. Address hydrogen sulfide before it forms mercaptans.",
				Suggestions: []string{
					"Aerate with a splash rack or pump over",
					"Add yeast nutrient if fermentation is still active",
					"Run a copper sulfate bench trial before any addition",
					"Record the deviation and follow up within 24 hours",
				},
				SuggestedAction: ActionDeviation,
			}, true
		}
	}
	return Recommendation{}, false
}

func reading(v *float64) (float64, bool) {
	if v = Measured(v); v == nil {
		return 0, false
	}
	return *v, true
}

func nutrientHistory(events []Event) (int, time.Time) {
	var (
		count int
		last  time.Time
	)
	for _, evt := range events {
		if evt.Type != EventNutrient {
			continue
		}
		count++
		if evt.Date.After(last) {
			last = evt.Date
		}
	}
	return count, last
}
