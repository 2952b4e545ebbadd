package fermentation

import "strings"

// DefaultYeastCode is recommended when no varietal rule matches.
const DefaultYeastCode = "EC-1118"

// YeastStrain is catalog reference data.
type YeastStrain struct {
	Code             string `json:"code"`
	DisplayName      string `json:"display_name"`
	TempRange        string `json:"temp_range"`
	AlcoholTolerance string `json:"alcohol_tolerance"`
	Notes            string `json:"notes"`
}

var yeastStrains = []YeastStrain{
	{Code: "EC-1118", DisplayName: "Lalvin EC-1118", TempRange: "50-86°F", AlcoholTolerance: "18%", Notes: "Neutral, vigorous fermenter. Standard choice for restarting stuck fermentations."},
	{Code: "D47", DisplayName: "Lalvin ICV-D47", TempRange: "59-68°F", AlcoholTolerance: "15%", Notes: "Full mouthfeel and tropical notes. Suited to barrel-fermented whites."},
	{Code: "RC212", DisplayName: "Lalvin RC212 (Bourgorouge)", TempRange: "68-86°F", AlcoholTolerance: "16%", Notes: "Stabilizes color and tannin. Classic Pinot Noir strain."},
	{Code: "BM4x4", DisplayName: "Lalvin BM 4x4", TempRange: "64-82°F", AlcoholTolerance: "16%", Notes: "Reliable finisher for big reds with rich mouthfeel."},
	{Code: "BDX", DisplayName: "Lalvin BDX", TempRange: "64-86°F", AlcoholTolerance: "16%", Notes: "Good color extraction and structure for Bordeaux and Rhône reds."},
	{Code: "D254", DisplayName: "Lalvin ICV-D254", TempRange: "59-82°F", AlcoholTolerance: "16%", Notes: "Ripe fruit and spice. Popular for Zinfandel and Syrah."},
	{Code: "71B", DisplayName: "Lalvin 71B", TempRange: "59-86°F", AlcoholTolerance: "14%", Notes: "Metabolizes malic acid. Fruity rosés and young reds."},
	{Code: "QA23", DisplayName: "Lalvin QA23", TempRange: "59-90°F", AlcoholTolerance: "16%", Notes: "Low nutrient demand and thiol release for crisp whites."},
}

type varietalRule struct {
	needles []string
	code    string
}

// Matched in order; the first rule with a matching needle wins.
var varietalRules = []varietalRule{
	{needles: []string{"chardonnay", "sauvignon"}, code: "D47"},
	{needles: []string{"pinot"}, code: "RC212"},
	{needles: []string{"cabernet", "merlot"}, code: "BM4x4"},
	{needles: []string{"syrah", "petite"}, code: "BDX"},
	{needles: []string{"zinfandel"}, code: "D254"},
}

// YeastStrains returns a copy of the catalog.
func YeastStrains() []YeastStrain {
	out := make([]YeastStrain, len(yeastStrains))
	copy(out, yeastStrains)
	return out
}

// LookupYeast returns the catalog entry for code.
func LookupYeast(code string) (YeastStrain, bool) {
	for _, strain := range yeastStrains {
		if strings.EqualFold(strain.Code, code) {
			return strain, true
		}
	}
	return YeastStrain{}, false
}

// RecommendYeast returns the strain code suggested for a varietal.
func RecommendYeast(varietal string) string {
	name := strings.ToLower(varietal)
	if name == "" {
		return DefaultYeastCode
	}
	for _, rule := range varietalRules {
		for _, needle := range rule.needles {
			if strings.Contains(name, needle) {
				return rule.code
			}
		}
	}
	return DefaultYeastCode
}
