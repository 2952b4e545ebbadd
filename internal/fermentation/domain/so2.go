package fermentation

import "math"

const (
	litersPerGallon = 3.785
	kmbsFactor      = 570.0
)

// RecommendedSO2 returns the free SO2 target in ppm for a must pH.
func RecommendedSO2(pH *float64) (float64, bool) {
	if pH == nil {
		return 0, false
	}
	switch v := *pH; {
	case v < 3.0:
		return 30, true
	case v < 3.3:
		return 40, true
	case v < 3.5:
		return 50, true
	case v < 3.7:
		return 60, true
	default:
		return 75, true
	}
}

// SO2Grams returns grams of potassium metabisulfite for the dose, rounded to 2 decimals.
func SO2Grams(ppm, volumeGallons *float64) (float64, bool) {
	if ppm == nil || volumeGallons == nil {
		return 0, false
	}
	grams := *ppm * *volumeGallons * litersPerGallon / kmbsFactor
	return math.Round(grams*100) / 100, true
}
