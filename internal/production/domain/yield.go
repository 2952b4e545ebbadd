package production

import (
	"math"
	"strings"
)

const (
	lbsPerTon           = 2000.0
	whiteGallonsPerTon  = 150.0
	redGallonsPerTon    = 160.0
	gallonsPer750mlCase = 2.38
)

var whiteVarietals = []string{
	"chardonnay",
	"sauvignon blanc",
	"riesling",
	"pinot gris",
	"pinot grigio",
	"viognier",
	"chenin",
	"gewurztraminer",
	"semillon",
	"muscat",
	"albarino",
	"roussanne",
	"marsanne",
	"gruner",
}

// CrushYieldGallons estimates juice volume from crushed fruit weight.
func CrushYieldGallons(crushedWeightLbs float64, white bool) float64 {
	perTon := redGallonsPerTon
	if white {
		perTon = whiteGallonsPerTon
	}
	return crushedWeightLbs / lbsPerTon * perTon
}

// EstimatedCases returns the number of 12 x 750ml cases a volume fills.
func EstimatedCases(volumeGallons float64) int {
	return int(math.Round(volumeGallons / gallonsPer750mlCase))
}

// CostPerGallon divides a total cost over a volume. Volumes <= 0 yield false.
func CostPerGallon(totalCost, volumeGallons float64) (float64, bool) {
	if volumeGallons <= 0 {
		return 0, false
	}
	return totalCost / volumeGallons, true
}

// IsWhiteVarietal reports whether varietal names a white grape.
func IsWhiteVarietal(varietal string) bool {
	name := strings.ToLower(strings.TrimSpace(varietal))
	if name == "" {
		return false
	}
	for _, white := range whiteVarietals {
		if strings.Contains(name, white) {
			return true
		}
	}
	return false
}
