package production

import "testing"

func TestCrushYieldGallons(t *testing.T) {
	if got := CrushYieldGallons(4000, true); got != 300 {
		t.Fatalf("expected 300 gallons for 2 tons white, got %v", got)
	}
	if got := CrushYieldGallons(4000, false); got != 320 {
		t.Fatalf("expected 320 gallons for 2 tons red, got %v", got)
	}
	if got := CrushYieldGallons(0, false); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestEstimatedCases(t *testing.T) {
	cases := []struct {
		gallons float64
		want    int
	}{
		{gallons: 238, want: 100},
		{gallons: 60, want: 25},
		{gallons: 1.1, want: 0},
		{gallons: 1.2, want: 1},
	}
	for _, tc := range cases {
		if got := EstimatedCases(tc.gallons); got != tc.want {
			t.Fatalf("%v gallons: expected %d cases, got %d", tc.gallons, tc.want, got)
		}
	}
}

func TestCostPerGallon(t *testing.T) {
	got, ok := CostPerGallon(1500, 300)
	if !ok || got != 5 {
		t.Fatalf("expected 5, got %v (ok=%v)", got, ok)
	}
	if _, ok := CostPerGallon(1500, 0); ok {
		t.Fatalf("expected zero volume to be unavailable")
	}
}

func TestIsWhiteVarietal(t *testing.T) {
	for _, v := range []string{"Chardonnay", "Sauvignon Blanc", "Pinot Gris", "dry riesling"} {
		if !IsWhiteVarietal(v) {
			t.Fatalf("%q should be white", v)
		}
	}
	for _, v := range []string{"Pinot Noir", "Cabernet Sauvignon", "Zinfandel", ""} {
		if IsWhiteVarietal(v) {
			t.Fatalf("%q should not be white", v)
		}
	}
}
