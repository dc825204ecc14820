package colormodel

import (
	"strings"
	"testing"
)

func TestRangeMatches(t *testing.T) {
	red, err := Lookup("red")
	if err != nil {
		t.Fatal(err)
	}
	blue, err := Lookup("blue")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		r       Range
		h, s, v float64
		want    bool
	}{
		{"pure red low seam", red, 0, 255, 255, true},
		{"pure red high seam", red, 178, 255, 255, true},
		{"red rejects green hue", red, 60, 255, 255, false},
		{"red rejects gray", red, 0, 10, 128, false},
		{"red rejects near-black", red, 0, 255, 20, false},
		{"blue center", blue, 115, 200, 200, true},
		{"blue rejects seam hue", blue, 2, 200, 200, false},
		{"blue rejects washed out", blue, 115, 30, 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Matches(tt.h, tt.s, tt.v); got != tt.want {
				t.Errorf("Matches(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.v, got, tt.want)
			}
		})
	}
}

func TestToleranceWidensBands(t *testing.T) {
	blue, _ := Lookup("blue")

	// Saturation 65 sits just below the base floor of 70.
	if blue.WithTolerance(0).Matches(115, 65, 200) {
		t.Fatal("zero tolerance should reject s=65")
	}
	if !blue.WithTolerance(0.2).Matches(115, 65, 200) {
		t.Fatal("tolerance 0.2 should accept s=65")
	}

	lo, hi := blue.WithTolerance(0.2).SatBounds()
	if lo >= 70 {
		t.Errorf("SatBounds lo = %v, want below 70", lo)
	}
	if hi != 255 {
		t.Errorf("SatBounds hi = %v, want clamped to 255", hi)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("chartreuse")
	if err == nil {
		t.Fatal("Lookup(chartreuse) should fail")
	}
	if !strings.Contains(err.Error(), "chartreuse") {
		t.Errorf("error %q should name the unknown color", err)
	}
}

func TestResolve(t *testing.T) {
	ranges, err := Resolve([]string{"red", "blue"}, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}
	for _, r := range ranges {
		if r.Tolerance != 0.3 {
			t.Errorf("%s tolerance = %v, want 0.3", r.Name, r.Tolerance)
		}
	}

	// Zero tolerance keeps the palette default.
	ranges, err = Resolve([]string{"green"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ranges[0].Tolerance != 0.1 {
		t.Errorf("tolerance = %v, want palette default 0.1", ranges[0].Tolerance)
	}

	if _, err := Resolve([]string{"red", "nope"}, 0); err == nil {
		t.Fatal("Resolve with unknown name should fail")
	}
}

func TestPaletteCoversHueCircle(t *testing.T) {
	// Every saturated bright hue should land in exactly one class.
	for h := 0.0; h < 180; h++ {
		var matches int
		for _, r := range Palette() {
			if r.Matches(h, 200, 200) {
				matches++
			}
		}
		if matches == 0 {
			t.Errorf("hue %v matched no class", h)
		}
	}
}
