package geometry

import (
	"math"
	"testing"
)

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}}
	got := BoundingBox(pts)
	want := Rect{X: -1, Y: 2, Width: 6, Height: 5}
	if got != want {
		t.Errorf("BoundingBox = %+v, want %+v", got, want)
	}

	if BoundingBox(nil) != (Rect{}) {
		t.Error("BoundingBox(nil) should be the zero rect")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 5}
	tests := []struct {
		p    Point2D
		want bool
	}{
		{Point2D{X: 5, Y: 2}, true},
		{Point2D{X: 0, Y: 0}, true},
		{Point2D{X: 10, Y: 5}, true},
		{Point2D{X: 11, Y: 2}, false},
		{Point2D{X: 5, Y: -1}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestQuadMaxRectDeviation(t *testing.T) {
	aligned := Quad{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 80},
		{X: 0, Y: 80},
	}
	if d := aligned.MaxRectDeviation(); d != 0 {
		t.Errorf("aligned quad deviation = %v, want 0", d)
	}

	skewed := Quad{
		{X: 5, Y: 0},
		{X: 100, Y: 3},
		{X: 100, Y: 80},
		{X: 0, Y: 80},
	}
	if d := skewed.MaxRectDeviation(); d <= 0 {
		t.Errorf("skewed quad deviation = %v, want positive", d)
	}
}

func TestHomographyApply(t *testing.T) {
	id := IdentityHomography()
	p := Point2D{X: 3, Y: 4}
	if got := id.Apply(p); got != p {
		t.Errorf("identity moved %+v to %+v", p, got)
	}

	// Pure translation by (10, -5).
	translate := Homography{M: [3][3]float64{
		{1, 0, 10},
		{0, 1, -5},
		{0, 0, 1},
	}}
	got := translate.Apply(p)
	if math.Abs(got.X-13) > 1e-12 || math.Abs(got.Y-(-1)) > 1e-12 {
		t.Errorf("translate(%+v) = %+v, want (13, -1)", p, got)
	}

	// A projective transform divides by w.
	proj := Homography{M: [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0.01, 1},
	}}
	got = proj.Apply(Point2D{X: 10, Y: 100})
	if math.Abs(got.X-5) > 1e-12 || math.Abs(got.Y-50) > 1e-12 {
		t.Errorf("projective apply = %+v, want (5, 50)", got)
	}
}
