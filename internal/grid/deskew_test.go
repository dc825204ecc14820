package grid

import (
	"math"
	"testing"

	"graph-tracer/pkg/geometry"
)

func TestComputeHomography(t *testing.T) {
	// A mildly skewed plot border and its axis-aligned target.
	src := geometry.Quad{
		{X: 12, Y: 8},
		{X: 390, Y: 15},
		{X: 395, Y: 288},
		{X: 8, Y: 282},
	}
	b := src.Bounds()
	dst := geometry.Quad{
		{X: b.X, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y + b.Height},
		{X: b.X, Y: b.Y + b.Height},
	}

	h, err := ComputeHomography(src, dst)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		got := h.Apply(src[i])
		if math.Abs(got.X-dst[i].X) > 1e-6 || math.Abs(got.Y-dst[i].Y) > 1e-6 {
			t.Errorf("corner %d: Apply(%v) = %v, want %v", i, src[i], got, dst[i])
		}
	}
}

func TestComputeHomographyIdentity(t *testing.T) {
	q := geometry.Quad{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 80},
		{X: 0, Y: 80},
	}
	h, err := ComputeHomography(q, q)
	if err != nil {
		t.Fatal(err)
	}

	p := h.Apply(geometry.Point2D{X: 37, Y: 21})
	if math.Abs(p.X-37) > 1e-9 || math.Abs(p.Y-21) > 1e-9 {
		t.Errorf("identity homography moved (37, 21) to %v", p)
	}
}

func TestComputeHomographyDegenerate(t *testing.T) {
	// Collinear corners give a singular system.
	src := geometry.Quad{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 0},
		{X: 3, Y: 0},
	}
	dst := geometry.Quad{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 80},
		{X: 0, Y: 80},
	}
	if _, err := ComputeHomography(src, dst); err == nil {
		t.Error("degenerate quad should fail to solve")
	}
}
