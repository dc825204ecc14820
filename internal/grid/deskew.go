package grid

import (
	"fmt"
	"image"

	"graph-tracer/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// deskewThresholdPx is the corner deviation below which a detected quad is
// treated as already axis-aligned and no warp is applied.
const deskewThresholdPx = 3.0

// ComputeHomography solves the 3x3 projective transform mapping src corners
// onto dst corners (h33 fixed to 1, eight unknowns, eight equations).
func ComputeHomography(src, dst geometry.Quad) (geometry.Homography, error) {
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		// xp = (h11 x + h12 y + h13) / (h31 x + h32 y + 1)
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -xp*x)
		A.Set(i*2, 7, -xp*y)
		B.SetVec(i*2, xp)

		// yp = (h21 x + h22 y + h23) / (h31 x + h32 y + 1)
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -yp*x)
		A.Set(i*2+1, 7, -yp*y)
		B.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return geometry.Homography{}, fmt.Errorf("solve homography: %w", err)
	}

	return geometry.Homography{M: [3][3]float64{
		{params.AtVec(0), params.AtVec(1), params.AtVec(2)},
		{params.AtVec(3), params.AtVec(4), params.AtVec(5)},
		{params.AtVec(6), params.AtVec(7), 1},
	}}, nil
}

// Deskew warps the image so the given plot-border quad becomes its own
// axis-aligned bounding rectangle. Returns the warped image, the homography
// used, and whether a warp was applied at all; quads already within
// deskewThresholdPx of a rectangle are left untouched.
//
// The returned Mat is always a new allocation owned by the caller.
func Deskew(src gocv.Mat, quad geometry.Quad) (gocv.Mat, geometry.Homography, bool) {
	if quad.MaxRectDeviation() < deskewThresholdPx {
		return src.Clone(), geometry.IdentityHomography(), false
	}

	b := quad.Bounds()
	dst := geometry.Quad{
		{X: b.X, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y + b.Height},
		{X: b.X, Y: b.Y + b.Height},
	}

	h, err := ComputeHomography(quad, dst)
	if err != nil {
		return src.Clone(), geometry.IdentityHomography(), false
	}

	// Hand the matrix to OpenCV for the actual pixel warp.
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer m.Close()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, h.M[r][c])
		}
	}

	warped := gocv.NewMat()
	gocv.WarpPerspective(src, &warped, m, image.Point{X: src.Cols(), Y: src.Rows()})
	return warped, h, true
}
