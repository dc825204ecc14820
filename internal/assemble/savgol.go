package assemble

import (
	"graph-tracer/internal/model"

	"gonum.org/v1/gonum/mat"
)

// smoothCurve applies a Savitzky-Golay filter to the y values of an ordered
// point sequence, in place. The filter fits a polynomial of the given order
// inside a sliding window and keeps the fitted center value, which preserves
// peaks and slopes far better than a moving average.
//
// Sequences shorter than the (odd-adjusted) window, or windows that cannot
// hold the polynomial, are left unsmoothed.
func smoothCurve(points []model.LogicalPoint, window, order int) {
	if window <= 0 {
		window = DefaultConfig().SmoothWindow
	}
	if order <= 0 {
		order = DefaultConfig().SmoothOrder
	}
	if window%2 == 0 {
		window++
	}
	if window > len(points) {
		window = len(points)
		if window%2 == 0 {
			window--
		}
	}
	if window < 3 || order >= window {
		return
	}

	coeffs, err := savgolCoeffs(window, order)
	if err != nil {
		return
	}

	half := window / 2
	n := len(points)
	ys := make([]float64, n)
	for i, p := range points {
		ys[i] = p.Y
	}

	for i := range points {
		var sum float64
		for j := -half; j <= half; j++ {
			sum += coeffs[j+half] * ys[reflect(i+j, n)]
		}
		points[i].Y = sum
	}
}

// reflect mirrors an index back into [0, n) at the sequence edges.
func reflect(i, n int) int {
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - 2 - i
	}
	return i
}

// savgolCoeffs computes the convolution weights that evaluate the
// least-squares polynomial fit at the window center. With the Vandermonde
// matrix A over offsets -h..h, the weights are the first row of
// (A^T A)^-1 A^T.
func savgolCoeffs(window, order int) ([]float64, error) {
	half := window / 2
	A := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		z := float64(i - half)
		v := 1.0
		for j := 0; j <= order; j++ {
			A.Set(i, j, v)
			v *= z
		}
	}

	var ata mat.Dense
	ata.Mul(A.T(), A)

	var pinv mat.Dense
	if err := pinv.Solve(&ata, A.T()); err != nil {
		return nil, err
	}

	return mat.Row(nil, 0, &pinv), nil
}
