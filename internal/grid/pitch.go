// Package grid analyzes the gridline structure of a plot image: dominant
// grid pitch via frequency analysis, and perspective skew of the plot border.
package grid

import (
	"image"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Pitch bounds in pixels. Datasheet plots at typical scan resolutions have
// gridlines between these; peaks outside the band are scanner noise or the
// plot border itself.
const (
	DefaultMinPitchPx = 5
	DefaultMaxPitchPx = 50

	// FallbackPitchPx is used when no clear grid peak exists. The pitch
	// only calibrates noise-filter scale, so a safe default never blocks
	// the pipeline.
	FallbackPitchPx = 10.0
)

// DetectPitch estimates the dominant grid pitch of a grayscale image by
// running an FFT over the row and column intensity projections and taking
// the strongest spatial-frequency peak inside [minPx, maxPx].
//
// The second return is false when no peak stood out; the caller should use
// FallbackPitchPx.
func DetectPitch(gray *image.Gray, minPx, maxPx int) (float64, bool) {
	if minPx <= 0 {
		minPx = DefaultMinPitchPx
	}
	if maxPx <= minPx {
		maxPx = DefaultMaxPitchPx
	}

	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 2*minPx || h < 2*minPx {
		return 0, false
	}

	// Ink density projections: gridlines are darker than background, so
	// invert. The DC offset is removed before the FFT either way.
	colProj := make([]float64, w)
	rowProj := make([]float64, h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := 0; x < w; x++ {
			v := 255 - float64(row[x])
			colProj[x] += v
			rowProj[y] += v
		}
	}
	for x := range colProj {
		colProj[x] /= float64(h)
	}
	for y := range rowProj {
		rowProj[y] /= float64(w)
	}

	colPitch, colPower := dominantPeriod(colProj, minPx, maxPx)
	rowPitch, rowPower := dominantPeriod(rowProj, minPx, maxPx)

	switch {
	case colPower <= 0 && rowPower <= 0:
		return 0, false
	case colPower >= rowPower:
		return colPitch, true
	default:
		return rowPitch, true
	}
}

// dominantPeriod finds the strongest spatial period of a 1D projection
// within [minPx, maxPx]. Returns zero power when no in-band bin beats the
// spectrum's out-of-band mean by a clear margin.
func dominantPeriod(proj []float64, minPx, maxPx int) (pitch, power float64) {
	n := len(proj)

	var mean float64
	for _, v := range proj {
		mean += v
	}
	mean /= float64(n)

	seq := make([]float64, n)
	for i, v := range proj {
		seq[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	// Bin k corresponds to period n/k samples.
	loBin := n / maxPx
	if loBin < 1 {
		loBin = 1
	}
	hiBin := n / minPx
	if hiBin >= len(coeffs) {
		hiBin = len(coeffs) - 1
	}
	if loBin > hiBin {
		return 0, 0
	}

	bestBin := -1
	var bestMag, totalMag float64
	var bins int
	for k := 1; k < len(coeffs); k++ {
		re := real(coeffs[k])
		im := imag(coeffs[k])
		mag := re*re + im*im
		totalMag += mag
		bins++
		if k >= loBin && k <= hiBin && mag > bestMag {
			bestMag = mag
			bestBin = k
		}
	}
	if bestBin < 0 || bins == 0 {
		return 0, 0
	}

	// Require the peak to dominate the average bin, otherwise the "peak"
	// is just broadband texture.
	avg := totalMag / float64(bins)
	if bestMag < 4*avg {
		return 0, 0
	}

	return float64(n) / float64(bestBin), bestMag
}
