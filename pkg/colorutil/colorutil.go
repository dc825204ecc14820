// Package colorutil provides shared color conversions for the graph tracer.
//
// All HSV values follow the OpenCV convention (H 0-180, S 0-255, V 0-255) so
// that pure-Go code paths agree with gocv's CvtColor output.
package colorutil

import (
	"image/color"
	"math"
)

// Overlay colors used by the diagnostic mask renderer.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}

// HSVToRGB converts HSV (OpenCV convention) back to RGB (0-255).
// Used to render representative swatches for detected colors.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	h = h * 2 // back to 0-360
	s /= 255.0
	v /= 255.0

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return (r + m) * 255, (g + m) * 255, (b + m) * 255
}

// Luma returns the perceptual luminance (0-255) of an RGB triple using the
// Rec. 601 weights. Grid pitch analysis runs on this projection.
func Luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
