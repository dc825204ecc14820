package colormodel

import (
	"image"
	"math"
	"sort"

	"graph-tracer/internal/model"

	"github.com/lucasb-eyer/go-colorful"
)

// Detection tuning. Sampling every pixel of a 4000x3000 scan buys nothing
// over a stride, and the stride keeps detection under a few milliseconds.
const (
	// detectStride subsamples large images; chosen so at most ~250k
	// pixels are visited.
	maxDetectSamples = 250_000

	// minPixelShare is the fraction of sampled pixels a class must cover
	// to be reported at all. Filters out anti-aliasing halos.
	minPixelShare = 0.0005

	// minAbsolutePixels guards tiny images where the share test is noisy.
	minAbsolutePixels = 40
)

// DetectColors scans the whole image and reports which palette classes are
// present, with representative RGB, pixel counts, and a confidence derived
// from coverage and hue-cluster tightness. Results are sorted by pixel count
// descending.
func DetectColors(img image.Image) []model.DetectedColor {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	stride := 1
	for (w/stride)*(h/stride) > maxDetectSamples {
		stride++
	}

	type acc struct {
		count            int
		sumR, sumG, sumB float64
		sumH, sumH2      float64
	}
	accs := make([]acc, len(defaultPalette))

	var sampled int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			sampled++
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			hue, sat, val := c.Hsv()
			// colorful returns H 0-360, S/V 0-1; the palette uses the
			// OpenCV convention.
			hh := hue / 2
			ss := sat * 255
			vv := val * 255

			for i, r := range defaultPalette {
				if !r.Matches(hh, ss, vv) {
					continue
				}
				a := &accs[i]
				a.count++
				a.sumR += c.R * 255
				a.sumG += c.G * 255
				a.sumB += c.B * 255
				// Unwrap hue for wrap classes so the variance is
				// meaningful across the 0/180 seam.
				uh := hh
				if r.Wraps && hh <= r.HueHigh {
					uh += 180
				}
				a.sumH += uh
				a.sumH2 += uh * uh
			}
		}
	}

	var out []model.DetectedColor
	for i, r := range defaultPalette {
		a := accs[i]
		if a.count < minAbsolutePixels {
			continue
		}
		share := float64(a.count) / float64(sampled)
		if share < minPixelShare {
			continue
		}

		n := float64(a.count)
		meanH := a.sumH / n
		varH := a.sumH2/n - meanH*meanH
		if varH < 0 {
			varH = 0
		}
		// Tight hue clusters (a real curve stroke) score near 1; spread
		// across the whole band (background noise) decays toward 0.
		tightness := 1.0 / (1.0 + math.Sqrt(varH)/8.0)
		coverage := math.Min(1, share*400)
		confidence := coverage * (0.4 + 0.6*tightness)

		out = append(out, model.DetectedColor{
			Name:        r.Name,
			DisplayName: r.DisplayName,
			RGB: model.RGBColor{
				R: uint8(a.sumR / n),
				G: uint8(a.sumG / n),
				B: uint8(a.sumB / n),
			},
			PixelCount: a.count * stride * stride,
			Confidence: confidence,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PixelCount != out[j].PixelCount {
			return out[i].PixelCount > out[j].PixelCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}
