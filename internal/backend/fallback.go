package backend

import (
	"context"
	"image"
	"time"

	"graph-tracer/internal/assemble"
	"graph-tracer/internal/colormodel"
	"graph-tracer/internal/extract"
	"graph-tracer/internal/imageio"
	"graph-tracer/internal/mapping"
	"graph-tracer/internal/model"
	"graph-tracer/pkg/colorutil"

	"github.com/anthonynsimon/bild/blur"
)

// Fallback is the constrained tier: pure Go, no OpenCV, no grid or
// perspective correction. It runs the same masking and mapping math at
// reduced fidelity; it never fabricates placeholder curves. Results carry a
// warning and a dampened quality score so callers can tell.
type Fallback struct {
	cfg FallbackConfig
}

// FallbackConfig tunes the constrained tier.
type FallbackConfig struct {
	MinComponentSize int
	ColorTolerance   float64
	Assemble         assemble.Config
}

// NewFallback builds the constrained backend.
func NewFallback(cfg FallbackConfig) *Fallback {
	if cfg.MinComponentSize <= 0 {
		cfg.MinComponentSize = 50
	}
	return &Fallback{cfg: cfg}
}

// Name implements extract.Backend.
func (b *Fallback) Name() string { return extract.MethodFallback }

// HealthCheck implements extract.Backend. The fallback has no external
// dependencies; it is the tier of last resort and always available.
func (b *Fallback) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// DetectColors implements extract.Engine.
func (b *Fallback) DetectColors(ctx context.Context, imageBytes []byte) ([]model.DetectedColor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := imageio.Decode(imageBytes)
	if err != nil {
		return nil, err
	}
	return colormodel.DetectColors(imageio.ClampSize(img)), nil
}

// ExtractCurves implements extract.Engine via simple HSV thresholding and
// component size filtering, colors processed sequentially with a
// cancellation check between passes.
func (b *Fallback) ExtractCurves(ctx context.Context, imageBytes []byte, colorNames []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error) {
	start := time.Now()

	if err := axis.Validate(); err != nil {
		return nil, err
	}
	if len(colorNames) == 0 {
		return nil, &model.ConfigError{Field: "selectedColorNames", Reason: "must name at least one color"}
	}
	tol := axis.ColorTolerance
	if tol == 0 {
		tol = b.cfg.ColorTolerance
	}
	ranges, err := colormodel.Resolve(colorNames, tol)
	if err != nil {
		return nil, &model.ConfigError{Field: "selectedColorNames", Reason: err.Error()}
	}

	img, _, err := imageio.Decode(imageBytes)
	if err != nil {
		return nil, err
	}
	img = imageio.ClampSize(img)

	// Light blur knocks down dithering noise before thresholding; the
	// morphology the OpenCV tiers run is not available here.
	blurred := blur.Gaussian(img, 1.0)
	bounds := blurred.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	minSize := axis.MinComponentSize
	if minSize <= 0 {
		minSize = b.cfg.MinComponentSize
	}

	res := &model.ExtractionResult{Success: true}
	res.Metadata.ImageWidth = width
	res.Metadata.ImageHeight = height
	res.Metadata.Warnings = []string{"reduced-fidelity fallback: no grid or perspective correction"}

	var populated int
	var supportSum float64
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pts := b.maskColor(blurred, r, minSize)
		logical := mapping.MapPoints(pts, width, height, axis)
		curve, warns := assemble.Assemble(r.Name, logical, b.cfg.Assemble)

		res.Curves = append(res.Curves, curve)
		res.Metadata.Warnings = append(res.Metadata.Warnings, warns...)
		res.TotalPoints += len(curve.Points)
		if len(curve.Points) > 0 {
			populated++
			s := float64(len(curve.Points)) / 50.0
			if s > 1 {
				s = 1
			}
			supportSum += s
		}
	}

	res.Metadata.DetectedColorCount = populated
	if populated == 0 {
		res.Error = model.ErrNoColorsDetected.Error()
		res.Metadata.Warnings = append(res.Metadata.Warnings, model.ErrNoColorsDetected.Error())
	} else {
		yield := float64(populated) / float64(len(ranges))
		// Capped below the native tiers: an uncorrected image deserves
		// a score that prompts review.
		res.Metadata.QualityScore = 0.75 * (0.6*yield + 0.4*supportSum/float64(populated))
	}

	res.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return res, nil
}

// maskColor thresholds one color class and drops connected components
// smaller than minSize. 8-neighbor adjacency, iterative flood fill.
func (b *Fallback) maskColor(img *image.RGBA, r colormodel.Range, minSize int) []image.Point {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			hh, ss, vv := colorutil.RGBToHSV(
				float64(row[x*4]),
				float64(row[x*4+1]),
				float64(row[x*4+2]),
			)
			if r.Matches(hh, ss, vv) {
				mask[y*w+x] = true
			}
		}
	}

	visited := make([]bool, w*h)
	var out []image.Point
	var stack []int
	component := make([]int, 0, 256)

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}

		component = component[:0]
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, idx)

			cx, cy := idx%w, idx/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := cx+dx, cy+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					n := ny*w + nx
					if mask[n] && !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
		}

		if len(component) < minSize {
			continue
		}
		for _, idx := range component {
			out = append(out, image.Point{X: idx % w, Y: idx / w})
		}
	}

	return out
}
