// Package assemble turns unordered logical points into ordered curves:
// x-binning, robust per-bin reduction, and Savitzky-Golay smoothing.
package assemble

import (
	"fmt"
	"math"
	"sort"

	"graph-tracer/internal/model"
)

// Config tunes curve assembly. The bin width and MAD multiplier are tuning
// constants, not laws; they are exposed here so callers can adjust them per
// datasheet family.
type Config struct {
	// BinWidth is the x-bucket width in logical units. Zero derives it
	// from the data span (span / DefaultBinsPerCurve).
	BinWidth float64

	// MaxBins bounds the bucket count; wide spans widen the bins instead
	// of multiplying buckets.
	MaxBins int

	// MADMultiplier rejects points farther than k*MAD from the bin
	// median before the representative y is taken.
	MADMultiplier float64

	// MinBinPoints is the minimum support for a bin; smaller bins are
	// gaps, so a stray pixel can never mint a curve point.
	MinBinPoints int

	// SmoothWindow and SmoothOrder parameterize the Savitzky-Golay
	// filter. Window must be odd; order below window.
	SmoothWindow int
	SmoothOrder  int
}

// DefaultBinsPerCurve sets the automatic bin width: enough buckets that a
// full-width curve keeps its shape, few enough that each bucket spans
// several pixels of a typical scan.
const DefaultBinsPerCurve = 200

// DefaultConfig returns the assembly defaults.
func DefaultConfig() Config {
	return Config{
		BinWidth:      0, // auto
		MaxBins:       400,
		MADMultiplier: 3,
		MinBinPoints:  3,
		SmoothWindow:  9,
		SmoothOrder:   3,
	}
}

// Assemble bins, filters, and smooths the mapped points of one color into an
// ordered curve. Points come out strictly increasing in x.
//
// When fewer than two bins survive, the curve is returned empty with a
// warning instead of failing the extraction; other colors proceed.
func Assemble(colorName string, pts []model.LogicalPoint, cfg Config) (model.Curve, []string) {
	curve := model.Curve{ColorName: colorName, Points: nil}
	if len(pts) == 0 {
		return curve, []string{fmt.Sprintf("%s: no points to assemble", colorName)}
	}

	minX, maxX := pts[0].X, pts[0].X
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	span := maxX - minX
	if span <= 0 {
		return curve, []string{fmt.Sprintf("%s: degenerate x span", colorName)}
	}

	width := cfg.BinWidth
	if width <= 0 {
		width = span / DefaultBinsPerCurve
	}
	maxBins := cfg.MaxBins
	if maxBins <= 0 {
		maxBins = DefaultConfig().MaxBins
	}
	if span/width > float64(maxBins) {
		width = span / float64(maxBins)
	}

	bins := make(map[int][]float64)
	for _, p := range pts {
		idx := int((p.X - minX) / width)
		bins[idx] = append(bins[idx], p.Y)
	}

	minSupport := cfg.MinBinPoints
	if minSupport <= 0 {
		minSupport = 1
	}
	k := cfg.MADMultiplier
	if k <= 0 {
		k = DefaultConfig().MADMultiplier
	}

	indices := make([]int, 0, len(bins))
	for idx := range bins {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var points []model.LogicalPoint
	var gaps int
	for _, idx := range indices {
		ys := bins[idx]
		if len(ys) < minSupport {
			gaps++
			continue
		}
		y, ok := robustReduce(ys, k)
		if !ok {
			gaps++
			continue
		}
		points = append(points, model.LogicalPoint{
			X: minX + (float64(idx)+0.5)*width,
			Y: y,
		})
	}

	var warnings []string
	if len(points) < 2 {
		warnings = append(warnings, fmt.Sprintf("%s: insufficient support (%d valid bins)", colorName, len(points)))
		return curve, warnings
	}
	if gaps > len(points) {
		warnings = append(warnings, fmt.Sprintf("%s: sparse curve (%d gap bins, %d valid)", colorName, gaps, len(points)))
	}

	smoothCurve(points, cfg.SmoothWindow, cfg.SmoothOrder)

	curve.Points = points
	return curve, warnings
}

// robustReduce computes the bin representative: median after dropping
// points beyond k*MAD from the median. A zero MAD (all inliers identical)
// skips rejection entirely.
func robustReduce(ys []float64, k float64) (float64, bool) {
	med := median(ys)
	devs := make([]float64, len(ys))
	for i, y := range ys {
		devs[i] = math.Abs(y - med)
	}
	mad := median(devs)
	if mad == 0 {
		return med, true
	}

	inliers := ys[:0:0]
	for _, y := range ys {
		if math.Abs(y-med) <= k*mad {
			inliers = append(inliers, y)
		}
	}
	if len(inliers) == 0 {
		return 0, false
	}
	return median(inliers), true
}

// median returns the middle value, averaging the two central elements for
// even lengths. The input is not modified.
func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
