// Package segment converts a graph image into per-color binary masks:
// HSV thresholding, morphological cleanup, and connected-component filtering
// that keeps curve strokes while dropping legend swatches and tick marks.
package segment

import (
	"image"

	"graph-tracer/internal/colormodel"

	"gocv.io/x/gocv"
)

// DefaultMinComponentSize is the smallest connected component kept when the
// caller does not specify one. Curve strokes at typical scan sizes are
// hundreds of pixels; anything this small is speckle or anti-aliasing.
const DefaultMinComponentSize = 50

// Options tunes a segmentation pass.
type Options struct {
	// MinComponentSize drops connected components below this pixel area.
	MinComponentSize int

	// GridPitchPx sizes the morphological opening kernel. Zero uses the
	// grid analyzer's fallback pitch.
	GridPitchPx float64
}

// Mask is the surviving pixel set for one color. Pure data; the gocv Mats
// used to build it are closed before it is returned.
type Mask struct {
	Width  int
	Height int
	points []image.Point
}

// Points returns the mask pixels. The slice is owned by the mask.
func (m *Mask) Points() []image.Point { return m.points }

// Len returns the number of mask pixels.
func (m *Mask) Len() int { return len(m.points) }

// Segmenter holds the HSV conversion of one image for repeated per-color
// thresholding. Safe for concurrent SegmentColor calls: the HSV Mat is only
// read after construction.
type Segmenter struct {
	hsv    gocv.Mat
	width  int
	height int
}

// NewSegmenter converts a BGR image to HSV once, ready for per-color passes.
func NewSegmenter(imgBGR gocv.Mat) *Segmenter {
	hsv := gocv.NewMat()
	gocv.CvtColor(imgBGR, &hsv, gocv.ColorBGRToHSV)
	return &Segmenter{hsv: hsv, width: imgBGR.Cols(), height: imgBGR.Rows()}
}

// Close releases the HSV working image.
func (s *Segmenter) Close() {
	s.hsv.Close()
}

// SegmentColor produces the filtered mask for one color range.
func (s *Segmenter) SegmentColor(r colormodel.Range, opts Options) *Mask {
	if opts.MinComponentSize <= 0 {
		opts.MinComponentSize = DefaultMinComponentSize
	}
	if opts.GridPitchPx <= 0 {
		opts.GridPitchPx = 10
	}

	raw := s.threshold(r)
	defer raw.Close()

	cleaned := openMask(raw, kernelSizeFor(opts.GridPitchPx))
	defer cleaned.Close()

	return filterComponents(cleaned, opts, s.width, s.height)
}

// threshold builds the raw binary mask for a range via InRange. Wrap ranges
// (red) take two passes joined with a bitwise or.
func (s *Segmenter) threshold(r colormodel.Range) gocv.Mat {
	sLo, sHi := r.SatBounds()
	vLo, vHi := r.ValBounds()

	mask := gocv.NewMat()
	if !r.Wraps {
		gocv.InRangeWithScalar(s.hsv,
			gocv.NewScalar(r.HueLow, sLo, vLo, 0),
			gocv.NewScalar(r.HueHigh, sHi, vHi, 0),
			&mask)
		return mask
	}

	// [HueLow, 180] and [0, HueHigh] around the hue seam.
	upper := gocv.NewMat()
	defer upper.Close()
	gocv.InRangeWithScalar(s.hsv,
		gocv.NewScalar(r.HueLow, sLo, vLo, 0),
		gocv.NewScalar(180, sHi, vHi, 0),
		&upper)

	lower := gocv.NewMat()
	defer lower.Close()
	gocv.InRangeWithScalar(s.hsv,
		gocv.NewScalar(0, sLo, vLo, 0),
		gocv.NewScalar(r.HueHigh, sHi, vHi, 0),
		&lower)

	gocv.BitwiseOr(upper, lower, &mask)
	return mask
}

// kernelSizeFor scales the opening kernel with grid pitch: coarse grids mean
// coarse scans where speckle is bigger. Clamped so thin curve strokes on
// fine grids survive the erosion.
func kernelSizeFor(pitchPx float64) int {
	k := int(pitchPx / 5)
	if k < 2 {
		k = 2
	}
	if k > 5 {
		k = 5
	}
	return k
}

// openMask applies a morphological opening (erode then dilate) to remove
// speckle noise without growing the strokes.
func openMask(mask gocv.Mat, kernelSize int) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{kernelSize, kernelSize})
	defer kernel.Close()

	cleaned := gocv.NewMat()
	gocv.MorphologyEx(mask, &cleaned, gocv.MorphOpen, kernel)
	return cleaned
}

// Stats matrix columns produced by ConnectedComponentsWithStats.
const (
	ccStatLeft = iota
	ccStatTop
	ccStatWidth
	ccStatHeight
	ccStatArea
)

// filterComponents labels connected components and keeps only those that
// look like curve strokes. Two rejection rules:
//
//   - area below MinComponentSize: speckle and anti-aliasing halos
//   - near-square solid blobs well below image scale: legend swatches and
//     axis tick marks, which would otherwise leak into the curve
func filterComponents(mask gocv.Mat, opts Options, width, height int) *Mask {
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)

	imgArea := width * height
	keep := make(map[int32]bool, n)
	var kept int
	for i := 1; i < n; i++ { // label 0 is background
		area := int(stats.GetIntAt(i, ccStatArea))
		if area < opts.MinComponentSize {
			continue
		}

		bw := int(stats.GetIntAt(i, ccStatWidth))
		bh := int(stats.GetIntAt(i, ccStatHeight))
		if isLegendLike(area, bw, bh, imgArea) {
			continue
		}

		keep[int32(i)] = true
		kept += area
	}

	out := &Mask{Width: width, Height: height, points: make([]image.Point, 0, kept)}
	if len(keep) == 0 {
		return out
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if keep[labels.GetIntAt(y, x)] {
				out.points = append(out.points, image.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// isLegendLike flags near-square, solid components that are small relative
// to the image. A curve stroke's bounding box is elongated or, when the
// curve bends, sparsely filled; a legend swatch is both square and solid.
func isLegendLike(area, bw, bh, imgArea int) bool {
	if bw == 0 || bh == 0 {
		return true
	}
	squareness := float64(min(bw, bh)) / float64(max(bw, bh))
	fill := float64(area) / float64(bw*bh)
	small := area < imgArea/50
	return squareness >= 0.7 && fill >= 0.5 && small
}
