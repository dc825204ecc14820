package grid

import (
	"image"
	"sort"

	"graph-tracer/pkg/geometry"

	"gocv.io/x/gocv"
)

// Plot border contours must cover a reasonable share of the image: smaller
// quads are legend boxes, larger ones the scan edge itself.
const (
	minQuadAreaShare = 0.1
	maxQuadAreaShare = 0.95
)

// DetectPlotQuad finds the plot border as the largest quadrilateral contour.
// Uses Canny edge detection and polygon approximation. The second return is
// false when no plausible border was found.
func DetectPlotQuad(img gocv.Mat) (geometry.Quad, bool) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{5, 5}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, 50, 150)

	// Dilate to connect edge segments broken by tick marks.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{3, 3})
	defer kernel.Close()
	gocv.Dilate(edges, &edges, kernel)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	imgArea := float64(img.Cols() * img.Rows())
	var best []geometry.Point2D
	var bestArea float64

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < imgArea*minQuadAreaShare || area > imgArea*maxQuadAreaShare {
			continue
		}

		epsilon := 0.02 * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, epsilon, true)

		// Accept 4-6 vertices; tick marks on the border often add a
		// vertex or two to an otherwise clean rectangle.
		if approx.Size() >= 4 && approx.Size() <= 6 && area > bestArea {
			bestArea = area
			best = best[:0]
			for j := 0; j < approx.Size(); j++ {
				pt := approx.At(j)
				best = append(best, geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)})
			}
		}
		approx.Close()
	}

	if len(best) < 4 {
		return geometry.Quad{}, false
	}

	corners := extractCorners(best, img.Cols(), img.Rows())
	if corners == nil {
		return geometry.Quad{}, false
	}
	return orderCorners(corners), true
}

// extractCorners picks one extreme point per image quadrant from a polygon.
// Returns nil unless all four quadrants are represented.
func extractCorners(points []geometry.Point2D, imgWidth, imgHeight int) []geometry.Point2D {
	centerX := float64(imgWidth) / 2
	centerY := float64(imgHeight) / 2

	var topLeft, topRight, bottomLeft, bottomRight []geometry.Point2D
	for _, p := range points {
		if p.X < centerX {
			if p.Y < centerY {
				topLeft = append(topLeft, p)
			} else {
				bottomLeft = append(bottomLeft, p)
			}
		} else {
			if p.Y < centerY {
				topRight = append(topRight, p)
			} else {
				bottomRight = append(bottomRight, p)
			}
		}
	}
	if len(topLeft) == 0 || len(topRight) == 0 || len(bottomLeft) == 0 || len(bottomRight) == 0 {
		return nil
	}

	findExtreme := func(pts []geometry.Point2D, better func(a, b geometry.Point2D) bool) geometry.Point2D {
		best := pts[0]
		for _, p := range pts[1:] {
			if better(p, best) {
				best = p
			}
		}
		return best
	}

	return []geometry.Point2D{
		findExtreme(topLeft, func(a, b geometry.Point2D) bool { return a.X+a.Y < b.X+b.Y }),
		findExtreme(topRight, func(a, b geometry.Point2D) bool { return a.X-a.Y > b.X-b.Y }),
		findExtreme(bottomRight, func(a, b geometry.Point2D) bool { return a.X+a.Y > b.X+b.Y }),
		findExtreme(bottomLeft, func(a, b geometry.Point2D) bool { return a.Y-a.X > b.Y-b.X }),
	}
}

// orderCorners orders four corner points as TL, TR, BR, BL.
func orderCorners(corners []geometry.Point2D) geometry.Quad {
	sorted := make([]geometry.Point2D, 4)
	copy(sorted, corners)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	topPair := sorted[:2]
	bottomPair := sorted[2:]

	sort.Slice(topPair, func(i, j int) bool {
		return topPair[i].X < topPair[j].X
	})
	sort.Slice(bottomPair, func(i, j int) bool {
		return bottomPair[i].X < bottomPair[j].X
	})

	return geometry.Quad{
		topPair[0],    // TL
		topPair[1],    // TR
		bottomPair[1], // BR
		bottomPair[0], // BL
	}
}
