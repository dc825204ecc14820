// Package mapping converts mask pixel coordinates into logical graph
// coordinates under linear or logarithmic axis scaling.
package mapping

import (
	"image"
	"math"

	"graph-tracer/internal/model"
)

// MapPoint maps a single pixel to logical coordinates. Pixel row 0 is the
// top of the image while logical y grows upward, so the y fraction is
// inverted. The axis config must already be validated; log axes with a
// non-positive minimum are rejected by GraphAxisConfig.Validate before any
// point reaches this function.
func MapPoint(px, py, width, height int, axis model.GraphAxisConfig) model.LogicalPoint {
	axis = axis.Normalized()

	fx := 0.0
	if width > 1 {
		fx = float64(px) / float64(width-1)
	}
	fy := 1.0
	if height > 1 {
		fy = 1 - float64(py)/float64(height-1)
	}

	return model.LogicalPoint{
		X: mapAxis(fx, axis.XMin, axis.XMax, axis.XScaleType, axis.XScale),
		Y: mapAxis(fy, axis.YMin, axis.YMax, axis.YScaleType, axis.YScale),
	}
}

// MapPoints maps a mask's pixel set. Pure per-point math; order is
// preserved.
func MapPoints(pts []image.Point, width, height int, axis model.GraphAxisConfig) []model.LogicalPoint {
	out := make([]model.LogicalPoint, len(pts))
	for i, p := range pts {
		out[i] = MapPoint(p.X, p.Y, width, height, axis)
	}
	return out
}

func mapAxis(f, min, max float64, scale model.ScaleType, factor float64) float64 {
	if scale == model.ScaleLog {
		lo := math.Log10(min)
		hi := math.Log10(max)
		return math.Pow(10, lo+f*(hi-lo)) * factor
	}
	return min + f*(max-min)*factor
}
