// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Quad is an ordered quadrilateral: top-left, top-right, bottom-right,
// bottom-left. Plot borders are detected as quads and deskewed to rects.
type Quad [4]Point2D

// Bounds returns the axis-aligned bounding box of the quad.
func (q Quad) Bounds() Rect {
	return BoundingBox(q[:])
}

// MaxRectDeviation returns the largest distance between a quad corner and
// the matching corner of the quad's bounding box. A perfectly axis-aligned
// plot border has deviation 0; perspective skew raises it.
func (q Quad) MaxRectDeviation() float64 {
	b := q.Bounds()
	rect := Quad{
		{X: b.X, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y + b.Height},
		{X: b.X, Y: b.Y + b.Height},
	}
	var worst float64
	for i := range q {
		if d := q[i].Distance(rect[i]); d > worst {
			worst = d
		}
	}
	return worst
}

// Homography represents a 3x3 projective transformation matrix.
type Homography struct {
	M [3][3]float64
}

// IdentityHomography returns the identity transform.
func IdentityHomography() Homography {
	return Homography{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Apply applies the transform to a point.
func (h Homography) Apply(p Point2D) Point2D {
	w := h.M[2][0]*p.X + h.M[2][1]*p.Y + h.M[2][2]
	if math.Abs(w) < 1e-12 {
		return p
	}
	return Point2D{
		X: (h.M[0][0]*p.X + h.M[0][1]*p.Y + h.M[0][2]) / w,
		Y: (h.M[1][0]*p.X + h.M[1][1]*p.Y + h.M[1][2]) / w,
	}
}
