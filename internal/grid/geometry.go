// Package grid contains screen geometry, the keyboard grid layout and the
// per-screen column partitioning.
package grid

import "math"

// Point is a position in global screen coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle. Size components are never negative.
type Rect struct {
	Origin Point
	Size   Point
}

// DefaultScreen is used whenever no screen geometry is available.
var DefaultScreen = NewRect(0, 0, 1920, 1080)

// NewRect builds a rectangle from origin and size components.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Point{X: width, Y: height}}
}

func (r Rect) MinX() float64   { return r.Origin.X }
func (r Rect) MinY() float64   { return r.Origin.Y }
func (r Rect) Width() float64  { return r.Size.X }
func (r Rect) Height() float64 { return r.Size.Y }
func (r Rect) MaxX() float64   { return r.Origin.X + r.Size.X }
func (r Rect) MaxY() float64   { return r.Origin.Y + r.Size.Y }
func (r Rect) MidX() float64   { return r.Origin.X + r.Size.X/2 }
func (r Rect) MidY() float64   { return r.Origin.Y + r.Size.Y/2 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.MidX(), Y: r.MidY()}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Size.X <= 0 || r.Size.Y <= 0
}

// Subdivide splits r into rows x cols equal cells and returns the cell at
// (row, col). It returns false for non-positive dimensions or an out of
// range cell.
func (r Rect) Subdivide(rows, cols, row, col int) (Rect, bool) {
	if rows <= 0 || cols <= 0 {
		return Rect{}, false
	}
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return Rect{}, false
	}
	tileW := r.Size.X / float64(cols)
	tileH := r.Size.Y / float64(rows)
	return NewRect(
		r.Origin.X+float64(col)*tileW,
		r.Origin.Y+float64(row)*tileH,
		tileW,
		tileH,
	), true
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return NewRect(r.Origin.X+dx, r.Origin.Y+dy, r.Size.X, r.Size.Y)
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.MinX() >= r.MinX() &&
		other.MinY() >= r.MinY() &&
		other.MaxX() <= r.MaxX() &&
		other.MaxY() <= r.MaxY()
}

// ContainsPoint reports whether p lies inside r. The max edges are exclusive.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.MinX(), other.MinX())
	minY := math.Min(r.MinY(), other.MinY())
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return NewRect(minX, minY, maxX-minX, maxY-minY)
}

// Bounds returns the union of all rects, or DefaultScreen when rects is empty.
func Bounds(rects []Rect) Rect {
	if len(rects) == 0 {
		return DefaultScreen
	}
	out := rects[0]
	for _, r := range rects[1:] {
		out = out.Union(r)
	}
	return out
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
