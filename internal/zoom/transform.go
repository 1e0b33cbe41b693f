// Package zoom computes the magnified view of the target rectangle and
// places the magnifier window on screen.
package zoom

import (
	"math"

	"github.com/verte-zerg/keygrid/internal/grid"
)

// Frame is the pinch-zoom transform for one target. Screen position of a
// screen-relative source point p is p*Scale - Offset.
type Frame struct {
	Target grid.Rect
	Screen grid.Rect
	Scale  float64
	Offset grid.Point
}

// Compute magnifies target around its centre and clamps the offset so the
// scaled target stays on screen. Scales below 1 are treated as 1.
func Compute(target, screen grid.Rect, desiredScale float64) Frame {
	scale := math.Max(1, desiredScale)
	left := target.MinX() - screen.MinX()
	top := target.MinY() - screen.MinY()
	return Frame{
		Target: target,
		Screen: screen,
		Scale:  scale,
		Offset: grid.Point{
			X: clampAxis(left, target.Width(), screen.Width(), scale),
			Y: clampAxis(top, target.Height(), screen.Height(), scale),
		},
	}
}

func clampAxis(lead, length, screenLength, scale float64) float64 {
	center := lead + length/2
	offset := center * (scale - 1)
	lower := (lead+length)*scale - screenLength
	upper := lead * scale
	if lower > upper {
		// scaled target is larger than the screen; keep it centred
		return center*scale - screenLength/2
	}
	return math.Max(lower, math.Min(offset, upper))
}

// Apply maps a global point through the frame to its magnified position in
// global coordinates.
func (f Frame) Apply(p grid.Point) grid.Point {
	rx := p.X - f.Screen.MinX()
	ry := p.Y - f.Screen.MinY()
	return grid.Point{
		X: f.Screen.MinX() + rx*f.Scale - f.Offset.X,
		Y: f.Screen.MinY() + ry*f.Scale - f.Offset.Y,
	}
}

// Invert maps a magnified global position back to the source point.
func (f Frame) Invert(p grid.Point) grid.Point {
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	return grid.Point{
		X: f.Screen.MinX() + (p.X-f.Screen.MinX()+f.Offset.X)/scale,
		Y: f.Screen.MinY() + (p.Y-f.Screen.MinY()+f.Offset.Y)/scale,
	}
}

// Magnification maps grid depth to a zoom factor.
type Magnification struct {
	Base float64
	Step float64
}

// DefaultMagnification zooms 2x at depth 1 and one more step per level.
var DefaultMagnification = Magnification{Base: 2, Step: 1}

// ScaleAt returns the magnification for depth. Depth zero is unmagnified.
func (m Magnification) ScaleAt(depth int) float64 {
	if depth <= 0 {
		return 1
	}
	return math.Max(1, m.Base+m.Step*float64(depth-1))
}
