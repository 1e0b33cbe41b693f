package zoom

import (
	"math"

	"github.com/verte-zerg/keygrid/internal/grid"
)

// DefaultPadding keeps the magnifier this far from the screen edges.
const DefaultPadding = 8.0

// ClampedOrigin centres a window of size on target, then clamps it inside
// bounds inset by padding. When the window does not fit, the minimum edge
// wins.
func ClampedOrigin(target, size grid.Point, bounds grid.Rect, padding float64) grid.Point {
	return grid.Point{
		X: clampOrigin(target.X-size.X/2, bounds.MinX(), bounds.Width(), size.X, padding),
		Y: clampOrigin(target.Y-size.Y/2, bounds.MinY(), bounds.Height(), size.Y, padding),
	}
}

func clampOrigin(desired, minEdge, extent, size, padding float64) float64 {
	lo := minEdge + padding
	hi := minEdge + extent - size - padding
	return math.Max(lo, math.Min(desired, hi))
}
