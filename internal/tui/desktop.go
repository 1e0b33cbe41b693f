package tui

import (
	"fmt"
	"math"

	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/session"
	"github.com/verte-zerg/keygrid/internal/zoom"
)

const (
	screenRune = '·'
	drillRune  = '◎'
	cursorRune = '+'
)

// scene is everything drawn on the virtual desktop for one frame.
type scene struct {
	screens   []grid.Rect
	slices    []grid.Slice
	state     session.State
	frame     zoom.Frame
	drill     *grid.Point
	cursor    *grid.Point
	padding   float64
	showLabel bool
}

// labelCell is one grid cell with the key that selects it.
type labelCell struct {
	rect grid.Rect
	key  rune
}

// gridCells lists the cells the next key can select.
func (s scene) gridCells() []labelCell {
	var out []labelCell
	add := func(rect grid.Rect, layout grid.Layout) {
		rows, cols := layout.Rows(), layout.Columns()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				key, ok := layout.Label(r, c)
				if !ok {
					continue
				}
				cellRect, ok := rect.Subdivide(rows, cols, r, c)
				if ok {
					out = append(out, labelCell{rect: cellRect, key: key})
				}
			}
		}
	}
	sel := s.state.SelectedScreen
	if s.state.HasSelection() && sel < len(s.slices) {
		add(s.state.GridRect, s.slices[sel].Layout)
		return out
	}
	for _, sl := range s.slices {
		add(sl.Screen, sl.Layout)
	}
	return out
}

func drawScene(c *canvas, s scene) {
	for _, screen := range s.screens {
		c.fill(screen, func(cl *cell) {
			cl.ch = screenRune
			cl.kind = cellScreen
		})
	}
	if s.state.Active {
		c.fill(s.state.CurrentRect, func(cl *cell) { cl.highlight = true })
		if s.state.GridVisible && s.showLabel {
			for _, lc := range s.gridCells() {
				c.putPoint(lc.rect.Center(), lc.key, cellLabel)
			}
		}
	}
	if s.drill != nil {
		c.putPoint(*s.drill, drillRune, cellDrill)
	}
	if s.cursor != nil {
		c.putPoint(*s.cursor, cursorRune, cellCursor)
	}
	if s.state.Active && s.state.ZoomVisible {
		drawMagnifier(c, s)
	}
}

// drawMagnifier renders the zoom frame into a boxed inset placed near the
// target. The inset shows the frame's screen; every inset cell samples the
// source point that Invert maps it back to.
func drawMagnifier(c *canvas, s scene) {
	w := min(max(c.cols/3, 14), c.cols)
	h := min(max(c.rows/3, 7), c.rows)
	if w < 4 || h < 4 {
		return
	}
	tx, ty := c.toCell(s.state.TargetPoint())
	pad := s.padding / c.bounds.Width() * float64(c.cols)
	origin := zoom.ClampedOrigin(
		grid.Point{X: float64(tx), Y: float64(ty)},
		grid.Point{X: float64(w), Y: float64(h)},
		grid.NewRect(0, 0, float64(c.cols), float64(c.rows)),
		math.Max(0, math.Min(pad, 1)),
	)
	ox := max(0, min(int(math.Round(origin.X)), c.cols-w))
	oy := max(0, min(int(math.Round(origin.Y)), c.rows-h))
	// An inset right on top of the target hides it, so move to the
	// opposite half when they overlap.
	if tx >= ox && tx < ox+w && ty >= oy && ty < oy+h {
		if ty < c.rows/2 {
			oy = c.rows - h
		} else {
			oy = 0
		}
	}
	c.clear(ox, oy, w, h)
	c.box(ox, oy, w, h)
	c.text(ox+2, oy, fmt.Sprintf(" %.1fx ", s.frame.Scale), cellBorder)

	iw, ih := w-2, h-2
	screen := s.frame.Screen
	if screen.IsEmpty() {
		return
	}
	toInset := func(p grid.Point) (int, int, bool) {
		if !screen.ContainsPoint(p) {
			return 0, 0, false
		}
		x := int((p.X - screen.MinX()) / screen.Width() * float64(iw))
		y := int((p.Y - screen.MinY()) / screen.Height() * float64(ih))
		return ox + 1 + x, oy + 1 + y, true
	}
	for j := 0; j < ih; j++ {
		for i := 0; i < iw; i++ {
			shown := grid.Point{
				X: screen.MinX() + (float64(i)+0.5)/float64(iw)*screen.Width(),
				Y: screen.MinY() + (float64(j)+0.5)/float64(ih)*screen.Height(),
			}
			src := s.frame.Invert(shown)
			cl := &c.cells[oy+1+j][ox+1+i]
			for _, scr := range s.screens {
				if scr.ContainsPoint(src) {
					cl.ch, cl.kind = screenRune, cellScreen
					break
				}
			}
			cl.highlight = s.state.CurrentRect.ContainsPoint(src)
		}
	}
	if s.showLabel {
		for _, lc := range s.gridCells() {
			if x, y, ok := toInset(s.frame.Apply(lc.rect.Center())); ok {
				c.put(x, y, lc.key, cellLabel)
			}
		}
	}
	if s.drill != nil {
		if x, y, ok := toInset(s.frame.Apply(*s.drill)); ok {
			c.put(x, y, drillRune, cellDrill)
		}
	}
	if s.cursor != nil {
		if x, y, ok := toInset(s.frame.Apply(*s.cursor)); ok {
			c.put(x, y, cursorRune, cellCursor)
		}
	}
}
