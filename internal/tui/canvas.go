package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keygrid/internal/grid"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellScreen
	cellLabel
	cellDrill
	cellCursor
	cellBorder
)

type cell struct {
	ch        rune
	kind      cellKind
	highlight bool
}

// canvas maps a region of global desktop coordinates onto terminal cells.
type canvas struct {
	cols   int
	rows   int
	bounds grid.Rect
	cells  [][]cell
}

// fitCells picks the largest cols x rows that shows bounds without
// distortion, given that a terminal cell is about twice as tall as wide.
func fitCells(bounds grid.Rect, maxCols, maxRows int) (int, int) {
	if maxCols < 1 || maxRows < 1 || bounds.IsEmpty() {
		return max(maxCols, 1), max(maxRows, 1)
	}
	aspect := bounds.Width() / bounds.Height()
	cols := maxCols
	rows := int(math.Round(float64(cols) / (2 * aspect)))
	if rows > maxRows {
		rows = maxRows
		cols = int(math.Round(float64(rows) * 2 * aspect))
	}
	return max(min(cols, maxCols), 1), max(rows, 1)
}

func newCanvas(cols, rows int, bounds grid.Rect) *canvas {
	c := &canvas{cols: cols, rows: rows, bounds: bounds, cells: make([][]cell, rows)}
	for y := range c.cells {
		c.cells[y] = make([]cell, cols)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{ch: ' '}
		}
	}
	return c
}

// toCell returns the cell containing p. Points outside the bounds map to
// cells outside the canvas.
func (c *canvas) toCell(p grid.Point) (int, int) {
	x := (p.X - c.bounds.MinX()) / c.bounds.Width() * float64(c.cols)
	y := (p.Y - c.bounds.MinY()) / c.bounds.Height() * float64(c.rows)
	return int(math.Floor(x)), int(math.Floor(y))
}

// toGlobal returns the global point at the centre of cell (x, y).
func (c *canvas) toGlobal(x, y int) grid.Point {
	return grid.Point{
		X: c.bounds.MinX() + (float64(x)+0.5)/float64(c.cols)*c.bounds.Width(),
		Y: c.bounds.MinY() + (float64(y)+0.5)/float64(c.rows)*c.bounds.Height(),
	}
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.cols && y < c.rows
}

// fill marks every cell whose centre lies in r. A rect too small to cover
// any centre still marks the cell under its midpoint.
func (c *canvas) fill(r grid.Rect, apply func(*cell)) {
	x0, y0 := c.toCell(r.Origin)
	x1, y1 := c.toCell(grid.Point{X: r.MaxX(), Y: r.MaxY()})
	touched := false
	for y := max(y0, 0); y <= min(y1, c.rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.cols-1); x++ {
			if r.ContainsPoint(c.toGlobal(x, y)) {
				apply(&c.cells[y][x])
				touched = true
			}
		}
	}
	if !touched {
		if x, y := c.toCell(r.Center()); c.inside(x, y) {
			apply(&c.cells[y][x])
		}
	}
}

// put writes ch at (x, y). Wide runes take the following cell too.
func (c *canvas) put(x, y int, ch rune, kind cellKind) {
	if !c.inside(x, y) {
		return
	}
	w := runewidth.RuneWidth(ch)
	if w == 0 {
		return
	}
	if w > 1 && x+1 >= c.cols {
		ch = '?'
	}
	c.cells[y][x].ch = ch
	c.cells[y][x].kind = kind
	if w > 1 && x+1 < c.cols {
		c.cells[y][x+1].ch = 0
	}
}

func (c *canvas) putPoint(p grid.Point, ch rune, kind cellKind) {
	x, y := c.toCell(p)
	c.put(x, y, ch, kind)
}

func (c *canvas) text(x, y int, s string, kind cellKind) {
	for _, r := range s {
		c.put(x, y, r, kind)
		x += runewidth.RuneWidth(r)
	}
}

// box draws a single-line frame around the cells [x, x+w) x [y, y+h).
func (c *canvas) box(x, y, w, h int) {
	if w < 2 || h < 2 {
		return
	}
	for i := x + 1; i < x+w-1; i++ {
		c.put(i, y, '─', cellBorder)
		c.put(i, y+h-1, '─', cellBorder)
	}
	for j := y + 1; j < y+h-1; j++ {
		c.put(x, j, '│', cellBorder)
		c.put(x+w-1, j, '│', cellBorder)
	}
	c.put(x, y, '┌', cellBorder)
	c.put(x+w-1, y, '┐', cellBorder)
	c.put(x, y+h-1, '└', cellBorder)
	c.put(x+w-1, y+h-1, '┘', cellBorder)
}

func (c *canvas) clear(x, y, w, h int) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			if c.inside(i, j) {
				c.cells[j][i] = cell{ch: ' '}
			}
		}
	}
}

func styleFor(kind cellKind, highlight bool) lipgloss.Style {
	var style lipgloss.Style
	switch kind {
	case cellScreen:
		style = screenStyle
	case cellLabel:
		style = labelStyle
	case cellDrill:
		style = drillStyle
	case cellCursor:
		style = cursorStyle
	case cellBorder:
		style = borderStyle
	default:
		style = lipgloss.NewStyle()
	}
	if highlight {
		style = style.Background(highlightColor)
	}
	return style
}

// render joins runs of equally styled cells into styled strings.
func (c *canvas) render() string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		runKind, runHighlight := cellEmpty, false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styleFor(runKind, runHighlight).Render(run.String()))
			run.Reset()
		}
		for _, cl := range row {
			if cl.ch == 0 {
				continue
			}
			if cl.kind != runKind || cl.highlight != runHighlight {
				flush()
				runKind, runHighlight = cl.kind, cl.highlight
			}
			run.WriteRune(cl.ch)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// plain returns the canvas text without styling.
func (c *canvas) plain() string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			if cl.ch != 0 {
				b.WriteRune(cl.ch)
			}
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
