package grid

import "unicode"

const (
	// DefaultRows is the number of rows on the default keyboard grid.
	DefaultRows = 4
	// DefaultColumns is the number of columns on the default keyboard grid.
	DefaultColumns = 10
)

// DefaultKeymapRows lists the physical keyboard rows of the default grid.
var DefaultKeymapRows = []string{
	"1234567890",
	"qwertyuiop",
	"asdfghjkl;",
	"zxcvbnm,./",
}

// Coordinate addresses a grid cell.
type Coordinate struct {
	Row int
	Col int
}

// Binding maps a key to a grid cell.
type Binding struct {
	Key   rune
	Coord Coordinate
}

// Keymap is an ordered list of bindings. Order matters for labels: the
// first binding registered for a cell is its label.
type Keymap []Binding

// KeymapFromRows binds the i-th rune of the r-th string to cell (r, i).
func KeymapFromRows(rows []string) Keymap {
	var km Keymap
	for r, row := range rows {
		col := 0
		for _, key := range row {
			km = append(km, Binding{Key: key, Coord: Coordinate{Row: r, Col: col}})
			col++
		}
	}
	return km
}

// Layout maps keys to cells of a rows x columns grid.
type Layout struct {
	rows     int
	columns  int
	bindings Keymap
	byKey    map[rune]Coordinate
	labels   map[Coordinate]rune
}

// NewLayout builds a layout. Keys are matched case-insensitively.
func NewLayout(rows, columns int, keymap Keymap) Layout {
	l := Layout{
		rows:     rows,
		columns:  columns,
		bindings: make(Keymap, 0, len(keymap)),
		byKey:    make(map[rune]Coordinate, len(keymap)),
		labels:   make(map[Coordinate]rune, len(keymap)),
	}
	for _, b := range keymap {
		key := unicode.ToLower(b.Key)
		l.bindings = append(l.bindings, Binding{Key: key, Coord: b.Coord})
		l.byKey[key] = b.Coord
		if _, taken := l.labels[b.Coord]; !taken {
			l.labels[b.Coord] = key
		}
	}
	return l
}

// DefaultLayout returns the 4x10 QWERTY grid.
func DefaultLayout() Layout {
	return NewLayout(DefaultRows, DefaultColumns, KeymapFromRows(DefaultKeymapRows))
}

// LayoutFromRows builds a layout sized to the given keyboard rows.
func LayoutFromRows(rows []string) Layout {
	cols := 0
	for _, row := range rows {
		if n := len([]rune(row)); n > cols {
			cols = n
		}
	}
	return NewLayout(len(rows), cols, KeymapFromRows(rows))
}

func (l Layout) Rows() int    { return l.rows }
func (l Layout) Columns() int { return l.columns }

// Bindings returns a copy of the layout bindings in registration order.
func (l Layout) Bindings() Keymap {
	return append(Keymap(nil), l.bindings...)
}

// Coordinate returns the cell bound to key.
func (l Layout) Coordinate(key rune) (Coordinate, bool) {
	c, ok := l.byKey[unicode.ToLower(key)]
	return c, ok
}

// RectFor returns the cell of rect that key addresses.
func (l Layout) RectFor(key rune, rect Rect) (Rect, bool) {
	c, ok := l.Coordinate(key)
	if !ok {
		return Rect{}, false
	}
	return rect.Subdivide(l.rows, l.columns, c.Row, c.Col)
}

// Label returns the key shown in cell (row, col).
func (l Layout) Label(row, col int) (rune, bool) {
	if row < 0 || row >= l.rows || col < 0 || col >= l.columns {
		return 0, false
	}
	r, ok := l.labels[Coordinate{Row: row, Col: col}]
	return r, ok
}
