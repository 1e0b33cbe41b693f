package grid

// ColumnRange is an inclusive range of base-layout columns.
type ColumnRange struct {
	Lower int
	Upper int
}

// Count returns the number of columns in the range.
func (c ColumnRange) Count() int {
	return c.Upper - c.Lower + 1
}

// Contains reports whether col lies in the range.
func (c ColumnRange) Contains(col int) bool {
	return col >= c.Lower && col <= c.Upper
}

// Slice is the part of the keyboard grid assigned to one screen.
type Slice struct {
	Screen  Rect
	Columns ColumnRange
	Layout  Layout
}

// ColumnRanges splits totalColumns into contiguous ranges, one per screen.
// Screens beyond the column count get nothing; leftover columns go to the
// leftmost ranges.
func ColumnRanges(totalColumns, screenCount int) []ColumnRange {
	if totalColumns <= 0 || screenCount <= 0 {
		return nil
	}
	clamped := screenCount
	if totalColumns < clamped {
		clamped = totalColumns
	}
	base := totalColumns / clamped
	rem := totalColumns % clamped
	out := make([]ColumnRange, 0, clamped)
	start := 0
	for i := 0; i < clamped; i++ {
		width := base
		if i < rem {
			width++
		}
		out = append(out, ColumnRange{Lower: start, Upper: start + width - 1})
		start += width
	}
	return out
}

// NewSlice builds the slice for screen covering columns of base. The slice
// layout is re-indexed so that column 0 is columns.Lower.
func NewSlice(screen Rect, columns ColumnRange, base Layout) Slice {
	var km Keymap
	for _, b := range base.bindings {
		if !columns.Contains(b.Coord.Col) {
			continue
		}
		km = append(km, Binding{
			Key:   b.Key,
			Coord: Coordinate{Row: b.Coord.Row, Col: b.Coord.Col - columns.Lower},
		})
	}
	return Slice{
		Screen:  screen,
		Columns: columns,
		Layout:  NewLayout(base.rows, columns.Count(), km),
	}
}

// Slices pairs screens with column ranges in order. Screens without a range
// are dropped.
func Slices(screens []Rect, base Layout) []Slice {
	ranges := ColumnRanges(base.columns, len(screens))
	n := len(ranges)
	if len(screens) < n {
		n = len(screens)
	}
	out := make([]Slice, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewSlice(screens[i], ranges[i], base))
	}
	return out
}
