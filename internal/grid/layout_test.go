package grid

import (
	"math"
	"testing"
)

func rectsEqual(a, b Rect) bool {
	const eps = 1e-9
	return math.Abs(a.MinX()-b.MinX()) < eps &&
		math.Abs(a.MinY()-b.MinY()) < eps &&
		math.Abs(a.Width()-b.Width()) < eps &&
		math.Abs(a.Height()-b.Height()) < eps
}

func TestDefaultLayoutCoordinates(t *testing.T) {
	l := DefaultLayout()
	cases := []struct {
		key  rune
		want Coordinate
	}{
		{'1', Coordinate{0, 0}},
		{'q', Coordinate{1, 0}},
		{'Q', Coordinate{1, 0}},
		{';', Coordinate{2, 9}},
		{'/', Coordinate{3, 9}},
	}
	for _, tc := range cases {
		got, ok := l.Coordinate(tc.key)
		if !ok {
			t.Fatalf("expected %q to be mapped", tc.key)
		}
		if got != tc.want {
			t.Fatalf("expected %q at %+v, got %+v", tc.key, tc.want, got)
		}
	}
	if _, ok := l.Coordinate('\\'); ok {
		t.Fatalf("expected backslash to be unmapped")
	}
}

func TestRectForRefinesTwice(t *testing.T) {
	l := DefaultLayout()
	screen := NewRect(0, 0, 100, 100)
	first, ok := l.RectFor('q', screen)
	if !ok {
		t.Fatalf("expected q to refine")
	}
	if !rectsEqual(first, NewRect(0, 25, 10, 25)) {
		t.Fatalf("unexpected first rect: %+v", first)
	}
	second, ok := l.RectFor('w', first)
	if !ok {
		t.Fatalf("expected w to refine")
	}
	if !rectsEqual(second, NewRect(1, 31.25, 1, 6.25)) {
		t.Fatalf("unexpected second rect: %+v", second)
	}
}

func TestRectForDigitThenHomeRow(t *testing.T) {
	l := DefaultLayout()
	first, _ := l.RectFor('1', NewRect(0, 0, 100, 100))
	second, ok := l.RectFor('a', first)
	if !ok {
		t.Fatalf("expected a to refine")
	}
	if !rectsEqual(second, NewRect(0, 12.5, 1, 6.25)) {
		t.Fatalf("unexpected rect: %+v", second)
	}
	center := second.Center()
	if center.X != 0.5 || center.Y != 15.625 {
		t.Fatalf("unexpected center: %+v", center)
	}
}

func TestLabels(t *testing.T) {
	l := DefaultLayout()
	cases := []struct {
		row, col int
		want     rune
	}{
		{0, 0, '1'},
		{1, 1, 'w'},
		{3, 9, '/'},
	}
	for _, tc := range cases {
		got, ok := l.Label(tc.row, tc.col)
		if !ok || got != tc.want {
			t.Fatalf("expected label %q at (%d,%d), got %q (%v)", tc.want, tc.row, tc.col, got, ok)
		}
	}
	if _, ok := l.Label(4, 0); ok {
		t.Fatalf("expected out of range row to have no label")
	}
	if _, ok := l.Label(0, -1); ok {
		t.Fatalf("expected negative column to have no label")
	}
}

func TestLabelFirstBindingWins(t *testing.T) {
	km := Keymap{
		{Key: 'a', Coord: Coordinate{0, 0}},
		{Key: 'b', Coord: Coordinate{0, 0}},
	}
	l := NewLayout(1, 1, km)
	got, ok := l.Label(0, 0)
	if !ok || got != 'a' {
		t.Fatalf("expected first binding label, got %q", got)
	}
	if c, ok := l.Coordinate('b'); !ok || c != (Coordinate{0, 0}) {
		t.Fatalf("expected b to still resolve")
	}
}

func TestSubdivideRejectsInvalid(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	if _, ok := r.Subdivide(0, 10, 0, 0); ok {
		t.Fatalf("expected zero rows to fail")
	}
	if _, ok := r.Subdivide(4, 10, 4, 0); ok {
		t.Fatalf("expected row out of range to fail")
	}
	if _, ok := r.Subdivide(4, 10, 0, 10); ok {
		t.Fatalf("expected col out of range to fail")
	}
}

func TestSubdivideTilesParent(t *testing.T) {
	parents := []Rect{
		NewRect(0, 0, 100, 100),
		NewRect(-1920, 0, 1920, 1080),
		NewRect(12.5, 7.25, 640, 360),
	}
	for _, parent := range parents {
		var area float64
		for row := 0; row < DefaultRows; row++ {
			for col := 0; col < DefaultColumns; col++ {
				cell, ok := parent.Subdivide(DefaultRows, DefaultColumns, row, col)
				if !ok {
					t.Fatalf("expected cell (%d,%d)", row, col)
				}
				if cell.MinX() < parent.MinX()-1e-9 || cell.MaxX() > parent.MaxX()+1e-9 ||
					cell.MinY() < parent.MinY()-1e-9 || cell.MaxY() > parent.MaxY()+1e-9 {
					t.Fatalf("cell %+v escapes parent %+v", cell, parent)
				}
				area += cell.Width() * cell.Height()
			}
		}
		if math.Abs(area-parent.Width()*parent.Height()) > 1e-6 {
			t.Fatalf("cells do not tile parent %+v: area %f", parent, area)
		}
	}
}

func TestLayoutFromRows(t *testing.T) {
	l := LayoutFromRows([]string{"ab", "cd", "ef"})
	if l.Rows() != 3 || l.Columns() != 2 {
		t.Fatalf("unexpected dimensions %dx%d", l.Rows(), l.Columns())
	}
	c, ok := l.Coordinate('F')
	if !ok || c != (Coordinate{2, 1}) {
		t.Fatalf("unexpected coordinate for F: %+v", c)
	}
}

func TestUnionAndBounds(t *testing.T) {
	b := Bounds([]Rect{NewRect(0, 0, 100, 100), NewRect(200, 0, 100, 100)})
	if !rectsEqual(b, NewRect(0, 0, 300, 100)) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	if Bounds(nil) != DefaultScreen {
		t.Fatalf("expected default screen for empty bounds")
	}
}
