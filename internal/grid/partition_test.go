package grid

import (
	"reflect"
	"testing"
)

func TestColumnRanges(t *testing.T) {
	cases := []struct {
		cols, screens int
		want          []ColumnRange
	}{
		{10, 1, []ColumnRange{{0, 9}}},
		{10, 2, []ColumnRange{{0, 4}, {5, 9}}},
		{10, 3, []ColumnRange{{0, 3}, {4, 6}, {7, 9}}},
		{3, 5, []ColumnRange{{0, 0}, {1, 1}, {2, 2}}},
	}
	for _, tc := range cases {
		got := ColumnRanges(tc.cols, tc.screens)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ColumnRanges(%d, %d): expected %v, got %v", tc.cols, tc.screens, tc.want, got)
		}
	}
	if got := ColumnRanges(0, 2); len(got) != 0 {
		t.Fatalf("expected no ranges for zero columns, got %v", got)
	}
	if got := ColumnRanges(10, 0); len(got) != 0 {
		t.Fatalf("expected no ranges for zero screens, got %v", got)
	}
}

func TestColumnRangesCoverAllColumns(t *testing.T) {
	for cols := 1; cols <= 12; cols++ {
		for screens := 1; screens <= 6; screens++ {
			ranges := ColumnRanges(cols, screens)
			next := 0
			for _, r := range ranges {
				if r.Lower != next {
					t.Fatalf("gap at %d for (%d, %d): %v", next, cols, screens, ranges)
				}
				next = r.Upper + 1
			}
			if next != cols {
				t.Fatalf("ranges for (%d, %d) end at %d: %v", cols, screens, next, ranges)
			}
		}
	}
}

func TestSliceReindexesColumns(t *testing.T) {
	base := DefaultLayout()
	s := NewSlice(NewRect(200, 0, 100, 100), ColumnRange{Lower: 5, Upper: 9}, base)
	if s.Layout.Columns() != 5 {
		t.Fatalf("expected 5 columns, got %d", s.Layout.Columns())
	}
	c, ok := s.Layout.Coordinate('y')
	if !ok || c != (Coordinate{Row: 1, Col: 0}) {
		t.Fatalf("expected y at (1,0), got %+v (%v)", c, ok)
	}
	if _, ok := s.Layout.Coordinate('q'); ok {
		t.Fatalf("expected q to be outside the slice")
	}
	if label, ok := s.Layout.Label(0, 0); !ok || label != '6' {
		t.Fatalf("expected label 6 at (0,0), got %q", label)
	}
}

func TestSlicesDropsExtraScreens(t *testing.T) {
	base := NewLayout(1, 2, KeymapFromRows([]string{"ab"}))
	screens := []Rect{NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), NewRect(20, 0, 10, 10)}
	slices := Slices(screens, base)
	if len(slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices))
	}
	if slices[1].Screen != screens[1] {
		t.Fatalf("expected second slice on second screen")
	}
	if got := Slices(nil, base); len(got) != 0 {
		t.Fatalf("expected no slices without screens")
	}
}
