package generator

import (
	"testing"

	"github.com/verte-zerg/keygrid/internal/grid"
)

func TestGenerateStaysInsideScreens(t *testing.T) {
	g := NewSeeded(1)
	screens := []grid.Rect{grid.NewRect(-1920, 0, 1920, 1080), grid.NewRect(0, 0, 2560, 1440)}
	for i := 0; i < 500; i++ {
		p := g.Generate(screens)
		if !screens[0].ContainsPoint(p) && !screens[1].ContainsPoint(p) {
			t.Fatalf("point %+v outside screens", p)
		}
	}
}

func TestGenerateWeightedFavoursWeakCells(t *testing.T) {
	g := NewSeeded(7)
	slices := grid.Slices([]grid.Rect{grid.DefaultScreen}, grid.DefaultLayout())
	weakCell, _ := grid.DefaultLayout().RectFor('q', grid.DefaultScreen)
	weak := map[rune]struct{}{'q': {}}

	hits := 0
	const draws = 4000
	for i := 0; i < draws; i++ {
		p := g.GenerateWeighted(slices, weak, 39)
		if !grid.DefaultScreen.ContainsPoint(p) {
			t.Fatalf("point %+v outside screen", p)
		}
		if weakCell.ContainsPoint(p) {
			hits++
		}
	}
	// q weighs 40 against 39 for the other cells combined.
	if hits < draws/3 {
		t.Fatalf("expected weak cell to dominate, got %d/%d", hits, draws)
	}
}

func TestGenerateWeightedWithoutSlices(t *testing.T) {
	p := NewSeeded(3).GenerateWeighted(nil, nil, 2)
	if !grid.DefaultScreen.ContainsPoint(p) {
		t.Fatalf("expected fallback to default screen, got %+v", p)
	}
}
