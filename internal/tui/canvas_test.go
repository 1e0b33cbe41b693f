package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keygrid/internal/grid"
)

func TestFitCellsKeepsAspect(t *testing.T) {
	bounds := grid.NewRect(0, 0, 100, 50)
	if cols, rows := fitCells(bounds, 40, 100); cols != 40 || rows != 10 {
		t.Fatalf("expected 40x10, got %dx%d", cols, rows)
	}
	if cols, rows := fitCells(bounds, 40, 5); cols != 20 || rows != 5 {
		t.Fatalf("expected 20x5, got %dx%d", cols, rows)
	}
}

func TestCanvasFill(t *testing.T) {
	c := newCanvas(10, 5, grid.NewRect(0, 0, 100, 50))
	c.fill(grid.NewRect(0, 0, 50, 20), func(cl *cell) { cl.highlight = true })
	count := 0
	for _, row := range c.cells {
		for _, cl := range row {
			if cl.highlight {
				count++
			}
		}
	}
	if count != 10 {
		t.Fatalf("expected 10 highlighted cells, got %d", count)
	}

	c.fill(grid.NewRect(12, 12, 1, 1), func(cl *cell) { cl.kind = cellDrill })
	if c.cells[1][1].kind != cellDrill {
		t.Fatalf("expected tiny rect to mark its midpoint cell")
	}
}

func TestCanvasWideRunes(t *testing.T) {
	c := newCanvas(4, 1, grid.NewRect(0, 0, 4, 1))
	c.put(0, 0, '世', cellLabel)
	c.put(3, 0, '界', cellLabel)
	if got := c.plain(); got != "世 ?" {
		t.Fatalf("unexpected plain output %q", got)
	}
}

func TestCanvasBox(t *testing.T) {
	c := newCanvas(4, 3, grid.NewRect(0, 0, 4, 3))
	c.box(0, 0, 4, 3)
	lines := strings.Split(c.plain(), "\n")
	if lines[0] != "┌──┐" || lines[1] != "│  │" || lines[2] != "└──┘" {
		t.Fatalf("unexpected box:\n%s", c.plain())
	}
}
