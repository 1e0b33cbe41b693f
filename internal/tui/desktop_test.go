package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/session"
)

func TestSceneGridCellsFollowSelection(t *testing.T) {
	screens := []grid.Rect{grid.NewRect(0, 0, 1000, 1000), grid.NewRect(1000, 0, 1000, 1000)}
	ctrl := session.New(session.Options{Screens: session.StaticScreens(screens)})
	ctrl.Start()

	s := scene{screens: screens, slices: ctrl.Slices(), state: ctrl.State()}
	if got := len(s.gridCells()); got != 40 {
		t.Fatalf("expected 40 cells across both screens, got %d", got)
	}

	if _, ok := ctrl.HandleKey('q'); !ok {
		t.Fatalf("expected q to refine")
	}
	s.state = ctrl.State()
	cells := s.gridCells()
	if len(cells) != 20 {
		t.Fatalf("expected 20 cells on the selected screen, got %d", len(cells))
	}
	for _, lc := range cells {
		if !s.state.GridRect.Contains(lc.rect) {
			t.Fatalf("cell %+v outside grid rect %+v", lc.rect, s.state.GridRect)
		}
	}
}

func TestDrawSceneShowsLabelsAndDrill(t *testing.T) {
	screens := []grid.Rect{grid.NewRect(0, 0, 1000, 400)}
	ctrl := session.New(session.Options{Screens: session.StaticScreens(screens)})
	ctrl.Start()
	drill := grid.Point{X: 990, Y: 390}

	c := newCanvas(100, 20, grid.Bounds(screens))
	drawScene(c, scene{
		screens:   screens,
		slices:    ctrl.Slices(),
		state:     ctrl.State(),
		drill:     &drill,
		showLabel: true,
	})
	out := c.plain()
	for _, want := range []string{"q", "p", "/", string(drillRune)} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q on the desktop:\n%s", want, out)
		}
	}
}
