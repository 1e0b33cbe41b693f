// Package session implements the pointer-targeting state machine.
package session

import (
	"fmt"

	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/zoom"
)

// NoScreen marks the absence of a screen selection.
const NoScreen = -1

// State is a snapshot of the targeting session.
type State struct {
	Active         bool
	RootRect       grid.Rect
	CurrentRect    grid.Rect
	GridRect       grid.Rect
	GridVisible    bool
	ZoomVisible    bool
	Depth          int
	SelectedScreen int
	Zoom           zoom.Frame
}

// TargetPoint returns the centre of CurrentRect.
func (s State) TargetPoint() grid.Point {
	return s.CurrentRect.Center()
}

// HasSelection reports whether a screen has been chosen.
func (s State) HasSelection() bool {
	return s.SelectedScreen != NoScreen
}

func (s *State) reset(root grid.Rect) {
	s.RootRect = root
	s.CurrentRect = root
	s.GridRect = root
	s.GridVisible = true
	s.ZoomVisible = false
	s.Depth = 0
	s.SelectedScreen = NoScreen
	s.Zoom = zoom.Frame{Target: root, Screen: root, Scale: 1}
}

// HistoryEntry is the state restored by one zoom-out.
type HistoryEntry struct {
	CurrentRect    grid.Rect
	GridRect       grid.Rect
	SelectedScreen int
	Depth          int
}

// Direction is an arrow-key nudge.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// EmptyHistoryPolicy decides what zoom-out does at depth zero.
type EmptyHistoryPolicy int

const (
	// EmptyHistoryCancels ends the session.
	EmptyHistoryCancels EmptyHistoryPolicy = iota
	// EmptyHistoryIgnored leaves the session untouched and reports the key
	// as unhandled.
	EmptyHistoryIgnored
)

// RefineSource picks the rectangle the next key subdivides.
type RefineSource int

const (
	// RefineGrid subdivides the rectangle the grid is drawn on.
	RefineGrid RefineSource = iota
	// RefineVisual subdivides the highlighted target rectangle.
	RefineVisual
)

// ParseEmptyHistoryPolicy maps "cancel" and "ignore" to a policy.
func ParseEmptyHistoryPolicy(name string) (EmptyHistoryPolicy, error) {
	switch name {
	case "", "cancel":
		return EmptyHistoryCancels, nil
	case "ignore":
		return EmptyHistoryIgnored, nil
	default:
		return 0, fmt.Errorf("unknown empty-undo policy %q (use cancel or ignore)", name)
	}
}

// ParseRefineSource maps "grid" and "visual" to a refine source.
func ParseRefineSource(name string) (RefineSource, error) {
	switch name {
	case "", "grid":
		return RefineGrid, nil
	case "visual":
		return RefineVisual, nil
	default:
		return 0, fmt.Errorf("unknown refine-from value %q (use grid or visual)", name)
	}
}
