package session

import (
	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/zoom"
)

// ScreenProvider reports the current screen rectangles.
type ScreenProvider interface {
	Screens() []grid.Rect
}

// ScreensFunc adapts a function to ScreenProvider.
type ScreensFunc func() []grid.Rect

// Screens implements ScreenProvider.
func (f ScreensFunc) Screens() []grid.Rect { return f() }

// StaticScreens always reports the same screens.
type StaticScreens []grid.Rect

// Screens implements ScreenProvider.
func (s StaticScreens) Screens() []grid.Rect { return append([]grid.Rect(nil), s...) }

// MouseActions moves and clicks the pointer.
type MouseActions interface {
	MoveCursor(p grid.Point)
	Click(p grid.Point)
	MiddleClick(p grid.Point)
	RightClick(p grid.Point)
}

// ZoomUpdater receives the magnifier frame after every refinement,
// nudge and zoom-out.
type ZoomUpdater interface {
	UpdateZoom(frame zoom.Frame)
}

// Observer is notified after every visible state change.
type Observer interface {
	StateChanged(s State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(State)

// StateChanged implements Observer.
func (f ObserverFunc) StateChanged(s State) { f(s) }

type nopMouse struct{}

func (nopMouse) MoveCursor(grid.Point)  {}
func (nopMouse) Click(grid.Point)       {}
func (nopMouse) MiddleClick(grid.Point) {}
func (nopMouse) RightClick(grid.Point)  {}

type nopZoom struct{}

func (nopZoom) UpdateZoom(zoom.Frame) {}

type nopObserver struct{}

func (nopObserver) StateChanged(State) {}
