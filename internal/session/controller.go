package session

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/zoom"
)

// DefaultGridHideDepth hides grid labels once cells get this small.
const DefaultGridHideDepth = 3

// Options configures a Controller. Nil collaborators are replaced by no-ops.
type Options struct {
	Layout        grid.Layout
	Screens       ScreenProvider
	Mouse         MouseActions
	Zoom          ZoomUpdater
	Observer      Observer
	Logger        *log.Logger
	Magnification zoom.Magnification
	GridHideDepth int
	EmptyHistory  EmptyHistoryPolicy
	RefineFrom    RefineSource
}

// Controller drives one targeting session at a time.
type Controller struct {
	layout        grid.Layout
	screens       ScreenProvider
	mouse         MouseActions
	zoom          ZoomUpdater
	observer      Observer
	logger        *log.Logger
	magnification zoom.Magnification
	hideDepth     int
	emptyHistory  EmptyHistoryPolicy
	refineFrom    RefineSource

	state   State
	slices  []grid.Slice
	history []HistoryEntry
	id      string
}

// New builds an inactive Controller.
func New(opts Options) *Controller {
	c := &Controller{
		layout:        opts.Layout,
		screens:       opts.Screens,
		mouse:         opts.Mouse,
		zoom:          opts.Zoom,
		observer:      opts.Observer,
		logger:        opts.Logger,
		magnification: opts.Magnification,
		hideDepth:     opts.GridHideDepth,
		emptyHistory:  opts.EmptyHistory,
		refineFrom:    opts.RefineFrom,
	}
	if c.layout.Rows() == 0 || c.layout.Columns() == 0 {
		c.layout = grid.DefaultLayout()
	}
	if c.screens == nil {
		c.screens = StaticScreens{grid.DefaultScreen}
	}
	if c.mouse == nil {
		c.mouse = nopMouse{}
	}
	if c.zoom == nil {
		c.zoom = nopZoom{}
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.magnification.Base <= 0 {
		c.magnification = zoom.DefaultMagnification
	}
	if c.hideDepth <= 0 {
		c.hideDepth = DefaultGridHideDepth
	}
	c.state.reset(grid.DefaultScreen)
	return c
}

// Active reports whether a session is running.
func (c *Controller) Active() bool { return c.state.Active }

// State returns a snapshot of the session.
func (c *Controller) State() State { return c.state }

// TargetRect returns the highlighted rectangle.
func (c *Controller) TargetRect() grid.Rect { return c.state.CurrentRect }

// TargetPoint returns the click point while active.
func (c *Controller) TargetPoint() (grid.Point, bool) {
	if !c.state.Active {
		return grid.Point{}, false
	}
	return c.state.TargetPoint(), true
}

// Depth returns the number of refinements applied.
func (c *Controller) Depth() int { return c.state.Depth }

// Slices returns the per-screen grid slices of the running session.
func (c *Controller) Slices() []grid.Slice {
	return append([]grid.Slice(nil), c.slices...)
}

// Layout returns the base layout.
func (c *Controller) Layout() grid.Layout { return c.layout }

// ID identifies the current activation. It is empty before the first Start.
func (c *Controller) ID() string { return c.id }

// Start begins a session over the current screens.
func (c *Controller) Start() {
	screens := c.screens.Screens()
	if len(screens) == 0 {
		screens = []grid.Rect{grid.DefaultScreen}
	}
	slices := grid.Slices(screens, c.layout)
	if len(slices) == 0 {
		slices = grid.Slices([]grid.Rect{grid.DefaultScreen}, c.layout)
	}
	c.slices = slices
	c.history = c.history[:0]
	c.state.reset(c.combinedBounds())
	c.state.Active = true
	if len(c.slices) == 1 {
		c.state.SelectedScreen = 0
	}
	c.id = uuid.NewString()
	c.logger.Debug("session started", "id", c.id, "screens", len(c.slices), "root", c.state.RootRect)
	c.notify()
}

// Toggle starts an inactive session or cancels an active one.
func (c *Controller) Toggle() {
	if c.state.Active {
		c.Cancel()
		return
	}
	c.Start()
}

// Cancel ends the session without clicking.
func (c *Controller) Cancel() bool {
	if !c.state.Active {
		return false
	}
	c.logger.Debug("session cancelled", "id", c.id, "depth", c.state.Depth)
	c.deactivate()
	return true
}

// HandleKey refines the target with key and returns the new rectangle.
// Unmapped keys and inactive sessions leave the state untouched.
func (c *Controller) HandleKey(key rune) (grid.Rect, bool) {
	if !c.state.Active {
		return grid.Rect{}, false
	}
	coord, ok := c.layout.Coordinate(key)
	if !ok {
		return grid.Rect{}, false
	}

	selected := c.state.SelectedScreen
	gridRect := c.state.GridRect
	currentRect := c.state.CurrentRect
	if selected == NoScreen {
		selected = c.sliceForColumn(coord.Col)
		if selected == NoScreen {
			return grid.Rect{}, false
		}
		gridRect = c.slices[selected].Screen
		currentRect = gridRect
	}

	source := gridRect
	if c.refineFrom == RefineVisual {
		source = currentRect
	}
	refined, ok := c.slices[selected].Layout.RectFor(key, source)
	if !ok {
		return grid.Rect{}, false
	}

	c.history = append(c.history, HistoryEntry{
		CurrentRect:    c.state.CurrentRect,
		GridRect:       c.state.GridRect,
		SelectedScreen: c.state.SelectedScreen,
		Depth:          c.state.Depth,
	})
	c.state.SelectedScreen = selected
	c.state.CurrentRect = refined
	c.state.GridRect = refined
	c.state.Depth++
	c.refreshView()
	c.logger.Debug("refined", "id", c.id, "key", string(key), "depth", c.state.Depth, "rect", refined)
	c.mouse.MoveCursor(c.state.TargetPoint())
	c.notify()
	return refined, true
}

// MoveSelection nudges the target by half its size in dir. The grid stays
// where it is. The move is rejected when it would leave the selected screen.
func (c *Controller) MoveSelection(dir Direction) bool {
	if !c.state.Active || c.state.Depth < 1 || !c.state.HasSelection() {
		return false
	}
	cur := c.state.CurrentRect
	var dx, dy float64
	switch dir {
	case Up:
		dy = -cur.Height() / 2
	case Down:
		dy = cur.Height() / 2
	case Left:
		dx = -cur.Width() / 2
	case Right:
		dx = cur.Width() / 2
	default:
		return false
	}
	moved := cur.Offset(dx, dy)
	if !c.selectedBounds().Contains(moved) {
		return false
	}
	c.state.CurrentRect = moved
	c.refreshView()
	c.logger.Debug("moved", "id", c.id, "dir", dir, "rect", moved)
	c.mouse.MoveCursor(c.state.TargetPoint())
	c.notify()
	return true
}

// ZoomOut undoes the last refinement.
func (c *Controller) ZoomOut() bool {
	if !c.state.Active {
		return false
	}
	if len(c.history) == 0 {
		if c.emptyHistory == EmptyHistoryIgnored {
			return false
		}
		c.logger.Debug("zoom out past root", "id", c.id)
		c.deactivate()
		return true
	}
	entry := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]

	c.state.CurrentRect = entry.CurrentRect
	c.state.GridRect = entry.GridRect
	c.state.SelectedScreen = entry.SelectedScreen
	c.state.Depth = entry.Depth
	if c.state.Depth == 0 {
		c.state.SelectedScreen = NoScreen
		if len(c.slices) == 1 {
			c.state.SelectedScreen = 0
		}
		root := c.combinedBounds()
		c.state.RootRect = root
		c.state.CurrentRect = root
		c.state.GridRect = root
	}
	c.refreshView()
	c.logger.Debug("zoomed out", "id", c.id, "depth", c.state.Depth)
	c.mouse.MoveCursor(c.state.TargetPoint())
	c.notify()
	return true
}

// Click fires a primary click at the target and ends the session.
func (c *Controller) Click() bool {
	return c.fire("click", c.mouse.Click)
}

// MiddleClick fires a middle click at the target and ends the session.
func (c *Controller) MiddleClick() bool {
	return c.fire("middle", c.mouse.MiddleClick)
}

// RightClick fires a secondary click at the target and ends the session.
func (c *Controller) RightClick() bool {
	return c.fire("right", c.mouse.RightClick)
}

func (c *Controller) fire(button string, action func(grid.Point)) bool {
	if !c.state.Active {
		return false
	}
	p := c.state.TargetPoint()
	c.logger.Debug("click", "id", c.id, "button", button, "x", p.X, "y", p.Y, "depth", c.state.Depth)
	action(p)
	c.deactivate()
	return true
}

func (c *Controller) deactivate() {
	c.state.reset(c.state.RootRect)
	c.state.Active = false
	c.history = c.history[:0]
	c.notify()
}

func (c *Controller) refreshView() {
	c.state.GridVisible = c.state.Depth < c.hideDepth
	c.state.ZoomVisible = c.state.Depth >= 1
	frame := zoom.Compute(c.state.CurrentRect, c.selectedBounds(), c.magnification.ScaleAt(c.state.Depth))
	c.state.Zoom = frame
	c.zoom.UpdateZoom(frame)
}

func (c *Controller) sliceForColumn(col int) int {
	for i, s := range c.slices {
		if s.Columns.Contains(col) {
			return i
		}
	}
	return NoScreen
}

func (c *Controller) selectedBounds() grid.Rect {
	if len(c.slices) == 1 || !c.state.HasSelection() || c.state.SelectedScreen >= len(c.slices) {
		return c.state.RootRect
	}
	return c.slices[c.state.SelectedScreen].Screen
}

func (c *Controller) combinedBounds() grid.Rect {
	rects := make([]grid.Rect, 0, len(c.slices))
	for _, s := range c.slices {
		rects = append(rects, s.Screen)
	}
	return grid.Bounds(rects)
}

func (c *Controller) notify() {
	c.observer.StateChanged(c.state)
}
