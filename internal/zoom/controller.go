package zoom

import (
	"image"

	"github.com/verte-zerg/keygrid/internal/grid"
)

// SnapshotProvider captures the pixels under a global rectangle.
type SnapshotProvider interface {
	Capture(rect grid.Rect) (image.Image, bool)
}

// Controller keeps the frame the magnifier should display.
type Controller struct {
	frame    Frame
	snapshot image.Image
	provider SnapshotProvider
	updates  int
}

// NewController returns a controller observing initial at scale 1.
// provider may be nil.
func NewController(initial grid.Rect, provider SnapshotProvider) *Controller {
	return &Controller{
		frame:    Frame{Target: initial, Screen: initial, Scale: 1},
		provider: provider,
	}
}

// UpdateZoom stores frame and refreshes the snapshot when a provider is set.
func (c *Controller) UpdateZoom(frame Frame) {
	c.frame = frame
	c.updates++
	if c.provider == nil {
		return
	}
	if img, ok := c.provider.Capture(frame.Target); ok {
		c.snapshot = img
		return
	}
	c.snapshot = nil
}

// Frame returns the latest frame.
func (c *Controller) Frame() Frame { return c.frame }

// ObservedRect returns the rectangle being magnified.
func (c *Controller) ObservedRect() grid.Rect { return c.frame.Target }

// Scale returns the current magnification.
func (c *Controller) Scale() float64 { return c.frame.Scale }

// Snapshot returns the last captured image, if any.
func (c *Controller) Snapshot() (image.Image, bool) {
	return c.snapshot, c.snapshot != nil
}

// Updates counts frames received since construction.
func (c *Controller) Updates() int { return c.updates }
