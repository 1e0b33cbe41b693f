package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/keygrid/internal/config"
	"github.com/verte-zerg/keygrid/internal/gesture"
	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/input"
	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/session"
)

type jsonRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type locateStep struct {
	Key   string   `json:"key"`
	Depth int      `json:"depth"`
	Rect  jsonRect `json:"rect"`
}

type locateResult struct {
	Steps   []locateStep `json:"steps"`
	Active  bool         `json:"active"`
	Target  *jsonPoint   `json:"target,omitempty"`
	Outcome string       `json:"outcome,omitempty"`
	Point   *jsonPoint   `json:"point,omitempty"`
}

// recordingMouse captures the button and point of a headless click.
type recordingMouse struct {
	outcome string
	point   grid.Point
}

func (m *recordingMouse) MoveCursor(grid.Point) {}

func (m *recordingMouse) Click(p grid.Point) { m.record(model.OutcomeClick, p) }

func (m *recordingMouse) MiddleClick(p grid.Point) { m.record(model.OutcomeMiddle, p) }

func (m *recordingMouse) RightClick(p grid.Point) { m.record(model.OutcomeRight, p) }

func (m *recordingMouse) record(outcome string, p grid.Point) {
	m.outcome = outcome
	m.point = p
}

// locate runs one session over cfg.Screens, feeding keys in order. Keys
// after the session ends are ignored.
func locate(cfg model.Config, keys string, logger *log.Logger) (locateResult, error) {
	opts, err := config.SessionOptions(cfg)
	if err != nil {
		return locateResult{}, err
	}
	mouse := &recordingMouse{}
	opts.Mouse = mouse
	opts.Logger = logger
	ctrl := session.New(opts)
	manager := input.NewManager(ctrl, gesture.New(cfg.DoubleTap), logger)
	ctrl.Start()

	result := locateResult{Steps: []locateStep{}}
	for _, r := range keys {
		if !ctrl.Active() {
			logger.Warn("session ended, ignoring remaining keys", "key", string(r))
			break
		}
		before := ctrl.State()
		if !manager.HandleKeyDown(input.Rune(r), false) {
			logger.Debug("key not consumed", "key", string(r))
			continue
		}
		after := ctrl.State()
		if !after.Active || after.CurrentRect == before.CurrentRect {
			continue
		}
		result.Steps = append(result.Steps, locateStep{
			Key:   string(r),
			Depth: after.Depth,
			Rect:  toJSONRect(after.CurrentRect),
		})
	}
	result.Active = ctrl.Active()
	if result.Active {
		p := ctrl.State().TargetPoint()
		result.Target = &jsonPoint{X: p.X, Y: p.Y}
	}
	if mouse.outcome != "" {
		result.Outcome = mouse.outcome
		result.Point = &jsonPoint{X: mouse.point.X, Y: mouse.point.Y}
	}
	return result, nil
}

func toJSONRect(r grid.Rect) jsonRect {
	return jsonRect{X: r.MinX(), Y: r.MinY(), Width: r.Width(), Height: r.Height()}
}

func writeLocateJSON(w io.Writer, result locateResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeLocateText(w io.Writer, result locateResult) error {
	for _, step := range result.Steps {
		r := step.Rect
		if _, err := fmt.Fprintf(w, "%s  depth=%d  x=%.1f y=%.1f w=%.1f h=%.1f\n", step.Key, step.Depth, r.X, r.Y, r.Width, r.Height); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	var err error
	switch {
	case result.Point != nil:
		_, err = fmt.Fprintf(w, "%s at %.1f,%.1f\n", result.Outcome, result.Point.X, result.Point.Y)
	case result.Target != nil:
		_, err = fmt.Fprintf(w, "target %.1f,%.1f (no click)\n", result.Target.X, result.Target.Y)
	default:
		_, err = fmt.Fprintln(w, "cancelled")
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
