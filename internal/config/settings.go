package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/keygrid/internal/gesture"
	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/session"
	"github.com/verte-zerg/keygrid/internal/zoom"
)

const (
	DefaultWeakTop     = 6
	DefaultWeakFactor  = 2.0
	DefaultWeakWindow  = 20
	DefaultCurveWindow = 20
)

// Defaults returns the built-in settings.
func Defaults() model.Config {
	return model.Config{
		DoubleTap:     gesture.DefaultThreshold,
		KeymapRows:    append([]string(nil), grid.DefaultKeymapRows...),
		GridHideDepth: session.DefaultGridHideDepth,
		ZoomBase:      zoom.DefaultMagnification.Base,
		ZoomStep:      zoom.DefaultMagnification.Step,
		Padding:       zoom.DefaultPadding,
		EmptyUndo:     "cancel",
		RefineFrom:    "grid",
		Screens:       []grid.Rect{grid.DefaultScreen},
		Drill:         true,
		WeakTop:       DefaultWeakTop,
		WeakFactor:    DefaultWeakFactor,
		WeakWindow:    DefaultWeakWindow,
	}
}

// Merge overlays the values set in the file on cfg. Flags are applied by
// the caller afterwards.
func Merge(cfg model.Config, file FileConfig) model.Config {
	if file.Gesture.DoubleTap != nil {
		cfg.DoubleTap = time.Duration(*file.Gesture.DoubleTap * float64(time.Second))
	}
	if len(file.Grid.Rows) > 0 {
		cfg.KeymapRows = append([]string(nil), file.Grid.Rows...)
	}
	setInt(&cfg.GridHideDepth, file.Grid.HideDepth)
	setFloat(&cfg.ZoomBase, file.Zoom.Base)
	setFloat(&cfg.ZoomStep, file.Zoom.Step)
	setFloat(&cfg.Padding, file.Zoom.Padding)
	setString(&cfg.EmptyUndo, file.Session.EmptyUndo)
	setString(&cfg.RefineFrom, file.Session.RefineFrom)
	if len(file.Screens) > 0 {
		cfg.Screens = file.ScreenRects()
	}
	setBool(&cfg.Drill, file.Practice.Drill)
	setBool(&cfg.FocusWeak, file.Practice.FocusWeak)
	setInt(&cfg.WeakTop, file.Practice.WeakTop)
	setFloat(&cfg.WeakFactor, file.Practice.WeakFactor)
	setInt(&cfg.WeakWindow, file.Practice.WeakWindow)
	return cfg
}

// Validate rejects settings the session cannot run with.
func Validate(cfg model.Config) error {
	if cfg.DoubleTap <= 0 {
		return fmt.Errorf("double-tap threshold must be > 0")
	}
	if len(cfg.KeymapRows) == 0 {
		return fmt.Errorf("grid rows must not be empty")
	}
	width := len([]rune(cfg.KeymapRows[0]))
	if width == 0 {
		return fmt.Errorf("grid rows must not be empty")
	}
	seen := map[rune]struct{}{}
	for i, row := range cfg.KeymapRows {
		if n := len([]rune(row)); n != width {
			return fmt.Errorf("grid row %d has %d keys, expected %d", i+1, n, width)
		}
		for _, r := range strings.ToLower(row) {
			switch r {
			case ' ', '\'', '\\':
				return fmt.Errorf("grid key %q is reserved", r)
			}
			if _, dup := seen[r]; dup {
				return fmt.Errorf("grid key %q is bound twice", r)
			}
			seen[r] = struct{}{}
		}
	}
	if cfg.GridHideDepth < 1 {
		return fmt.Errorf("--hide-depth must be >= 1")
	}
	if cfg.ZoomBase < 1 {
		return fmt.Errorf("--zoom-base must be >= 1")
	}
	if cfg.ZoomStep < 0 {
		return fmt.Errorf("--zoom-step must be >= 0")
	}
	if cfg.Padding < 0 {
		return fmt.Errorf("zoom padding must be >= 0")
	}
	if _, err := session.ParseEmptyHistoryPolicy(cfg.EmptyUndo); err != nil {
		return err
	}
	if _, err := session.ParseRefineSource(cfg.RefineFrom); err != nil {
		return err
	}
	if len(cfg.Screens) == 0 {
		return fmt.Errorf("at least one screen is required")
	}
	for i, s := range cfg.Screens {
		if s.IsEmpty() {
			return fmt.Errorf("screen %d has no area", i+1)
		}
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

// SessionOptions builds controller options from validated settings.
// Collaborators are left for the caller to fill in.
func SessionOptions(cfg model.Config) (session.Options, error) {
	policy, err := session.ParseEmptyHistoryPolicy(cfg.EmptyUndo)
	if err != nil {
		return session.Options{}, err
	}
	refine, err := session.ParseRefineSource(cfg.RefineFrom)
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Layout:        grid.LayoutFromRows(cfg.KeymapRows),
		Screens:       session.StaticScreens(cfg.Screens),
		Magnification: zoom.Magnification{Base: cfg.ZoomBase, Step: cfg.ZoomStep},
		GridHideDepth: cfg.GridHideDepth,
		EmptyHistory:  policy,
		RefineFrom:    refine,
	}, nil
}

// ParseScreen parses WIDTHxHEIGHT[+X+Y]. Offsets may be negative, as in
// 1920x1080-1920+0.
func ParseScreen(value string) (grid.Rect, error) {
	value = strings.TrimSpace(value)
	sizeEnd := strings.IndexAny(value, "+-")
	sizePart := value
	offsetPart := ""
	if sizeEnd >= 0 {
		sizePart = value[:sizeEnd]
		offsetPart = value[sizeEnd:]
	}
	dims := strings.Split(strings.ToLower(sizePart), "x")
	if len(dims) != 2 {
		return grid.Rect{}, fmt.Errorf("invalid screen %q (expected WxH+X+Y)", value)
	}
	w, err := strconv.ParseFloat(dims[0], 64)
	if err != nil || w <= 0 {
		return grid.Rect{}, fmt.Errorf("invalid screen width in %q", value)
	}
	h, err := strconv.ParseFloat(dims[1], 64)
	if err != nil || h <= 0 {
		return grid.Rect{}, fmt.Errorf("invalid screen height in %q", value)
	}
	var x, y float64
	if offsetPart != "" {
		second := strings.IndexAny(offsetPart[1:], "+-")
		if second < 0 {
			return grid.Rect{}, fmt.Errorf("invalid screen offset in %q", value)
		}
		second++
		if x, err = strconv.ParseFloat(offsetPart[:second], 64); err != nil {
			return grid.Rect{}, fmt.Errorf("invalid screen x in %q", value)
		}
		if y, err = strconv.ParseFloat(offsetPart[second:], 64); err != nil {
			return grid.Rect{}, fmt.Errorf("invalid screen y in %q", value)
		}
	}
	return grid.NewRect(x, y, w, h), nil
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setBool(target, value *bool) {
	if value != nil {
		*target = *value
	}
}
