// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/keygrid/internal/grid"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Gesture  GestureConfig  `toml:"gesture"`
	Grid     GridConfig     `toml:"grid"`
	Zoom     ZoomConfig     `toml:"zoom"`
	Session  SessionConfig  `toml:"session"`
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
	Screens  []ScreenConfig `toml:"screens"`
}

// GestureConfig maps activation settings.
type GestureConfig struct {
	DoubleTap *float64 `toml:"double-tap"`
}

// GridConfig maps keyboard grid settings.
type GridConfig struct {
	Rows      []string `toml:"rows"`
	HideDepth *int     `toml:"hide-depth"`
}

// ZoomConfig maps magnifier settings.
type ZoomConfig struct {
	Base    *float64 `toml:"base"`
	Step    *float64 `toml:"step"`
	Padding *float64 `toml:"padding"`
}

// SessionConfig maps targeting policies.
type SessionConfig struct {
	EmptyUndo  *string `toml:"empty-undo"`
	RefineFrom *string `toml:"refine-from"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Drill      *bool    `toml:"drill"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	File   *string `toml:"file"`
}

// ScreenConfig is one virtual screen.
type ScreenConfig struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Rect converts the screen to a rectangle.
func (s ScreenConfig) Rect() grid.Rect {
	return grid.NewRect(s.X, s.Y, s.Width, s.Height)
}

// ScreenRects converts configured screens to rectangles.
func (c FileConfig) ScreenRects() []grid.Rect {
	out := make([]grid.Rect, 0, len(c.Screens))
	for _, s := range c.Screens {
		out = append(out, s.Rect())
	}
	return out
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
