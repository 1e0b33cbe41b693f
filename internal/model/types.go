// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/keygrid/internal/grid"
)

// Session outcomes.
const (
	OutcomeClick  = "click"
	OutcomeMiddle = "middle"
	OutcomeRight  = "right"
	OutcomeCancel = "cancel"
)

// Config defines targeting and practice settings.
type Config struct {
	DoubleTap     time.Duration
	KeymapRows    []string
	GridHideDepth int
	ZoomBase      float64
	ZoomStep      float64
	Padding       float64
	EmptyUndo     string
	RefineFrom    string
	Screens       []grid.Rect
	Drill         bool
	FocusWeak     bool
	WeakTop       int
	WeakFactor    float64
	WeakWindow    int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Outcome     string
	Since       *time.Time
	Last        int
	CurveWindow int
	Keys        string
}

// SessionRecord captures one finished targeting session.
type SessionRecord struct {
	UUID       string
	StartedAt  time.Time
	EndedAt    time.Time
	Outcome    string
	PointX     float64
	PointY     float64
	Depth      int
	Keystrokes int
	Undos      int
	Moves      int
	Screens    int
	HasDrill   bool
	DrillX     float64
	DrillY     float64
	Hit        bool
	ErrorPx    float64
	DurationMs int64
}

// KeyStats stores per-key stats for a session.
type KeyStats struct {
	Key          string
	Presses      int
	Undone       int
	LatencySumMs int64
	LatencyCount int64
}

// KeyAggregate aggregates key stats across sessions.
type KeyAggregate struct {
	Key          string
	Presses      int
	Undone       int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Outcome    string
	Depth      int
	Keystrokes int
	Undos      int
	Moves      int
	HasDrill   bool
	Hit        bool
	ErrorPx    float64
	DurationMs int64
}
