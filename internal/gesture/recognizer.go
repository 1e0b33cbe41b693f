// Package gesture detects a double tap of a modifier key.
package gesture

import "time"

// DefaultThreshold is the maximum gap between two qualifying taps.
const DefaultThreshold = 350 * time.Millisecond

// Recognizer tracks modifier press/release pairs. A release counts as a tap
// only when no other key was pressed while the modifier was held.
type Recognizer struct {
	threshold time.Duration
	now       func() time.Time

	down           bool
	usedAsModifier bool
	lastTap        time.Time
	hasLastTap     bool
}

// New returns a Recognizer. A non-positive threshold selects DefaultThreshold.
func New(threshold time.Duration) *Recognizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Recognizer{threshold: threshold, now: time.Now}
}

// SetNowFunc replaces the clock used to time taps.
func (r *Recognizer) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.now = now
}

// Threshold returns the configured double-tap window.
func (r *Recognizer) Threshold() time.Duration {
	return r.threshold
}

// HandleDown records a modifier press.
func (r *Recognizer) HandleDown() {
	r.down = true
	r.usedAsModifier = false
}

// HandleChord marks the held modifier as used in a chord.
func (r *Recognizer) HandleChord() {
	if r.down {
		r.usedAsModifier = true
	}
}

// HandleUp records a modifier release and reports whether it completed a
// double tap. Releases without a matching press are ignored.
func (r *Recognizer) HandleUp() bool {
	if !r.down {
		return false
	}
	defer func() { r.down = false }()

	if r.usedAsModifier {
		r.hasLastTap = false
		r.lastTap = time.Time{}
		return false
	}

	now := r.now()
	fired := r.hasLastTap && now.Sub(r.lastTap) < r.threshold
	r.lastTap = now
	r.hasLastTap = true
	return fired
}

// Reset forgets any pending tap.
func (r *Recognizer) Reset() {
	r.down = false
	r.usedAsModifier = false
	r.hasLastTap = false
	r.lastTap = time.Time{}
}
