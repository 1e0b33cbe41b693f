package tui

import (
	"sort"
	"time"
	"unicode"

	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/session"
)

type keyStat struct {
	presses      int
	undone       int
	latencySumMs int64
	latencyCount int64
}

// tracker accumulates the counters of one activation.
type tracker struct {
	id         string
	startedAt  time.Time
	lastAction time.Time
	keys       map[rune]*keyStat
	// refined holds the key behind each history level, deepest last.
	refined    []rune
	keystrokes int
	undos      int
	moves      int
}

func newTracker(id string, now time.Time) *tracker {
	return &tracker{
		id:         id,
		startedAt:  now,
		lastAction: now,
		keys:       map[rune]*keyStat{},
	}
}

// observe classifies a handled key by how it changed the session.
func (t *tracker) observe(key rune, before, after session.State, now time.Time) {
	if !after.Active {
		return
	}
	switch {
	case after.Depth > before.Depth:
		t.press(key, now)
	case after.Depth < before.Depth:
		t.undo(now)
	case after.CurrentRect != before.CurrentRect:
		t.moves++
		t.lastAction = now
	}
}

func (t *tracker) press(key rune, now time.Time) {
	key = unicode.ToLower(key)
	entry, ok := t.keys[key]
	if !ok {
		entry = &keyStat{}
		t.keys[key] = entry
	}
	entry.presses++
	entry.latencySumMs += now.Sub(t.lastAction).Milliseconds()
	entry.latencyCount++
	t.keystrokes++
	t.refined = append(t.refined, key)
	t.lastAction = now
}

func (t *tracker) undo(now time.Time) {
	t.undos++
	t.lastAction = now
	if len(t.refined) == 0 {
		return
	}
	key := t.refined[len(t.refined)-1]
	t.refined = t.refined[:len(t.refined)-1]
	t.keys[key].undone++
}

func (t *tracker) keyStats() []model.KeyStats {
	out := make([]model.KeyStats, 0, len(t.keys))
	for key, entry := range t.keys {
		out = append(out, model.KeyStats{
			Key:          string(key),
			Presses:      entry.presses,
			Undone:       entry.undone,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
