package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/keygrid/internal/config"
	"github.com/verte-zerg/keygrid/internal/generator"
	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/store"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(100 * time.Millisecond)
	return c.t
}

func (c *stepClock) pause() {
	c.t = c.t.Add(time.Second)
}

func newTestModel(t *testing.T, free bool) (*Model, *store.Store, *stepClock) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "keygrid.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	clock := &stepClock{t: time.Unix(1000, 0)}
	m, err := NewModel(Options{
		Config:    config.Defaults(),
		Store:     st,
		Generator: generator.NewSeeded(42),
		Free:      free,
		Now:       clock.now,
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m, st, clock
}

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func doubleTap(m *Model, clock *stepClock) {
	clock.pause()
	tap := tea.KeyMsg{Type: tea.KeyCtrlG}
	m.Update(tap)
	m.Update(tap)
}

func TestPracticeSessionIsRecorded(t *testing.T) {
	m, st, clock := newTestModel(t, false)
	if m.drill == nil {
		t.Fatalf("expected a drill target in practice mode")
	}
	doubleTap(m, clock)
	if !m.session.Active() {
		t.Fatalf("expected double tap to start a session")
	}
	m.Update(runes('q'))
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(runes('q'))
	m.Update(runes('w'))
	if m.session.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", m.session.Depth())
	}
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if m.session.Active() {
		t.Fatalf("expected click to end the session")
	}

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if s.Outcome != model.OutcomeClick || s.Keystrokes != 3 || s.Undos != 1 || s.Depth != 2 || !s.HasDrill {
		t.Fatalf("unexpected session %+v", s)
	}
	aggs, err := st.ListKeyAggregatesForSessions(ctx, []int64{s.SessionID})
	if err != nil {
		t.Fatalf("key aggregates: %v", err)
	}
	byKey := map[string]model.KeyAggregate{}
	for _, agg := range aggs {
		byKey[agg.Key] = agg
	}
	if byKey["q"].Presses != 2 || byKey["q"].Undone != 1 || byKey["w"].Presses != 1 {
		t.Fatalf("unexpected key aggregates %+v", aggs)
	}
	if !m.hasLast || m.allSessions != 1 {
		t.Fatalf("expected footer to include the session")
	}
}

func TestTapWhileActiveCancels(t *testing.T) {
	m, st, clock := newTestModel(t, true)
	if m.drill != nil {
		t.Fatalf("expected no drill target in free mode")
	}
	doubleTap(m, clock)
	m.Update(runes('a'))
	doubleTap(m, clock)
	if m.session.Active() {
		t.Fatalf("expected second double tap to cancel")
	}
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{Outcome: model.OutcomeCancel})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].HasDrill || sessions[0].Keystrokes != 1 {
		t.Fatalf("unexpected cancelled sessions %+v", sessions)
	}
	if m.status != "cancelled" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestFixedKeysEndSessions(t *testing.T) {
	m, st, clock := newTestModel(t, true)
	doubleTap(m, clock)
	m.Update(runes('\\'))
	doubleTap(m, clock)
	m.Update(runes('\''))
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].Outcome != model.OutcomeRight || sessions[1].Outcome != model.OutcomeMiddle {
		t.Fatalf("unexpected outcomes %+v", sessions)
	}
}

func TestViewShowsMagnifier(t *testing.T) {
	m, _, clock := newTestModel(t, true)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.View() == "" {
		t.Fatalf("expected idle view")
	}
	doubleTap(m, clock)
	m.Update(runes('g'))
	out := m.View()
	if !strings.Contains(out, "2.0x") {
		t.Fatalf("expected magnifier title in view:\n%s", out)
	}
	if !strings.Contains(m.status, "depth 1") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestEscapeQuitsWhenIdle(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
