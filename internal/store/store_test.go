package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keygrid/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "keygrid.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	outcomes := []string{model.OutcomeClick, model.OutcomeCancel, model.OutcomeClick}
	for i, outcome := range outcomes {
		rec := model.SessionRecord{
			UUID:       "id",
			StartedAt:  start.Add(time.Duration(i) * time.Minute),
			EndedAt:    start.Add(time.Duration(i)*time.Minute + 2*time.Second),
			Outcome:    outcome,
			Depth:      2,
			Keystrokes: 3,
			Undos:      1,
			HasDrill:   true,
			Hit:        i == 0,
			ErrorPx:    4.5,
			DurationMs: 2000,
		}
		keys := []model.KeyStats{
			{Key: "q", Presses: 1, Undone: 1},
			{Key: "w", Presses: 2, LatencySumMs: 300, LatencyCount: 1},
		}
		if _, err := st.InsertSession(ctx, rec, keys); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if !all[0].Hit || all[1].Hit || !all[0].HasDrill {
		t.Fatalf("unexpected flags %+v", all)
	}
	clicks, err := st.ListSessions(ctx, model.StatsConfig{Outcome: model.OutcomeClick})
	if err != nil {
		t.Fatalf("list clicks: %v", err)
	}
	if len(clicks) != 2 {
		t.Fatalf("expected 2 clicks, got %d", len(clicks))
	}
	since := start.Add(90 * time.Second)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent session, got %d", len(recent))
	}

	weak, err := st.GetWeakKeys(ctx, 2)
	if err != nil {
		t.Fatalf("weak keys: %v", err)
	}
	byKey := map[string]model.KeyAggregate{}
	for _, agg := range weak {
		byKey[agg.Key] = agg
	}
	if byKey["q"].Undone != 2 || byKey["w"].Presses != 4 {
		t.Fatalf("unexpected weak aggregates %+v", weak)
	}

	per, err := st.ListKeyStatsForSessions(ctx, []int64{all[0].SessionID}, []string{"w"})
	if err != nil {
		t.Fatalf("per session stats: %v", err)
	}
	if per[all[0].SessionID]["w"].LatencySumMs != 300 {
		t.Fatalf("unexpected per session stats %+v", per)
	}
}

func TestEmptyQueries(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if aggs, err := st.GetWeakKeys(ctx, 0); err != nil || aggs != nil {
		t.Fatalf("expected nil for empty window, got %v %v", aggs, err)
	}
	if aggs, err := st.ListKeyAggregatesForSessions(ctx, nil); err != nil || aggs != nil {
		t.Fatalf("expected nil for no sessions, got %v %v", aggs, err)
	}
	per, err := st.ListKeyStatsForSessions(ctx, []int64{1}, nil)
	if err != nil || len(per) != 0 {
		t.Fatalf("expected empty map, got %v %v", per, err)
	}
}
