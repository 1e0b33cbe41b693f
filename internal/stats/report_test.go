package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "keygrid.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(3 * time.Second)
		rec := model.SessionRecord{
			UUID:       "session",
			StartedAt:  start,
			EndedAt:    end,
			Outcome:    model.OutcomeClick,
			Depth:      2,
			Keystrokes: 2,
			Screens:    1,
			DurationMs: end.Sub(start).Milliseconds(),
		}
		keys := []model.KeyStats{
			{Key: "q", Presses: 1},
			{Key: "w", Presses: 1, Undone: 1},
		}
		id, err := st.InsertSession(ctx, rec, keys)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 1 || report.WindowSessionIDs[0] != ids[2] {
		t.Fatalf("unexpected window ids %v", report.WindowSessionIDs)
	}
	if len(report.KeyAggsAll) != 2 || len(report.KeyAggsWindow) != 2 {
		t.Fatalf("expected aggregates for q and w, got %+v / %+v", report.KeyAggsAll, report.KeyAggsWindow)
	}
	for _, agg := range report.KeyAggsAll {
		if agg.Presses != 2 {
			t.Fatalf("expected 2 presses for %s, got %d", agg.Key, agg.Presses)
		}
	}
}
