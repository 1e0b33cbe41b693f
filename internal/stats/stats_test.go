package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/keygrid/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if same := MovingAverage([]float64{1, 5}, 1); same[1] != 5 {
		t.Fatalf("expected window 1 to copy, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestSessionMetrics(t *testing.T) {
	sec, keys, hit := SessionMetrics(model.SessionAggregate{DurationMs: 1500, Keystrokes: 3, Undos: 1, Moves: 2, Hit: true})
	if sec != 1.5 || keys != 6 || hit != 1 {
		t.Fatalf("unexpected metrics %v %v %v", sec, keys, hit)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{Outcome: model.OutcomeClick, DurationMs: 2000, Keystrokes: 2, HasDrill: true, Hit: true, ErrorPx: 2},
		{Outcome: model.OutcomeClick, DurationMs: 1000, Keystrokes: 4, HasDrill: true, ErrorPx: 40},
		{Outcome: model.OutcomeCancel, DurationMs: 3000},
	}
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 3 (2 completed, 1 cancelled)", "Avg Time: 2.00s", "Fastest: 1.00s", "Hit Rate: 50.00%", "Avg Error: 21.0px"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in summary:\n%s", want, out)
		}
	}
}

func TestRenderKeyTableOrdersByUndoRate(t *testing.T) {
	var buf bytes.Buffer
	err := RenderKeyTable(&buf, []model.KeyAggregate{
		{Key: "a", Presses: 4},
		{Key: "b", Presses: 4, Undone: 2},
	})
	if err != nil {
		t.Fatalf("render key table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "b") || !strings.HasPrefix(lines[3], "a") {
		t.Fatalf("unexpected order:\n%s", buf.String())
	}
}
