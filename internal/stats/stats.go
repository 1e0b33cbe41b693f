// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/keygrid/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics returns the duration in seconds, the number of key actions
// spent on the target and a 0/1 hit score for one session.
func SessionMetrics(s model.SessionAggregate) (seconds, keys, hit float64) {
	if s.DurationMs > 0 {
		seconds = float64(s.DurationMs) / 1000.0
	}
	keys = float64(s.Keystrokes + s.Undos + s.Moves)
	if s.Hit {
		hit = 1
	}
	return seconds, keys, hit
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	last := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(last, idx))])
	}
	return b.String()
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalSec, totalKeys, totalErr float64
	var clicks, drills, hits int
	fastest := math.Inf(1)
	for _, s := range sessions {
		sec, keys, hit := SessionMetrics(s)
		totalSec += sec
		totalKeys += keys
		if s.Outcome != model.OutcomeCancel {
			clicks++
			if sec > 0 && sec < fastest {
				fastest = sec
			}
		}
		if s.HasDrill && s.Outcome != model.OutcomeCancel {
			drills++
			totalErr += s.ErrorPx
			if hit > 0 {
				hits++
			}
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d completed, %d cancelled)", len(sessions), clicks, len(sessions)-clicks),
		fmt.Sprintf("Avg Time: %.2fs", totalSec/count),
	}
	if !math.IsInf(fastest, 1) {
		lines = append(lines, fmt.Sprintf("Fastest: %.2fs", fastest))
	}
	lines = append(lines, fmt.Sprintf("Avg Keys: %.2f", totalKeys/count))
	if drills > 0 {
		lines = append(lines,
			fmt.Sprintf("Hit Rate: %.2f%%", float64(hits)/float64(drills)*100),
			fmt.Sprintf("Avg Error: %.1fpx", totalErr/float64(drills)),
		)
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for time and hit rate.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	secs := make([]float64, len(sessions))
	keys := make([]float64, len(sessions))
	hits := make([]float64, len(sessions))
	for i, s := range sessions {
		sec, k, hit := SessionMetrics(s)
		secs[i] = sec
		keys[i] = k
		hits[i] = hit * 100
	}
	series := []Series{
		{Name: "Seconds", Values: MovingAverage(secs, window)},
		{Name: "Keys", Values: MovingAverage(keys, window)},
	}
	if hasDrills(sessions) {
		series = append(series, Series{Name: "Hit %", Values: MovingAverage(hits, window)})
	}
	return PlotSeriesWithColor(w, "Learning Curves", series, plotWidth(totalWidth), height, useColor)
}

// RenderKeyTable prints per-key aggregates, worst undo rate first.
func RenderKeyTable(w io.Writer, aggs []model.KeyAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No key stats found.")
		return err
	}
	sorted := append([]model.KeyAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := UndoRate(sorted[i]), UndoRate(sorted[j])
		if ri == rj {
			return sorted[i].Key < sorted[j].Key
		}
		return ri > rj
	})

	if _, err := fmt.Fprintln(w, "Per-Key (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Key", "Undo Rate", "Avg Latency (ms)", "Presses", "Undone"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			agg.Key,
			fmt.Sprintf("%.2f%%", UndoRate(agg)*100),
			fmt.Sprintf("%.1f", AvgLatency(agg)),
			fmt.Sprintf("%d", agg.Presses),
			fmt.Sprintf("%d", agg.Undone),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderKeyCurves prints per-key learning curves.
func RenderKeyCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.KeyAggregate, keys []string, window int) error {
	return RenderKeyCurvesWithSize(w, sessions, perSession, keys, window, 0, 10, false)
}

// RenderKeyCurvesWithSize prints per-key learning curves sized to a given total width.
func RenderKeyCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.KeyAggregate, keys []string, window, totalWidth, height int, useColor bool) error {
	if len(keys) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Key Curves"); err != nil {
		return err
	}
	for _, key := range keys {
		undo := make([]float64, len(sessions))
		latency := make([]float64, len(sessions))
		for i, s := range sessions {
			agg, ok := perSession[s.SessionID][key]
			if !ok {
				continue
			}
			undo[i] = UndoRate(agg) * 100
			latency[i] = AvgLatency(agg)
		}
		if err := PlotSeriesWithColor(w, fmt.Sprintf("Key %s", key), []Series{
			{Name: "Undo %", Values: MovingAverage(undo, window)},
			{Name: "Latency", Values: MovingAverage(latency, window)},
		}, plotWidth(totalWidth), height, useColor); err != nil {
			return err
		}
	}
	return nil
}

// UndoRate is the share of presses of a key that were later zoomed out of.
func UndoRate(agg model.KeyAggregate) float64 {
	if agg.Presses == 0 {
		return 0
	}
	return float64(agg.Undone) / float64(agg.Presses)
}

// AvgLatency is the mean time in ms between a key and the previous action.
func AvgLatency(agg model.KeyAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}

func hasDrills(sessions []model.SessionAggregate) bool {
	for _, s := range sessions {
		if s.HasDrill {
			return true
		}
	}
	return false
}

func plotWidth(totalWidth int) int {
	if totalWidth <= 0 {
		return 0
	}
	return PlotWidthFor(totalWidth)
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
