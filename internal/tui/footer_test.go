package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		hasLast:     true,
		lastOutcome: "click",
		lastSeconds: 1.25,
		lastHit:     true,
		lastError:   3.4,
		allSessions: 4,
		allSeconds:  10,
		allDrills:   2,
		allHits:     1,
	}
	out := m.renderFooter()
	if !containsAll(out, []string{"practice", "Last click 1.25s · hit · 3px", "All-time 4 sessions · avg 2.50s · 50.0% hit"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterFreeModeWithoutHistory(t *testing.T) {
	m := &Model{free: true}
	out := m.renderFooter()
	if !strings.Contains(out, "free") || strings.Contains(out, "Last") || strings.Contains(out, "All-time") {
		t.Fatalf("unexpected footer: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
