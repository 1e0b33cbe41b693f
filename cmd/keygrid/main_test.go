package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/keygrid/internal/config"
	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/logging"
	"github.com/verte-zerg/keygrid/internal/model"
)

func TestLocateClick(t *testing.T) {
	cfg := config.Defaults()
	result, err := locate(cfg, "qq ", logging.Discard())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if len(result.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(result.Steps))
	}
	first := result.Steps[0].Rect
	if first.X != 0 || first.Y != 270 || first.Width != 192 || first.Height != 270 {
		t.Fatalf("unexpected first rect %+v", first)
	}
	if result.Steps[1].Depth != 2 {
		t.Fatalf("expected depth 2, got %d", result.Steps[1].Depth)
	}
	if result.Active || result.Outcome != model.OutcomeClick || result.Point == nil {
		t.Fatalf("expected a click, got %+v", result)
	}
	if result.Point.X != 9.6 || result.Point.Y != 371.25 {
		t.Fatalf("unexpected click point %+v", *result.Point)
	}
}

func TestLocateMultiScreenAndRightClick(t *testing.T) {
	cfg := config.Defaults()
	cfg.Screens = []grid.Rect{
		grid.NewRect(0, 0, 1000, 800),
		grid.NewRect(1000, 0, 1000, 800),
	}
	result, err := locate(cfg, "p\\x", logging.Discard())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(result.Steps))
	}
	if result.Steps[0].Rect.X < 1000 {
		t.Fatalf("expected the right screen, got %+v", result.Steps[0].Rect)
	}
	if result.Outcome != model.OutcomeRight {
		t.Fatalf("expected right click, got %q", result.Outcome)
	}
}

func TestLocateWithoutClickReportsTarget(t *testing.T) {
	result, err := locate(config.Defaults(), "a", logging.Discard())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if !result.Active || result.Target == nil || result.Point != nil {
		t.Fatalf("expected an active target, got %+v", result)
	}
	var buf bytes.Buffer
	if err := writeLocateText(&buf, result); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if !strings.Contains(buf.String(), "depth=1") || !strings.Contains(buf.String(), "no click") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}

func TestWriteLocateJSON(t *testing.T) {
	result, err := locate(config.Defaults(), "q'", logging.Discard())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	var buf bytes.Buffer
	if err := writeLocateJSON(&buf, result); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var decoded locateResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.Outcome != model.OutcomeMiddle || len(decoded.Steps) != 1 {
		t.Fatalf("unexpected decoded result %+v", decoded)
	}
}

func TestRenderKeymap(t *testing.T) {
	out := renderKeymap(grid.DefaultLayout())
	for _, row := range grid.DefaultKeymapRows {
		for _, r := range row {
			if !strings.ContainsRune(out, r) {
				t.Fatalf("expected %q in keymap output", r)
			}
		}
	}
	if !strings.Contains(out, "10") {
		t.Fatalf("expected column headers, got %q", out)
	}
}

func TestWriteConfigTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygrid", "config.toml")
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if err := os.WriteFile(path, []byte("[grid]\nhide-depth = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != "[grid]\nhide-depth = 5\n" {
		t.Fatalf("expected existing config to be kept, got %q", data)
	}
}

func TestStatsConfigFromFlags(t *testing.T) {
	saved := []any{statsOutcome, statsSince, statsLast, statsCurveWindow, statsKeys}
	t.Cleanup(func() {
		statsOutcome = saved[0].(string)
		statsSince = saved[1].(string)
		statsLast = saved[2].(int)
		statsCurveWindow = saved[3].(int)
		statsKeys = saved[4].(string)
	})

	statsOutcome, statsSince, statsLast, statsCurveWindow, statsKeys = "Click", "2026-01-02", 10, 5, "qw"
	cfg, err := statsConfigFromFlags()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Outcome != model.OutcomeClick || cfg.Since == nil || cfg.Last != 10 || cfg.CurveWindow != 5 || cfg.Keys != "qw" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	statsOutcome = "double"
	if _, err := statsConfigFromFlags(); err == nil {
		t.Fatalf("expected error for unknown outcome")
	}
	statsOutcome, statsCurveWindow = "", 0
	if _, err := statsConfigFromFlags(); err == nil {
		t.Fatalf("expected error for zero curve window")
	}
}
