// Package main provides the CLI entrypoint for keygrid.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keygrid/internal/config"
	"github.com/verte-zerg/keygrid/internal/generator"
	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/logging"
	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/stats"
	"github.com/verte-zerg/keygrid/internal/statsui"
	"github.com/verte-zerg/keygrid/internal/store"
	"github.com/verte-zerg/keygrid/internal/tui"
)

var (
	practiceFree       bool
	practiceDoubleTap  float64
	practiceHideDepth  int
	practiceZoomBase   float64
	practiceZoomStep   float64
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceTapKey     string
	logLevel           string

	locateScreens []string
	locateJSON    bool

	statsOutcome     string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsKeys        string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Defaults()
	rootCmd := &cobra.Command{
		Use:           "keygrid",
		Short:         "Keyboard pointer targeting trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().BoolVar(&practiceFree, "free", false, "free mode without drill targets")
	rootCmd.Flags().Float64Var(&practiceDoubleTap, "double-tap", defaults.DoubleTap.Seconds(), "double-tap threshold in seconds")
	rootCmd.Flags().IntVar(&practiceHideDepth, "hide-depth", defaults.GridHideDepth, "depth at which grid labels are hidden")
	rootCmd.Flags().Float64Var(&practiceZoomBase, "zoom-base", defaults.ZoomBase, "magnification at depth 1")
	rootCmd.Flags().Float64Var(&practiceZoomStep, "zoom-step", defaults.ZoomStep, "magnification added per level")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias drill targets toward weak keys")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaults.WeakTop, "number of weak keys to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaults.WeakFactor, "weight factor for weak keys")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaults.WeakWindow, "number of recent sessions to compute weak keys")
	rootCmd.Flags().StringVar(&practiceTapKey, "tap-key", tui.DefaultTapKey, "key whose double tap toggles targeting")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLocateCmd())
	rootCmd.AddCommand(newKeymapCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// loadSettings merges defaults, the config file and changed flags.
func loadSettings(cmd *cobra.Command) (model.Config, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fileCfg, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Merge(config.Defaults(), fileCfg)
	flags := cmd.Flags()
	if flags.Changed("double-tap") {
		cfg.DoubleTap = time.Duration(practiceDoubleTap * float64(time.Second))
	}
	if flags.Changed("hide-depth") {
		cfg.GridHideDepth = practiceHideDepth
	}
	if flags.Changed("zoom-base") {
		cfg.ZoomBase = practiceZoomBase
	}
	if flags.Changed("zoom-step") {
		cfg.ZoomStep = practiceZoomStep
	}
	if flags.Changed("focus-weak") {
		cfg.FocusWeak = practiceFocusWeak
	}
	if flags.Changed("weak-top") {
		cfg.WeakTop = practiceWeakTop
	}
	if flags.Changed("weak-factor") {
		cfg.WeakFactor = practiceWeakFactor
	}
	if flags.Changed("weak-window") {
		cfg.WeakWindow = practiceWeakWindow
	}
	if flags.Changed("free") {
		cfg.Drill = !practiceFree
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, fileCfg, err
	}
	return cfg, fileCfg, nil
}

func logOptions(fileCfg config.FileConfig) logging.Options {
	opts := logging.Options{Prefix: "keygrid"}
	if fileCfg.Log.Level != nil {
		opts.Level = *fileCfg.Log.Level
	}
	if fileCfg.Log.Format != nil {
		opts.Format = *fileCfg.Log.Format
	}
	if logLevel != "" {
		opts.Level = logLevel
	}
	return opts
}

func logPath(fileCfg config.FileConfig) string {
	if fileCfg.Log.File != nil && strings.TrimSpace(*fileCfg.Log.File) != "" {
		return *fileCfg.Log.File
	}
	return config.DefaultLogPath()
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, fileCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logger, logFile, err := logging.OpenFile(logPath(fileCfg), logOptions(fileCfg))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	weakSet := map[rune]struct{}{}
	if cfg.FocusWeak && cfg.Drill {
		aggs, err := st.GetWeakKeys(context.Background(), cfg.WeakWindow)
		if err != nil {
			logger.Warn("failed to load weak keys", "err", err)
		} else {
			weakSet = stats.SelectWeakKeys(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logger.Info("no stats available for weak-key focus yet; using uniform targets")
			}
		}
	}

	practice, err := tui.NewModel(tui.Options{
		Config:    cfg,
		Store:     st,
		Generator: generator.New(),
		Logger:    logger,
		Free:      !cfg.Drill,
		TapKey:    practiceTapKey,
		WeakSet:   weakSet,
	})
	if err != nil {
		return fmt.Errorf("failed to build practice UI: %w", err)
	}
	logger.Info("practice started", "screens", len(cfg.Screens), "drill", cfg.Drill, "weak", len(weakSet))
	program := tea.NewProgram(practice, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate <keys>",
		Short: "Resolve a key sequence to a target without a UI",
		Long: "Starts a session, feeds each character of <keys> and prints every rectangle.\n" +
			"Space clicks, ' middle-clicks and \\ right-clicks the target.",
		Args: cobra.ExactArgs(1),
		RunE: runLocateCmd,
	}
	cmd.Flags().StringArrayVar(&locateScreens, "screen", nil, "screen as WxH+X+Y (repeatable)")
	cmd.Flags().BoolVar(&locateJSON, "json", false, "print the result as JSON")
	return cmd
}

func runLocateCmd(cmd *cobra.Command, args []string) error {
	cfg, fileCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if len(locateScreens) > 0 {
		screens := make([]grid.Rect, 0, len(locateScreens))
		for _, raw := range locateScreens {
			screen, err := config.ParseScreen(raw)
			if err != nil {
				return fmt.Errorf("invalid --screen: %w", err)
			}
			screens = append(screens, screen)
		}
		cfg.Screens = screens
	}
	opts := logOptions(fileCfg)
	opts.Output = cmd.ErrOrStderr()
	logger, err := logging.New(opts)
	if err != nil {
		return err
	}
	result, err := locate(cfg, args[0], logger)
	if err != nil {
		return err
	}
	if locateJSON {
		return writeLocateJSON(cmd.OutOrStdout(), result)
	}
	return writeLocateText(cmd.OutOrStdout(), result)
}

func newKeymapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keymap",
		Short: "Print the grid labels",
		Args:  cobra.NoArgs,
		RunE:  runKeymapCmd,
	}
}

func runKeymapCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), renderKeymap(grid.LayoutFromRows(cfg.KeymapRows))); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func renderKeymap(layout grid.Layout) string {
	headers := make([]string, layout.Columns())
	for c := range headers {
		headers[c] = fmt.Sprintf("%d", c+1)
	}
	rows := make([][]string, layout.Rows())
	for r := range rows {
		rows[r] = make([]string, layout.Columns())
		for c := range rows[r] {
			if key, ok := layout.Label(r, c); ok {
				rows[r][c] = string(key)
			}
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsOutcome, "outcome", "", "outcome filter (click, middle, right, cancel)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", config.DefaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsKeys, "keys", "", "grid keys for per-key curves")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	browser := statsui.NewModel(st, cfg)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	outcome, err := statsui.ParseOutcome(statsOutcome)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("invalid --outcome value: %w", err)
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Outcome:     outcome,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Keys:        statsKeys,
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented template unless a config
// already exists at path.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	d := config.Defaults()
	rows := make([]string, len(d.KeymapRows))
	for i, row := range d.KeymapRows {
		rows[i] = fmt.Sprintf("%q", row)
	}
	screen := d.Screens[0]
	return fmt.Sprintf(`# keygrid configuration
# Uncomment a value to enable it. CLI flags override config values.

[gesture]
# double-tap = %.2f          # Seconds between taps that toggle targeting

[grid]
# rows = [%s]
# hide-depth = %d             # Depth at which grid labels are hidden

[zoom]
# base = %.1f                 # Magnification at depth 1
# step = %.1f                 # Magnification added per level
# padding = %.0f              # Minimum distance of the magnifier from screen edges

[session]
# empty-undo = %q       # "cancel" or "ignore" when undoing at the top level
# refine-from = %q        # "grid" or "visual"

[practice]
# drill = true                # Show drill targets
# focus-weak = false          # Bias drill targets toward weak keys
# weak-top = %d               # Number of weak keys to focus on
# weak-factor = %.1f          # Weight factor for weak keys
# weak-window = %d           # Number of recent sessions to compute weak keys

[log]
# level = "info"
# format = "text"             # text, json or logfmt
# file = ""                   # Defaults to the XDG state directory

# [[screens]]
# x = %.0f
# y = %.0f
# width = %.0f
# height = %.0f
`,
		d.DoubleTap.Seconds(),
		strings.Join(rows, ", "),
		d.GridHideDepth,
		d.ZoomBase,
		d.ZoomStep,
		d.Padding,
		d.EmptyUndo,
		d.RefineFrom,
		d.WeakTop,
		d.WeakFactor,
		d.WeakWindow,
		screen.MinX(),
		screen.MinY(),
		screen.Width(),
		screen.Height(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
