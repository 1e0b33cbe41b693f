// Package tui provides the Bubble Tea virtual desktop used to practice
// keyboard pointer targeting.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/keygrid/internal/config"
	"github.com/verte-zerg/keygrid/internal/generator"
	"github.com/verte-zerg/keygrid/internal/gesture"
	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/input"
	"github.com/verte-zerg/keygrid/internal/logging"
	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/session"
	statsPkg "github.com/verte-zerg/keygrid/internal/stats"
	"github.com/verte-zerg/keygrid/internal/store"
	"github.com/verte-zerg/keygrid/internal/zoom"
)

// DefaultTapKey is the key whose double tap toggles a session.
const DefaultTapKey = "ctrl+g"

// Options configures the practice model.
type Options struct {
	Config    model.Config
	Store     *store.Store
	Generator *generator.Generator
	Logger    *log.Logger
	// Free disables drill targets.
	Free    bool
	TapKey  string
	WeakSet map[rune]struct{}
	Now     func() time.Time
}

type pendingClick struct {
	set     bool
	outcome string
	point   grid.Point
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config model.Config
	store  *store.Store
	gen    *generator.Generator
	logger *log.Logger
	free   bool
	tapKey string
	now    func() time.Time

	session *session.Controller
	input   *input.Manager
	zoom    *zoom.Controller

	width  int
	height int

	state      session.State
	lastActive session.State
	cursor     *grid.Point
	drill      *grid.Point
	weakSet    map[rune]struct{}
	status     string

	track   *tracker
	pending pendingClick

	hasLast     bool
	lastOutcome string
	lastSeconds float64
	lastHit     bool
	lastError   float64

	allSessions int
	allSeconds  float64
	allDrills   int
	allHits     int
}

var (
	highlightColor = lipgloss.Color("#3A3320")
	screenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	drillStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs the practice TUI model.
func NewModel(opts Options) (*Model, error) {
	sessOpts, err := config.SessionOptions(opts.Config)
	if err != nil {
		return nil, err
	}
	m := &Model{
		config:  opts.Config,
		store:   opts.Store,
		gen:     opts.Generator,
		logger:  opts.Logger,
		free:    opts.Free,
		tapKey:  opts.TapKey,
		now:     opts.Now,
		weakSet: opts.WeakSet,
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.tapKey == "" {
		m.tapKey = DefaultTapKey
	}
	if m.gen == nil {
		m.gen = generator.New()
	}

	m.zoom = zoom.NewController(grid.Bounds(opts.Config.Screens), nil)
	sessOpts.Mouse = m
	sessOpts.Observer = m
	sessOpts.Zoom = m.zoom
	sessOpts.Logger = m.logger
	m.session = session.New(sessOpts)
	m.state = m.session.State()

	recognizer := gesture.New(opts.Config.DoubleTap)
	recognizer.SetNowFunc(m.now)
	m.input = input.NewManager(m.session, recognizer, m.logger)
	m.input.OnToggle = m.toggled

	m.loadFooterStats()
	m.nextDrill()
	m.status = m.idleStatus()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	footer := m.renderFooter()
	bodyHeight := m.height - 2
	if bodyHeight < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, footer)
	}
	desktop := m.renderDesktop(m.width-2, bodyHeight)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, desktop)
	statusLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, statusStyle.Render(m.status))
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + statusLine + "\n" + footerLine
}

func (m *Model) renderDesktop(maxCols, maxRows int) string {
	bounds := grid.Bounds(m.config.Screens)
	cols, rows := fitCells(bounds, maxCols, maxRows)
	c := newCanvas(cols, rows, bounds)
	drawScene(c, m.scene())
	return c.render()
}

func (m *Model) scene() scene {
	return scene{
		screens:   m.config.Screens,
		slices:    m.session.Slices(),
		state:     m.state,
		frame:     m.zoom.Frame(),
		drill:     m.drill,
		cursor:    m.cursor,
		padding:   m.config.Padding,
		showLabel: true,
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if msg.String() == m.tapKey {
		// Terminals report presses only, so each press is a full tap.
		m.input.HandleModifierDown()
		m.input.HandleModifierUp()
		m.sync()
		return nil
	}
	if !m.session.Active() {
		switch msg.String() {
		case "esc", "ctrl+q":
			return tea.Quit
		case "enter":
			m.nextDrill()
		}
		return nil
	}
	key, ok := keyFromMsg(msg)
	if !ok {
		return nil
	}
	before := m.session.State()
	if !m.input.HandleKeyDown(key, msg.Alt) {
		return nil
	}
	after := m.session.State()
	if m.track != nil {
		m.track.observe(key.Rune, before, after, m.now())
	}
	m.sync()
	return nil
}

// keyFromMsg maps terminal keys to the fixed session keys.
func keyFromMsg(msg tea.KeyMsg) (input.Key, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return input.Key{Code: input.CodeEscape}, true
	case tea.KeySpace:
		return input.Key{Code: input.CodeSpace}, true
	case tea.KeyBackspace:
		return input.Key{Code: input.CodeBackspace}, true
	case tea.KeyDelete:
		return input.Key{Code: input.CodeDelete}, true
	case tea.KeyUp:
		return input.Key{Code: input.CodeUp}, true
	case tea.KeyDown:
		return input.Key{Code: input.CodeDown}, true
	case tea.KeyLeft:
		return input.Key{Code: input.CodeLeft}, true
	case tea.KeyRight:
		return input.Key{Code: input.CodeRight}, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return input.Key{}, false
		}
		return input.Rune(msg.Runes[0]), true
	default:
		return input.Key{}, false
	}
}

// sync starts or finishes session tracking after an input event.
func (m *Model) sync() {
	active := m.session.Active()
	switch {
	case active && m.track == nil:
		m.track = newTracker(m.session.ID(), m.now())
		m.pending = pendingClick{}
	case !active && m.track != nil:
		m.finishSession()
	}
	if active {
		m.status = fmt.Sprintf("depth %d · %.1fx", m.state.Depth, m.zoom.Scale())
	}
}

// MoveCursor implements session.MouseActions.
func (m *Model) MoveCursor(p grid.Point) {
	m.cursor = &p
}

// Click implements session.MouseActions.
func (m *Model) Click(p grid.Point) { m.recordClick(model.OutcomeClick, p) }

// MiddleClick implements session.MouseActions.
func (m *Model) MiddleClick(p grid.Point) { m.recordClick(model.OutcomeMiddle, p) }

// RightClick implements session.MouseActions.
func (m *Model) RightClick(p grid.Point) { m.recordClick(model.OutcomeRight, p) }

func (m *Model) recordClick(outcome string, p grid.Point) {
	m.cursor = &p
	m.pending = pendingClick{set: true, outcome: outcome, point: p}
}

// StateChanged implements session.Observer.
func (m *Model) StateChanged(s session.State) {
	m.state = s
	if s.Active {
		m.lastActive = s
	}
}

func (m *Model) toggled(active bool) {
	if active {
		m.logger.Info("session started", "id", m.session.ID())
	}
}

func (m *Model) finishSession() {
	t := m.track
	m.track = nil
	endedAt := m.now()
	final := m.lastActive

	rec := model.SessionRecord{
		UUID:       t.id,
		StartedAt:  t.startedAt,
		EndedAt:    endedAt,
		Outcome:    model.OutcomeCancel,
		Depth:      final.Depth,
		Keystrokes: t.keystrokes,
		Undos:      t.undos,
		Moves:      t.moves,
		Screens:    len(m.session.Slices()),
		DurationMs: endedAt.Sub(t.startedAt).Milliseconds(),
	}
	if m.pending.set {
		rec.Outcome = m.pending.outcome
		rec.PointX = m.pending.point.X
		rec.PointY = m.pending.point.Y
	}
	if m.drill != nil {
		rec.HasDrill = true
		rec.DrillX = m.drill.X
		rec.DrillY = m.drill.Y
		if m.pending.set {
			rec.Hit = final.CurrentRect.ContainsPoint(*m.drill)
			rec.ErrorPx = grid.Distance(m.pending.point, *m.drill)
		}
	}
	m.pending = pendingClick{}

	if m.store != nil {
		if _, err := m.store.InsertSession(context.Background(), rec, t.keyStats()); err != nil {
			m.logger.Error("failed to save session", "id", rec.UUID, "err", err)
		}
	}
	m.logger.Info("session finished",
		"id", rec.UUID,
		"outcome", rec.Outcome,
		"depth", rec.Depth,
		"keys", rec.Keystrokes,
		"hit", rec.Hit,
		"ms", rec.DurationMs,
	)

	m.addToFooter(model.SessionAggregate{
		EndedAt:    rec.EndedAt,
		Outcome:    rec.Outcome,
		Depth:      rec.Depth,
		Keystrokes: rec.Keystrokes,
		Undos:      rec.Undos,
		Moves:      rec.Moves,
		HasDrill:   rec.HasDrill,
		Hit:        rec.Hit,
		ErrorPx:    rec.ErrorPx,
		DurationMs: rec.DurationMs,
	})
	m.status = sessionStatus(rec)

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
	if rec.Outcome != model.OutcomeCancel {
		m.nextDrill()
	}
}

func sessionStatus(rec model.SessionRecord) string {
	switch {
	case rec.Outcome == model.OutcomeCancel:
		return "cancelled"
	case !rec.HasDrill:
		return fmt.Sprintf("%s at %.0f,%.0f", rec.Outcome, rec.PointX, rec.PointY)
	case rec.Hit:
		return fmt.Sprintf("hit · %.1fpx off · %.2fs", rec.ErrorPx, float64(rec.DurationMs)/1000)
	default:
		return fmt.Sprintf("miss · %.1fpx off · %.2fs", rec.ErrorPx, float64(rec.DurationMs)/1000)
	}
}

func (m *Model) idleStatus() string {
	return fmt.Sprintf("double-tap %s to start · enter new target · esc quit", m.tapKey)
}

func (m *Model) nextDrill() {
	if m.free || !m.config.Drill {
		m.drill = nil
		return
	}
	var p grid.Point
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		slices := grid.Slices(m.config.Screens, grid.LayoutFromRows(m.config.KeymapRows))
		p = m.gen.GenerateWeighted(slices, m.weakSet, m.config.WeakFactor)
	} else {
		p = m.gen.Generate(m.config.Screens)
	}
	m.drill = &p
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		m.logger.Error("failed to load session stats", "err", err)
		return
	}
	for _, s := range sessions {
		m.addToFooter(s)
	}
}

func (m *Model) addToFooter(s model.SessionAggregate) {
	seconds, _, hit := statsPkg.SessionMetrics(s)
	m.hasLast = true
	m.lastOutcome = s.Outcome
	m.lastSeconds = seconds
	m.lastHit = hit > 0
	m.lastError = s.ErrorPx
	m.allSessions++
	m.allSeconds += seconds
	if s.HasDrill && s.Outcome != model.OutcomeCancel {
		m.allDrills++
		if hit > 0 {
			m.allHits++
		}
	}
}

func (m *Model) renderFooter() string {
	mode := "practice"
	if m.free {
		mode = "free"
	}
	segments := []string{mode}
	if m.hasLast {
		last := fmt.Sprintf("Last %s %.2fs", m.lastOutcome, m.lastSeconds)
		if m.lastHit {
			last += " · hit"
		}
		if m.lastError > 0 {
			last += fmt.Sprintf(" · %.0fpx", m.lastError)
		}
		segments = append(segments, last)
	}
	if m.allSessions > 0 {
		all := fmt.Sprintf("All-time %d sessions · avg %.2fs", m.allSessions, m.allSeconds/float64(m.allSessions))
		if m.allDrills > 0 {
			all += fmt.Sprintf(" · %.1f%% hit", float64(m.allHits)/float64(m.allDrills)*100)
		}
		segments = append(segments, all)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakKeys(context.Background(), m.config.WeakWindow)
	if err != nil {
		m.logger.Error("failed to load weak keys", "err", err)
		return
	}
	m.weakSet = statsPkg.SelectWeakKeys(aggs, m.config.WeakTop)
}
