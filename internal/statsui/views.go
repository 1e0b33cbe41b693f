package statsui

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keygrid/internal/model"
	"github.com/verte-zerg/keygrid/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

func (m *Model) renderHeader() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts[i] = style.Render(tab)
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return padLines(tabs, m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	outcome := "any"
	if m.cfg.Outcome != "" {
		outcome = m.cfg.Outcome
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: outcome=%s  since=%s  last=%s  window=%d", outcome, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabKeyCurves {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit keys: enter  Window: -/=  Settings: /  Quit: q"
	}
	footer := headerStyle.Render(help)
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	return footer
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return fitLines(strings.Join(lines, "\n"), m.width, height)
	}
	if m.activeTab == tabKeys {
		switch {
		case len(m.report.Sessions) == 0:
			return fitLines("No sessions found.", m.width, height)
		case len(m.report.KeyAggsAll) == 0:
			return fitLines("No key stats found.", m.width, height)
		default:
			return fitLines(tableMutedStyle.Render(m.keyTable.View()), m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderKeyModal() string {
	body := []string{
		cardValueStyle.Render("Select Keys"),
		m.keyInput.View(),
		headerStyle.Render("Type grid keys (no commas). Spaces are ignored."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	curves := strings.TrimRight(buf.String(), "\n")
	return strings.TrimRight(renderSummaryCards(sessions, width)+"\n\n"+curves, "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	var totalSec, totalKeys, totalErr float64
	var drills, hits, completed int
	for _, s := range sessions {
		sec, keys, hit := stats.SessionMetrics(s)
		totalSec += sec
		totalKeys += keys
		if s.Outcome == model.OutcomeCancel {
			continue
		}
		completed++
		if s.HasDrill {
			drills++
			totalErr += s.ErrorPx
			if hit > 0 {
				hits++
			}
		}
	}
	count := float64(len(sessions))
	hitRate, avgErr := "-", "-"
	if drills > 0 {
		hitRate = fmt.Sprintf("%.1f%%", float64(hits)/float64(drills)*100)
		avgErr = fmt.Sprintf("%.1fpx", totalErr/float64(drills))
	}
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(sessions))),
		metricCard("Completed", strconv.Itoa(completed)),
		metricCard("Avg Time", fmt.Sprintf("%.2fs", totalSec/count)),
		metricCard("Avg Keys", fmt.Sprintf("%.1f", totalKeys/count)),
		metricCard("Hit Rate", hitRate),
		metricCard("Avg Error", avgErr),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...),
	)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderKeyCurves(sessions []model.SessionAggregate, keys []string, perSession map[int64]map[string]model.KeyAggregate, window, width int, errMsg string) string {
	switch {
	case len(sessions) == 0:
		return "No sessions found."
	case errMsg != "":
		return fmt.Sprintf("Failed to load key curves: %s", errMsg)
	case len(keys) == 0:
		return "No keys selected. Press Enter to set keys."
	}
	var buf bytes.Buffer
	if err := stats.RenderKeyCurvesWithSize(&buf, sessions, perSession, keys, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render key curves: %v", err)
	}
	header := headerStyle.Render(fmt.Sprintf("Keys: %s", strings.Join(keys, ", ")))
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func keyColumns() []table.Column {
	return []table.Column{
		{Title: "Key", Width: 4},
		{Title: "Undo Rate", Width: 10},
		{Title: "Avg Latency (ms)", Width: 17},
		{Title: "Presses", Width: 8},
		{Title: "Undone", Width: 7},
	}
}

// keyRows lists keys by press count, most used first.
func keyRows(aggs []model.KeyAggregate) []table.Row {
	sorted := append([]model.KeyAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Presses == sorted[j].Presses {
			return sorted[i].Key < sorted[j].Key
		}
		return sorted[i].Presses > sorted[j].Presses
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, table.Row{
			agg.Key,
			fmt.Sprintf("%.2f%%", stats.UndoRate(agg)*100),
			fmt.Sprintf("%.1f", stats.AvgLatency(agg)),
			strconv.Itoa(agg.Presses),
			strconv.Itoa(agg.Undone),
		})
	}
	return rows
}

func keyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.Padding(0, 1).PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	return styles
}

// parseKeys accepts "q,w,e" or "qwe". Keys are lowercased to match the
// stored key stats.
func parseKeys(input string) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range strings.ToLower(input) {
		if r == ',' || unicode.IsSpace(r) {
			continue
		}
		key := string(r)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

func normalizeKeyInput(input string) string {
	return strings.Join(parseKeys(input), "")
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	// 2 border + 4 padding
	return max(modalWidth(width)-6, 10)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
