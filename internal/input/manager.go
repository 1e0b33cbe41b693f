// Package input routes modifier and key events to the targeting session.
package input

import (
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/keygrid/internal/gesture"
	"github.com/verte-zerg/keygrid/internal/grid"
	"github.com/verte-zerg/keygrid/internal/session"
)

// Code identifies a non-character key.
type Code int

const (
	CodeRune Code = iota
	CodeEscape
	CodeSpace
	CodeBackspace
	CodeDelete
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
)

// Key is a pressed key. Rune is only meaningful for CodeRune.
type Key struct {
	Code Code
	Rune rune
}

// Rune returns a character key.
func Rune(r rune) Key {
	switch r {
	case ' ':
		return Key{Code: CodeSpace}
	case 0x1b:
		return Key{Code: CodeEscape}
	}
	return Key{Code: CodeRune, Rune: r}
}

const (
	middleClickRune = '\''
	rightClickRune  = '\\'
)

// Targeter is the part of the session controller the manager drives.
type Targeter interface {
	Active() bool
	Toggle()
	Cancel() bool
	Click() bool
	MiddleClick() bool
	RightClick() bool
	ZoomOut() bool
	MoveSelection(dir session.Direction) bool
	HandleKey(key rune) (grid.Rect, bool)
}

// Manager turns raw key events into session commands.
type Manager struct {
	target     Targeter
	recognizer *gesture.Recognizer
	logger     *log.Logger

	// OnToggle runs after a double tap toggled the session.
	OnToggle func(active bool)
}

// NewManager wires a recognizer to target.
func NewManager(target Targeter, recognizer *gesture.Recognizer, logger *log.Logger) *Manager {
	if recognizer == nil {
		recognizer = gesture.New(gesture.DefaultThreshold)
	}
	return &Manager{target: target, recognizer: recognizer, logger: logger}
}

// HandleModifierDown records a modifier press.
func (m *Manager) HandleModifierDown() {
	m.recognizer.HandleDown()
}

// HandleModifierUp records a modifier release and toggles the session on a
// double tap. It reports whether the session was toggled.
func (m *Manager) HandleModifierUp() bool {
	if !m.recognizer.HandleUp() {
		return false
	}
	m.target.Toggle()
	if m.logger != nil {
		m.logger.Debug("double tap", "active", m.target.Active())
	}
	if m.OnToggle != nil {
		m.OnToggle(m.target.Active())
	}
	return true
}

// MarkModifierUsed records that the held modifier took part in a chord.
func (m *Manager) MarkModifierUsed() {
	m.recognizer.HandleChord()
}

// HandleKeyDown dispatches key and reports whether the session consumed it.
func (m *Manager) HandleKeyDown(key Key, modifierActive bool) bool {
	if modifierActive {
		m.MarkModifierUsed()
	}
	if !m.target.Active() {
		return false
	}
	switch key.Code {
	case CodeEscape:
		return m.target.Cancel()
	case CodeSpace:
		return m.target.Click()
	case CodeBackspace, CodeDelete:
		return m.target.ZoomOut()
	case CodeUp:
		return m.target.MoveSelection(session.Up)
	case CodeDown:
		return m.target.MoveSelection(session.Down)
	case CodeLeft:
		return m.target.MoveSelection(session.Left)
	case CodeRight:
		return m.target.MoveSelection(session.Right)
	case CodeRune:
		switch key.Rune {
		case middleClickRune:
			return m.target.MiddleClick()
		case rightClickRune:
			return m.target.RightClick()
		}
		_, ok := m.target.HandleKey(key.Rune)
		return ok
	}
	return false
}
