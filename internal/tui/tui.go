// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides the terminal user interface for Apppass.
// It is a thin Bubble Tea shell around session.Session: key messages are
// translated into session events, a one-second tick drives the auto-lock,
// and View renders whatever state the session is in.
package tui // import "github.com/toeirei/apppass/internal/tui"

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/apppass/internal/clock"
	"github.com/toeirei/apppass/internal/logging"
	"github.com/toeirei/apppass/internal/session"
)

const tickInterval = time.Second

// tickMsg drives the auto-lock check.
type tickMsg time.Time

type model struct {
	sess   *session.Session
	clock  clock.Clock
	keys   keyMap
	help   help.Model
	width  int
	height int
}

func newModel(sess *session.Session, clk clock.Clock) model {
	if clk == nil {
		clk = clock.Real()
	}
	return model{
		sess:  sess,
		clock: clk,
		keys:  newKeyMap(),
		help:  help.New(),
		width: 80,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the tick loop.
func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// The session's clock decides, not the tick timestamp, so a fake
		// clock can drive locking in tests.
		m.sess.Update(session.TickEvent(m.clock.Now()))
		return m, tickCmd()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		for _, ev := range translateKey(msg) {
			m.sess.Update(ev)
		}
		if m.sess.ShouldQuit() {
			return m, tea.Quit
		}
	}
	return m, nil
}

// translateKey maps a Bubble Tea key to session events. Pasted text arrives
// as one message carrying many runes. Keys the session has no name for still
// produce a KeyNone event so they count as activity.
func translateKey(msg tea.KeyMsg) []session.Event {
	switch msg.Type {
	case tea.KeyUp, tea.KeyShiftTab:
		return []session.Event{session.KeyEvent(session.KeyUp)}
	case tea.KeyDown:
		return []session.Event{session.KeyEvent(session.KeyDown)}
	case tea.KeyLeft:
		return []session.Event{session.KeyEvent(session.KeyLeft)}
	case tea.KeyRight:
		return []session.Event{session.KeyEvent(session.KeyRight)}
	case tea.KeyEnter:
		return []session.Event{session.KeyEvent(session.KeyEnter)}
	case tea.KeyEsc:
		return []session.Event{session.KeyEvent(session.KeyEsc)}
	case tea.KeyTab:
		return []session.Event{session.KeyEvent(session.KeyTab)}
	case tea.KeyBackspace:
		return []session.Event{session.KeyEvent(session.KeyBackspace)}
	case tea.KeySpace:
		return []session.Event{session.RuneEvent(' ')}
	case tea.KeyRunes:
		evs := make([]session.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			evs = append(evs, session.RuneEvent(r))
		}
		return evs
	default:
		return []session.Event{session.KeyEvent(session.KeyNone)}
	}
}

// Run starts the full-screen UI and blocks until the user quits.
func Run(sess *session.Session, clk clock.Clock) error {
	if _, err := tea.NewProgram(newModel(sess, clk), tea.WithAltScreen()).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		return err
	}
	return nil
}
