// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/session"
)

// keyMap documents the keys of the current mode for the help footer. Key
// handling itself happens in the session; these bindings only describe it.
type keyMap struct {
	mode session.Mode

	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Tab     key.Binding
	Quit    key.Binding
	Refresh key.Binding
	Copy    key.Binding
	Unlock  key.Binding
}

// keyMap implements help.KeyMap
var _ help.KeyMap = keyMap{}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", i18n.T("help.up"))),
		Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", i18n.T("help.down"))),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", i18n.T("help.select"))),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", i18n.T("help.back"))),
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", i18n.T("help.next_field"))),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", i18n.T("help.quit"))),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", i18n.T("help.refresh"))),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", i18n.T("help.copy"))),
		Unlock:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", i18n.T("help.unlock"))),
	}
}

func (km keyMap) ShortHelp() []key.Binding {
	switch km.mode {
	case session.ModeMenu:
		return []key.Binding{km.Up, km.Down, km.Enter, km.Quit}
	case session.ModeList:
		return []key.Binding{km.Up, km.Down, km.Enter, km.Refresh, km.Back}
	case session.ModeView:
		return []key.Binding{km.Copy, km.Back}
	case session.ModeLocked:
		return []key.Binding{km.Unlock, km.Quit}
	default:
		return []key.Binding{km.Tab, km.Enter, km.Back}
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{km.ShortHelp()}
}
