// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"strings"

	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/store"
)

func (s *Session) updateList(ev Event) {
	switch {
	case ev.Key == KeyUp:
		if s.selected > 0 {
			s.selected--
		}
	case ev.Key == KeyDown:
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case ev.Key == KeyEnter:
		if len(s.entries) == 0 {
			return
		}
		s.viewing = s.entries[s.selected]
		s.mode = ModeView
		s.status = nil
	case ev.Key == KeyRune && ev.Rune == 'r':
		s.refresh()
	case ev.Key == KeyEsc:
		s.toMenu(ModeList)
	}
}

// refresh reloads the listing cache and keeps the cursor in range.
func (s *Session) refresh() {
	entries, failures := s.creds.List()
	s.entries = entries
	s.selected = max(0, min(s.selected, len(entries)-1))
	if len(failures) == 0 {
		s.status = nil
		return
	}
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.Label)
	}
	s.setStatus(SeverityWarning, i18n.T("status.list_failures", len(failures), strings.Join(parts, ", ")))
}

func (s *Session) updateView(ev Event) {
	switch {
	case ev.Key == KeyEnter, ev.Key == KeyEsc:
		s.viewing = store.Entry{}
		s.mode = ModeList
		s.status = nil
	case ev.Key == KeyRune && ev.Rune == 'c':
		s.copyViewed()
	}
}

func (s *Session) copyViewed() {
	if s.clipboard == nil {
		s.setStatus(SeverityWarning, i18n.T("status.clipboard_unavailable"))
		return
	}
	if s.viewing.Expired(s.clock.Now()) {
		s.setStatus(SeverityWarning, i18n.T("status.expired"))
		return
	}
	if err := s.clipboard.Copy(s.viewing.Secret); err != nil {
		s.setStatus(SeverityError, err.Error())
		return
	}
	if s.clipboardTimeout > 0 {
		s.setStatus(SeveritySuccess, i18n.T("status.copied_clears", int(s.clipboardTimeout.Seconds())))
		return
	}
	s.setStatus(SeveritySuccess, i18n.T("status.copied"))
}
