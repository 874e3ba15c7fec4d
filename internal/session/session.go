// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package session is the interactive state machine behind the terminal UI.
// It consumes key and tick events, keeps the form fields and the listing
// cache, and talks to the credential store. It draws nothing; a front end
// reads its state after each Update and renders it.
//
// Update is the only mutator and must be called from a single goroutine.
package session

import (
	"strconv"
	"time"

	"github.com/toeirei/apppass/internal/clock"
	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/logging"
	"github.com/toeirei/apppass/internal/store"
)

// Credentials is the subset of *store.Store a session drives.
type Credentials interface {
	Create(label string, p store.Policy, params store.Params) (store.Entry, error)
	Update(label string, p store.Policy, params store.Params) (store.Entry, error)
	Delete(label string) error
	List() ([]store.Entry, []store.EntryError)
	ExportFile(path string) (int, error)
	ImportFile(path string) (store.ImportResult, error)
	Len() int
	DefaultLength() int
	SetDefaultLength(n int) error
}

// Clipboard receives secrets copied from the View screen.
type Clipboard interface {
	Copy(text string) error
	ClearNow() error
}

// Severity grades a status line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// Status is the advisory message shown under the current screen.
type Status struct {
	Text     string
	Severity Severity
}

// Settings persists choices made on the Settings screen.
type Settings interface {
	SaveDefaultLength(n int) error
}

// Options configure a Session. Zero values select the defaults. Without
// Settings, changes on the Settings screen last for the session only.
type Options struct {
	LockTimeout      time.Duration
	Clock            clock.Clock
	Clipboard        Clipboard
	ClipboardTimeout time.Duration
	Settings         Settings
}

// Session holds all interactive state.
type Session struct {
	creds            Credentials
	clock            clock.Clock
	timer            *AutoLockTimer
	clipboard        Clipboard
	clipboardTimeout time.Duration
	settings         Settings

	mode     Mode
	selected int

	fields map[FieldRole]*InputField
	order  []FieldRole
	active int

	entries  []store.Entry
	viewing  store.Entry
	status   *Status
	quitting bool
}

// New returns a session on the main menu.
func New(creds Credentials, opts Options) *Session {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	s := &Session{
		creds:            creds,
		clock:            clk,
		timer:            NewAutoLockTimer(opts.LockTimeout, clk.Now()),
		clipboard:        opts.Clipboard,
		clipboardTimeout: opts.ClipboardTimeout,
		settings:         opts.Settings,
		mode:             ModeMenu,
		fields:           make(map[FieldRole]*InputField),
	}
	for _, roles := range formFields {
		for _, r := range roles {
			if _, ok := s.fields[r]; !ok {
				s.fields[r] = &InputField{}
			}
		}
	}
	return s
}

// Update applies one event.
func (s *Session) Update(ev Event) {
	if ev.Type == EventTick {
		s.tick(ev.At)
		return
	}
	s.timer.Touch(s.clock.Now())

	switch s.mode {
	case ModeMenu:
		s.updateMenu(ev)
	case ModeList:
		s.updateList(ev)
	case ModeView:
		s.updateView(ev)
	case ModeLocked:
		s.updateLocked(ev)
	default:
		s.updateForm(ev)
	}
}

func (s *Session) tick(now time.Time) {
	if s.mode == ModeLocked || !s.timer.ShouldLock(now) {
		return
	}
	s.lock()
}

// lock wipes everything that could reveal a secret.
func (s *Session) lock() {
	for _, f := range s.fields {
		f.Wipe()
	}
	s.entries = nil
	s.viewing = store.Entry{}
	s.selected = 0
	s.active = 0
	s.order = nil
	if s.clipboard != nil {
		if err := s.clipboard.ClearNow(); err != nil {
			logging.Warnf("session: %v", err)
		}
	}
	s.mode = ModeLocked
	s.setStatus(SeverityInfo, i18n.T("status.locked"))
	logging.Infof("session: locked after %s idle", s.timer.Threshold())
}

func (s *Session) updateLocked(ev Event) {
	switch {
	case ev.Key == KeyEnter:
		s.mode = ModeMenu
		s.selected = 0
		s.status = nil
	case ev.Key == KeyEsc, ev.Key == KeyRune && ev.Rune == 'q':
		s.quitting = true
	}
}

func (s *Session) updateMenu(ev Event) {
	n := len(menuItems)
	switch {
	case ev.Key == KeyUp:
		s.selected = (s.selected - 1 + n) % n
	case ev.Key == KeyDown:
		s.selected = (s.selected + 1) % n
	case ev.Key == KeyEnter:
		s.enter(menuItems[s.selected].Mode)
	case ev.Key == KeyEsc, ev.Key == KeyRune && ev.Rune == 'q':
		s.quitting = true
	}
}

func (s *Session) enter(m Mode) {
	s.status = nil
	if m == ModeList {
		s.mode = ModeList
		s.selected = 0
		s.refresh()
		return
	}
	s.resetFields(formFields[m])
	s.mode = m
	if m == ModeSettings {
		s.fields[FieldLength].SetValue(strconv.Itoa(s.creds.DefaultLength()))
	}
}

// toMenu returns to the menu with the cursor on the mode being left.
func (s *Session) toMenu(from Mode) {
	s.resetFields(nil)
	s.entries = nil
	s.viewing = store.Entry{}
	s.mode = ModeMenu
	s.selected = menuIndex(from)
}

func (s *Session) resetFields(order []FieldRole) {
	for _, f := range s.fields {
		f.Wipe()
	}
	s.order = order
	s.active = 0
}

func (s *Session) setStatus(sev Severity, text string) {
	s.status = &Status{Text: text, Severity: sev}
}

// Mode returns the current screen.
func (s *Session) Mode() Mode { return s.mode }

// MenuItems returns the main menu in display order.
func (s *Session) MenuItems() []MenuItem { return menuItems }

// Selected is the highlighted row in the menu or the list.
func (s *Session) Selected() int { return s.selected }

// FieldOrder lists the fields of the current form in tab order.
func (s *Session) FieldOrder() []FieldRole { return s.order }

// Field returns the field for role.
func (s *Session) Field(role FieldRole) *InputField { return s.fields[role] }

// ActiveField is the field receiving keystrokes.
func (s *Session) ActiveField() (FieldRole, bool) {
	if len(s.order) == 0 {
		return 0, false
	}
	return s.order[s.active], true
}

// Entries is the listing cache.
func (s *Session) Entries() []store.Entry { return s.entries }

// Viewing returns the entry shown in View mode.
func (s *Session) Viewing() (store.Entry, bool) {
	return s.viewing, s.mode == ModeView
}

// ViewingExpired reports whether the viewed entry is an expired OTP.
func (s *Session) ViewingExpired() bool {
	return s.mode == ModeView && s.viewing.Expired(s.clock.Now())
}

// Status returns the status line, if any.
func (s *Session) Status() (Status, bool) {
	if s.status == nil {
		return Status{}, false
	}
	return *s.status, true
}

// Count is the number of stored credentials.
func (s *Session) Count() int { return s.creds.Len() }

// LockIn is the idle time left before auto-lock, 0 when disabled.
func (s *Session) LockIn() time.Duration { return s.timer.Remaining(s.clock.Now()) }

// ShouldQuit is set once the user asked to leave.
func (s *Session) ShouldQuit() bool { return s.quitting }
