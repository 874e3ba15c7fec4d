// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/toeirei/apppass/internal/generator"
	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/logging"
	"github.com/toeirei/apppass/internal/security"
	"github.com/toeirei/apppass/internal/store"
)

func (s *Session) updateForm(ev Event) {
	n := len(s.order)
	if n == 0 {
		s.toMenu(s.mode)
		return
	}
	f := s.fields[s.order[s.active]]

	switch ev.Key {
	case KeyEsc:
		s.toMenu(s.mode)
	case KeyTab, KeyDown:
		s.active = (s.active + 1) % n
	case KeyUp:
		s.active = (s.active - 1 + n) % n
	case KeyLeft:
		f.Left()
	case KeyRight:
		f.Right()
	case KeyBackspace:
		f.Backspace()
	case KeyRune:
		f.Insert(ev.Rune)
	case KeyEnter:
		s.submit()
	}
}

func (s *Session) submit() {
	switch s.mode {
	case ModeCreate:
		s.submitCreate()
	case ModeMemorable:
		s.submitMemorable()
	case ModeOTP:
		s.submitOTP()
	case ModeCustom:
		s.submitCustom()
	case ModeUpdate:
		s.submitUpdate()
	case ModeDelete:
		s.submitDelete()
	case ModeExport:
		s.submitExport()
	case ModeImport:
		s.submitImport()
	case ModeSettings:
		s.submitSettings()
	}
}

// label validates the label field; it reports a status and returns false
// when the field is blank.
func (s *Session) label() (string, bool) {
	l := strings.TrimSpace(s.fields[FieldLabel].Value())
	if l == "" {
		s.setStatus(SeverityError, i18n.T("status.err_empty_label"))
		s.focus(FieldLabel)
		return "", false
	}
	return l, true
}

// positiveInt parses an optional numeric field; empty means 0 (default).
func (s *Session) positiveInt(role FieldRole, limit int, messageID string) (int, bool) {
	raw := strings.TrimSpace(s.fields[role].Value())
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || (limit > 0 && n > limit) {
		s.setStatus(SeverityError, i18n.T(messageID, raw))
		s.focus(role)
		return 0, false
	}
	return n, true
}

func (s *Session) focus(role FieldRole) {
	for i, r := range s.order {
		if r == role {
			s.active = i
			return
		}
	}
}

// done clears the form after a successful operation.
func (s *Session) done(sev Severity, text string) {
	s.resetFields(s.order)
	s.setStatus(sev, text)
}

func (s *Session) submitCreate() {
	label, ok := s.label()
	if !ok {
		return
	}
	length, ok := s.positiveInt(FieldLength, generator.MaxLength, "status.err_invalid_length")
	if !ok {
		return
	}
	e, err := s.creds.Create(label, store.PolicyRandom, store.Params{Length: length})
	if err != nil {
		s.fail(err)
		return
	}
	s.done(SeveritySuccess, i18n.T("status.created", e.Label, security.Mask(e.Secret)))
}

func (s *Session) submitMemorable() {
	label, ok := s.label()
	if !ok {
		return
	}
	e, err := s.creds.Create(label, store.PolicyMemorable, store.Params{})
	if err != nil {
		s.fail(err)
		return
	}
	s.done(SeveritySuccess, i18n.T("status.created_memorable", e.Label, security.Mask(e.Secret), generator.MemorableEntropyBits()))
}

func (s *Session) submitOTP() {
	label, ok := s.label()
	if !ok {
		return
	}
	secs, ok := s.positiveInt(FieldTTL, 0, "status.err_invalid_ttl")
	if !ok {
		return
	}
	e, err := s.creds.Create(label, store.PolicyOTP, store.Params{TTL: time.Duration(secs) * time.Second})
	if err != nil {
		s.fail(err)
		return
	}
	expires := ""
	if e.ExpiresAt != nil {
		expires = e.ExpiresAt.Local().Format(time.TimeOnly)
	}
	s.done(SeveritySuccess, i18n.T("status.created_otp", e.Label, security.Mask(e.Secret), expires))
}

func (s *Session) submitCustom() {
	label, ok := s.label()
	if !ok {
		return
	}
	secret := s.fields[FieldSecret].Value()
	if secret == "" {
		s.setStatus(SeverityError, i18n.T("status.err_empty_secret"))
		s.focus(FieldSecret)
		return
	}
	e, err := s.creds.Create(label, store.PolicyCustom, store.Params{Secret: secret})
	if err != nil {
		s.fail(err)
		return
	}
	s.done(SeveritySuccess, i18n.T("status.stored", e.Label))
}

func (s *Session) submitUpdate() {
	label, ok := s.label()
	if !ok {
		return
	}
	secret := s.fields[FieldSecret].Value()
	policy, params := store.PolicyRandom, store.Params{}
	if secret != "" {
		policy, params = store.PolicyCustom, store.Params{Secret: secret}
	}
	e, err := s.creds.Update(label, policy, params)
	if err != nil {
		s.fail(err)
		return
	}
	s.done(SeveritySuccess, i18n.T("status.updated", e.Label, security.Mask(e.Secret)))
}

func (s *Session) submitDelete() {
	label, ok := s.label()
	if !ok {
		return
	}
	if err := s.creds.Delete(label); err != nil {
		s.fail(err)
		return
	}
	s.done(SeveritySuccess, i18n.T("status.deleted", label))
}

func (s *Session) path() (string, bool) {
	p := strings.TrimSpace(s.fields[FieldPath].Value())
	if p == "" {
		s.setStatus(SeverityError, i18n.T("status.err_empty_path"))
		return "", false
	}
	return expandHome(p), true
}

func (s *Session) submitExport() {
	p, ok := s.path()
	if !ok {
		return
	}
	n, err := s.creds.ExportFile(p)
	if err != nil {
		s.fail(err)
		return
	}
	s.done(SeveritySuccess, i18n.T("status.exported", n, p))
}

func (s *Session) submitImport() {
	p, ok := s.path()
	if !ok {
		return
	}
	res, err := s.creds.ImportFile(p)
	if err != nil {
		s.setStatus(SeverityError, i18n.T("status.import_aborted", res.Imported, ErrorText(err)))
		return
	}
	if len(res.Errors) > 0 {
		s.done(SeverityWarning, i18n.T("status.imported_with_errors", res.Imported, res.Skipped, res.Errors[0]))
		return
	}
	s.done(SeveritySuccess, i18n.T("status.imported", res.Imported, res.Skipped))
}

// submitSettings applies the default length and returns to the menu. A
// failure to persist still keeps the value for this session.
func (s *Session) submitSettings() {
	n, ok := s.positiveInt(FieldLength, generator.MaxLength, "status.err_invalid_length")
	if !ok {
		return
	}
	if n == 0 {
		s.setStatus(SeverityError, i18n.T("status.err_invalid_length", ""))
		return
	}
	if err := s.creds.SetDefaultLength(n); err != nil {
		s.fail(err)
		return
	}
	s.toMenu(ModeSettings)
	if s.settings == nil {
		s.setStatus(SeverityInfo, i18n.T("status.settings_session", n))
		return
	}
	if err := s.settings.SaveDefaultLength(n); err != nil {
		logging.Warnf("session: saving settings: %v", err)
		s.setStatus(SeverityWarning, i18n.T("status.settings_not_saved", n, err))
		return
	}
	s.setStatus(SeveritySuccess, i18n.T("status.settings_saved", n))
}

// fail reports err and keeps mode and fields so the user can correct them.
func (s *Session) fail(err error) {
	s.setStatus(SeverityError, ErrorText(err))
}

// ErrorText turns a store error into a localized message.
func ErrorText(err error) string {
	var pf *store.PartialFailureError
	switch {
	case errors.As(err, &pf):
		return i18n.T("status.err_partial", pf.Label, pf.Step)
	case errors.Is(err, store.ErrDuplicateLabel):
		return i18n.T("status.err_duplicate", err)
	case errors.Is(err, store.ErrNotFound):
		return i18n.T("status.err_not_found", err)
	case errors.Is(err, store.ErrInvalidLength):
		return i18n.T("status.err_invalid_length", err)
	case errors.Is(err, store.ErrInvalidTTL):
		return i18n.T("status.err_invalid_ttl", err)
	case errors.Is(err, store.ErrEmptyLabel):
		return i18n.T("status.err_empty_label")
	case errors.Is(err, store.ErrEmptySecret):
		return i18n.T("status.err_empty_secret")
	case errors.Is(err, store.ErrVaultUnavailable):
		return i18n.T("status.err_vault", err)
	case errors.Is(err, store.ErrIO):
		return i18n.T("status.err_io", err)
	default:
		return err.Error()
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
