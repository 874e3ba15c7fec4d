// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/security"
	"github.com/toeirei/apppass/internal/session"
	"github.com/toeirei/apppass/internal/store"
)

var fieldLabels = map[session.FieldRole]string{
	session.FieldLabel:  "field.label",
	session.FieldLength: "field.length",
	session.FieldTTL:    "field.ttl",
	session.FieldSecret: "field.secret",
	session.FieldPath:   "field.path",
}

var fieldPlaceholders = map[session.FieldRole]string{
	session.FieldLabel:  "placeholder.label",
	session.FieldLength: "placeholder.length",
	session.FieldTTL:    "placeholder.ttl",
	session.FieldSecret: "placeholder.secret",
	session.FieldPath:   "placeholder.path",
}

func (m model) View() string {
	var b strings.Builder
	mode := m.sess.Mode()

	switch mode {
	case session.ModeMenu:
		b.WriteString(m.viewMenu())
	case session.ModeList:
		b.WriteString(m.viewList())
	case session.ModeView:
		b.WriteString(m.viewEntry())
	case session.ModeLocked:
		b.WriteString(m.viewLocked())
	default:
		b.WriteString(m.viewForm())
	}

	if st, ok := m.sess.Status(); ok {
		b.WriteString("\n\n")
		b.WriteString(statusStyle(st.Severity).Render(st.Text))
	}

	km := m.keys
	km.mode = mode
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(km)))
	b.WriteString("\n")
	b.WriteString(m.footer())

	return docStyle.Render(b.String())
}

func (m model) footer() string {
	left := i18n.T("footer.count", m.sess.Count())
	right := ""
	if d := m.sess.LockIn(); d > 0 {
		right = i18n.T("footer.lock_in", d.Round(time.Second).String())
	}
	w := m.width - docStyle.GetHorizontalFrameSize() - footerStyle.GetHorizontalFrameSize()
	return footerStyle.Render(AlignFooter(left, right, w))
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString(mainTitleStyle.Render(i18n.T("title.main")))
	b.WriteString("\n")
	for i, it := range m.sess.MenuItems() {
		text := i18n.T(it.MessageID)
		if i == m.sess.Selected() {
			b.WriteString(selectedItemStyle.Render("▸ " + text))
		} else {
			b.WriteString(itemStyle.Render("  " + text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("title." + m.sess.Mode().String())))
	b.WriteString("\n")

	active, _ := m.sess.ActiveField()
	for _, role := range m.sess.FieldOrder() {
		ls := formLabelStyle
		if role == active {
			ls = formSelectedLabelStyle
		}
		b.WriteString(ls.Render(i18n.T(fieldLabels[role])))
		b.WriteString(renderField(m.sess.Field(role), role, placeholderFor(m.sess.Mode(), role), role == active))
		b.WriteString("\n")
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// placeholderFor returns the placeholder message ID of role in mode.
func placeholderFor(mode session.Mode, role session.FieldRole) string {
	if mode == session.ModeCustom && role == session.FieldSecret {
		return "placeholder.secret_custom"
	}
	return fieldPlaceholders[role]
}

// renderField draws a session field through a textinput so the cursor and
// placeholder look like every other Bubbles form.
func renderField(f *session.InputField, role session.FieldRole, placeholderID string, focused bool) string {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = i18n.T(placeholderID)
	if role == session.FieldSecret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.SetValue(f.Value())
	ti.SetCursor(f.Cursor())
	if focused {
		ti.Focus()
	}
	return ti.View()
}

func (m model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("title.list")))
	b.WriteString("\n")

	entries := m.sess.Entries()
	if len(entries) == 0 {
		b.WriteString(helpStyle.Render(i18n.T("list.empty")))
		return b.String()
	}
	now := m.clock.Now()
	for i, e := range entries {
		line := fmt.Sprintf("%-24s %-12s %s", e.Label, kindLabel(e.Kind), security.Mask(e.Secret))
		if e.Expired(now) {
			line += " " + i18n.T("list.expired")
		}
		if i == m.sess.Selected() {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewEntry() string {
	e, ok := m.sess.Viewing()
	if !ok {
		return ""
	}
	rows := []string{
		formLabelStyle.Render(i18n.T("field.label")) + e.Label,
		formLabelStyle.Render(i18n.T("view.kind")) + kindLabel(e.Kind),
		formLabelStyle.Render(i18n.T("view.created")) + formatTime(e.CreatedAt),
	}
	if e.ExpiresAt != nil {
		rows = append(rows, formLabelStyle.Render(i18n.T("view.expires"))+formatTime(*e.ExpiresAt))
	}
	secret := secretStyle.Render(e.Secret)
	if m.sess.ViewingExpired() {
		secret = errorStyle.Render(i18n.T("list.expired"))
	}
	rows = append(rows, "", formLabelStyle.Render(i18n.T("field.secret"))+secret)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(i18n.T("title.view")),
		paneStyle.Render(strings.Join(rows, "\n")),
	)
}

func (m model) viewLocked() string {
	box := dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		specialStyle.Bold(true).Render(i18n.T("title.locked")),
		"",
		i18n.T("locked.hint"),
	))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width-docStyle.GetHorizontalFrameSize(), m.height/2, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func kindLabel(k store.Kind) string {
	return i18n.T("kind." + string(k))
}
