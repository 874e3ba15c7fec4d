// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"slices"

	"github.com/toeirei/apppass/internal/security"
)

// FieldRole names an input field independently of the mode showing it.
type FieldRole int

const (
	FieldLabel FieldRole = iota
	FieldLength
	FieldTTL
	FieldSecret
	FieldPath
)

// InputField is an editable line of text. The cursor is a rune index and
// always stays within [0, Len()].
type InputField struct {
	value  []rune
	cursor int
}

// Value returns the field text.
func (f *InputField) Value() string { return string(f.value) }

// Cursor returns the cursor position in runes.
func (f *InputField) Cursor() int { return f.cursor }

// Len returns the number of runes in the field.
func (f *InputField) Len() int { return len(f.value) }

// SetValue replaces the text and moves the cursor to the end.
func (f *InputField) SetValue(s string) {
	f.Wipe()
	for _, r := range s {
		f.Insert(r)
	}
}

// minFieldCap is the initial buffer capacity, enough for most secrets.
const minFieldCap = 64

// Insert adds r before the cursor and advances it. The buffer grows by
// copying into a larger one and zeroing the old, so no stale copy of the
// text is left behind.
func (f *InputField) Insert(r rune) {
	f.clamp()
	if len(f.value) == cap(f.value) {
		f.grow()
	}
	f.value = slices.Insert(f.value, f.cursor, r)
	f.cursor++
}

func (f *InputField) grow() {
	buf := make([]rune, len(f.value), max(minFieldCap, 2*cap(f.value)))
	copy(buf, f.value)
	security.ZeroRunes(f.value)
	f.value = buf
}

// Backspace deletes the rune before the cursor.
func (f *InputField) Backspace() {
	f.clamp()
	if f.cursor == 0 {
		return
	}
	f.value[f.cursor-1] = 0
	f.value = slices.Delete(f.value, f.cursor-1, f.cursor)
	f.cursor--
}

func (f *InputField) Left() {
	if f.cursor > 0 {
		f.cursor--
	}
}

func (f *InputField) Right() {
	if f.cursor < len(f.value) {
		f.cursor++
	}
}

// Wipe zeroes the buffer before dropping it.
func (f *InputField) Wipe() {
	security.ZeroRunes(f.value)
	f.value = nil
	f.cursor = 0
}

func (f *InputField) clamp() {
	f.cursor = max(0, min(f.cursor, len(f.value)))
}
