// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import "time"

// EventType distinguishes keystrokes from clock ticks.
type EventType int

const (
	EventKey EventType = iota
	EventTick
)

// Key is a normalized keystroke. Printable characters arrive as KeyRune.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEsc
	KeyTab
	KeyBackspace
	KeyRune
)

// Event is the only input a Session accepts.
type Event struct {
	Type EventType
	Key  Key
	Rune rune
	At   time.Time
}

// KeyEvent returns a key event for a non-printable key.
func KeyEvent(k Key) Event { return Event{Type: EventKey, Key: k} }

// RuneEvent returns a key event for a printable character.
func RuneEvent(r rune) Event { return Event{Type: EventKey, Key: KeyRune, Rune: r} }

// TickEvent returns a clock tick observed at at.
func TickEvent(at time.Time) Event { return Event{Type: EventTick, At: at} }
