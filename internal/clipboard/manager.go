// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package clipboard copies secrets to the system clipboard and clears them
// again after a timeout.
package clipboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/toeirei/apppass/internal/logging"
)

// Manager handles clipboard operations with automatic clearing.
// A single timer is kept so repeated copies never stack goroutines.
type Manager struct {
	mu      sync.Mutex
	timer   *time.Timer
	timeout time.Duration
	copied  string

	write func(string) error
	read  func() (string, error)
}

// NewManager returns a Manager that clears the clipboard timeout after each
// Copy. A timeout of 0 disables auto-clear.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{
		timeout: timeout,
		write:   clipboard.WriteAll,
		read:    clipboard.ReadAll,
	}
}

// Available reports whether a clipboard utility was found on this system.
func Available() bool {
	return !clipboard.Unsupported
}

// Copy copies text to the clipboard and schedules automatic clearing.
func (m *Manager) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	if err := m.write(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	m.copied = text
	if m.timeout > 0 {
		m.timer = time.AfterFunc(m.timeout, m.expire)
	}
	return nil
}

// expire clears the clipboard unless the user has copied something else
// in the meantime.
func (m *Manager) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timer = nil
	if m.copied == "" {
		return
	}
	if current, err := m.read(); err == nil && current != m.copied {
		m.copied = ""
		return
	}
	if err := m.write(""); err != nil {
		logging.Warnf("clipboard: failed to clear clipboard: %v", err)
	}
	m.copied = ""
}

// ClearNow immediately clears the clipboard and cancels any pending
// auto-clear. It is a no-op when nothing was copied.
func (m *Manager) ClearNow() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	if m.copied == "" {
		return nil
	}
	m.copied = ""
	if err := m.write(""); err != nil {
		return fmt.Errorf("failed to clear clipboard: %w", err)
	}
	return nil
}

// Close stops any pending timer. Should be called on program exit.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
