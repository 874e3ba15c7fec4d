// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import "time"

// AutoLockTimer tracks the last user activity. A zero threshold disables it.
type AutoLockTimer struct {
	threshold time.Duration
	last      time.Time
}

// NewAutoLockTimer starts the idle period at now.
func NewAutoLockTimer(threshold time.Duration, now time.Time) *AutoLockTimer {
	return &AutoLockTimer{threshold: threshold, last: now}
}

// Touch records activity at now.
func (t *AutoLockTimer) Touch(now time.Time) { t.last = now }

// ShouldLock reports whether the idle threshold has been reached.
func (t *AutoLockTimer) ShouldLock(now time.Time) bool {
	return t.threshold > 0 && now.Sub(t.last) >= t.threshold
}

// Remaining is the idle time left before locking, or 0 when disabled.
func (t *AutoLockTimer) Remaining(now time.Time) time.Duration {
	if t.threshold <= 0 {
		return 0
	}
	return max(0, t.threshold-now.Sub(t.last))
}

// Threshold returns the configured idle limit.
func (t *AutoLockTimer) Threshold() time.Duration { return t.threshold }
