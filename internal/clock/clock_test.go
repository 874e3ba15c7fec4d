// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import (
	"testing"
	"time"
)

func TestFakeClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := Fake(start)
	if !c.Now().Equal(start) {
		t.Fatalf("expected %v, got %v", start, c.Now())
	}
	c.Advance(90 * time.Second)
	if got := c.Now().Sub(start); got != 90*time.Second {
		t.Fatalf("expected 90s elapsed, got %v", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Set did not reset the clock: %v", c.Now())
	}
}

func TestRealClock_Moves(t *testing.T) {
	c := Real()
	a := c.Now()
	if a.IsZero() {
		t.Fatal("real clock returned zero time")
	}
}
