// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"errors"
	"fmt"

	"github.com/toeirei/apppass/internal/generator"
)

var (
	ErrInvalidLength = generator.ErrInvalidLength
	ErrInvalidTTL    = generator.ErrInvalidTTL

	ErrEmptyLabel       = errors.New("label must not be empty")
	ErrEmptySecret      = errors.New("secret must not be empty")
	ErrDuplicateLabel   = errors.New("label already exists")
	ErrNotFound         = errors.New("label not found")
	ErrVaultUnavailable = errors.New("vault unavailable")
	ErrPartialFailure   = errors.New("partial failure")
	ErrFormat           = errors.New("malformed input")
	ErrIO               = errors.New("i/o error")
)

// PartialFailureError is returned when a mutation failed halfway and the
// rollback of the first half failed too. Index and vault may disagree for
// Label until Check is run.
type PartialFailureError struct {
	Label    string
	Step     string
	Err      error
	Rollback error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure on %q: %s failed (%v); rollback failed (%v)", e.Label, e.Step, e.Err, e.Rollback)
}

// Unwrap lets errors.Is match ErrPartialFailure and the original cause.
func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}

// FormatError describes one rejected import row.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// EntryError reports a label List could not load.
type EntryError struct {
	Label string
	Err   error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Label, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }
