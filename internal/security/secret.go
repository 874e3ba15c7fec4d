// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds the small helpers that keep secrets out of logs and
// status lines and scrub them from memory once they are no longer needed.
package security

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const redacted = "[SECRET]"

// maxMask caps the number of stars Mask prints so the mask does not reveal
// the secret length beyond that point.
const maxMask = 12

// Secret wraps sensitive bytes read from a terminal prompt. It redacts
// itself when formatted or marshaled.
type Secret []byte

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter to ensure `%v`, `%#v` and friends are redacted.
func (s Secret) Format(f fmt.State, c rune) {
	_, _ = io.WriteString(f, redacted)
}

// MarshalJSON redacts secrets in JSON marshaling.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// Use executes fn with the underlying bytes (not a copy).
func (s Secret) Use(fn func([]byte) error) error {
	return fn([]byte(s))
}

// Zero overwrites the underlying byte slice with zeros.
func (s *Secret) Zero() {
	if s == nil || *s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
}

// FromBytes copies in into a new Secret.
func FromBytes(in []byte) Secret {
	out := make([]byte, len(in))
	copy(out, in)
	return Secret(out)
}

// Mask replaces every character of s with '*', capped at maxMask. Empty
// input stays empty.
func Mask(s string) string {
	n := utf8.RuneCountInString(s)
	if n > maxMask {
		n = maxMask
	}
	return strings.Repeat("*", n)
}

// ZeroRunes overwrites r in place.
func ZeroRunes(r []rune) {
	for i := range r {
		r[i] = 0
	}
}
