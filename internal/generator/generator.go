// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package generator produces secret strings. Every function draws from
// crypto/rand; nothing here keeps state or performs I/O.
//
// Memorable secrets have the shape Word-NN-Word. With a 256-word list and a
// two-digit number the search space is |words|^2 * 100 = 6,553,600
// combinations, roughly 22.6 bits. That resists casual guessing but is far
// weaker than a Random secret of the default length, and callers should say
// so when offering it.
package generator

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"
	"time"
)

const (
	// MaxLength caps Random secrets.
	MaxLength = 4096
	// DefaultLength is used when no length is configured.
	DefaultLength = 30
	// OTPLength is the fixed length of one-time secrets.
	OTPLength = 10

	memorableDelimiter = "-"
)

// Charset is the alphabet a secret is drawn from. Characters must be ASCII.
type Charset string

const (
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower   = "abcdefghijklmnopqrstuvwxyz"
	digits  = "0123456789"
	symbols = "!#$%&*+-=?@^_~"

	// CharsetFull mixes upper, lower, digit and symbol classes.
	CharsetFull Charset = upper + lower + digits + symbols
	// CharsetAlphanumeric is the shorter alphabet used for one-time secrets.
	CharsetAlphanumeric Charset = upper + lower + digits
)

var (
	ErrInvalidLength = errors.New("invalid length")
	ErrInvalidTTL    = errors.New("invalid ttl")
	ErrEmptyCharset  = errors.New("charset is empty")
)

// randReader is swapped in tests to simulate an exhausted entropy source.
var randReader io.Reader = rand.Reader

// Contains reports whether every character of s belongs to the charset.
func (c Charset) Contains(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(string(c), r) {
			return false
		}
	}
	return true
}

// Random returns length characters drawn independently and uniformly from cs.
func Random(length int, cs Charset) (string, error) {
	if length < 1 || length > MaxLength {
		return "", fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidLength, length, MaxLength)
	}
	if len(cs) == 0 {
		return "", ErrEmptyCharset
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := randomIndex(len(cs))
		if err != nil {
			return "", err
		}
		b.WriteByte(cs[idx])
	}
	return b.String(), nil
}

// Memorable returns a Word-NN-Word secret, e.g. "Tiger-85-Cloud".
func Memorable() (string, error) {
	first, err := randomIndex(len(words))
	if err != nil {
		return "", err
	}
	number, err := randomIndex(100)
	if err != nil {
		return "", err
	}
	second, err := randomIndex(len(words))
	if err != nil {
		return "", err
	}
	return words[first] + memorableDelimiter + fmt.Sprintf("%02d", number) + memorableDelimiter + words[second], nil
}

// MemorableEntropyBits is log2(|words|^2 * 100).
func MemorableEntropyBits() float64 {
	return 2*math.Log2(float64(len(words))) + math.Log2(100)
}

// OTP returns a short one-time secret and the instant it stops being valid.
func OTP(now time.Time, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTTL, ttl)
	}
	secret, err := Random(OTPLength, CharsetAlphanumeric)
	if err != nil {
		return "", time.Time{}, err
	}
	return secret, now.Add(ttl), nil
}

// Expired is true iff expiresAt is set and now is at or after it.
func Expired(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && !now.Before(*expiresAt)
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(randReader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return int(v.Int64()), nil
}
