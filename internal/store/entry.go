// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/toeirei/apppass/internal/generator"
)

// Kind records which policy produced a secret.
type Kind string

const (
	KindRandom    Kind = "random"
	KindMemorable Kind = "memorable"
	KindOTP       Kind = "otp"
	KindCustom    Kind = "custom"
)

// Policy selects how Create and Update obtain a secret.
type Policy int

const (
	PolicyRandom Policy = iota
	PolicyMemorable
	PolicyOTP
	PolicyCustom
)

func (p Policy) kind() Kind {
	switch p {
	case PolicyMemorable:
		return KindMemorable
	case PolicyOTP:
		return KindOTP
	case PolicyCustom:
		return KindCustom
	default:
		return KindRandom
	}
}

// Params tune a policy. Zero Length and TTL mean the store defaults.
// Secret is the literal used by PolicyCustom.
type Params struct {
	Length int
	TTL    time.Duration
	Secret string
}

// Entry is one stored credential.
type Entry struct {
	Label     string
	Secret    string
	Kind      Kind
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the entry is an OTP past its expiry.
func (e Entry) Expired(now time.Time) bool {
	return generator.Expired(e.ExpiresAt, now)
}

// record is the JSON envelope stored as the vault value.
type record struct {
	Secret    string     `json:"secret"`
	Kind      Kind       `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func encodeRecord(e Entry) (string, error) {
	b, err := json.Marshal(record{
		Secret:    e.Secret,
		Kind:      e.Kind,
		CreatedAt: e.CreatedAt.UTC(),
		ExpiresAt: utcPtr(e.ExpiresAt),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeRecord never fails: values that are not an envelope are plain
// secrets written by older versions.
func decodeRecord(label, value string) Entry {
	if strings.HasPrefix(value, "{") {
		var r record
		if err := json.Unmarshal([]byte(value), &r); err == nil && r.Kind != "" {
			return Entry{
				Label:     label,
				Secret:    r.Secret,
				Kind:      r.Kind,
				CreatedAt: r.CreatedAt,
				ExpiresAt: r.ExpiresAt,
			}
		}
	}
	return Entry{Label: label, Secret: value, Kind: KindCustom}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
