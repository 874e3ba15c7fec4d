// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package store keeps credentials in a vault and mirrors their labels into an
// ordered index stored in the same vault. Every mutation touches at most one
// record and the index; when the second write fails the first is undone, and
// when the undo fails too the caller gets a *PartialFailureError.
//
// A Store is not safe for concurrent use. The UI and the CLI drive it from a
// single goroutine.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/apppass/internal/clock"
	"github.com/toeirei/apppass/internal/generator"
	"github.com/toeirei/apppass/internal/logging"
	"github.com/toeirei/apppass/internal/vault"
)

// DefaultService is the vault service every record is stored under.
const DefaultService = "apppass"

// DefaultTTL is the OTP lifetime used when none is configured.
const DefaultTTL = 5 * time.Minute

// Options configure a Store. Zero values select the defaults.
type Options struct {
	Service       string
	DefaultLength int
	DefaultTTL    time.Duration
	Clock         clock.Clock
}

// Store orchestrates generator, index and vault.
type Store struct {
	vault         vault.Vault
	service       string
	defaultLength int
	defaultTTL    time.Duration
	clock         clock.Clock
	idx           index
}

// Open loads the index from v.
func Open(v vault.Vault, opts Options) (*Store, error) {
	s := &Store{
		vault:         v,
		service:       opts.Service,
		defaultLength: opts.DefaultLength,
		defaultTTL:    opts.DefaultTTL,
		clock:         opts.Clock,
	}
	if s.service == "" {
		s.service = DefaultService
	}
	if s.defaultLength == 0 {
		s.defaultLength = generator.DefaultLength
	}
	if s.defaultLength < 1 || s.defaultLength > generator.MaxLength {
		return nil, fmt.Errorf("%w: default length %d", ErrInvalidLength, s.defaultLength)
	}
	if s.defaultTTL == 0 {
		s.defaultTTL = DefaultTTL
	}
	if s.defaultTTL < 0 {
		return nil, fmt.Errorf("%w: default ttl %s", ErrInvalidTTL, s.defaultTTL)
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}

	idx, err := loadIndex(v, s.service)
	if err != nil {
		return nil, fmt.Errorf("%w: load index: %w", ErrVaultUnavailable, err)
	}
	s.idx = idx
	logging.Debugf("store: loaded %d labels for service %s", len(idx.labels), s.service)
	return s, nil
}

// Labels returns the indexed labels in insertion order.
func (s *Store) Labels() []string { return s.idx.snapshot() }

// Len is the number of indexed labels.
func (s *Store) Len() int { return len(s.idx.labels) }

// DefaultLength is the random secret length used when Params.Length is 0.
func (s *Store) DefaultLength() int { return s.defaultLength }

// SetDefaultLength changes the length used for later random secrets.
func (s *Store) SetDefaultLength(n int) error {
	if n < 1 || n > generator.MaxLength {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	s.defaultLength = n
	return nil
}

// Create generates a secret for a new label and stores it.
func (s *Store) Create(label string, p Policy, params Params) (Entry, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return Entry{}, err
	}
	if s.idx.contains(label) {
		return Entry{}, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	e, err := s.generate(label, p, params)
	if err != nil {
		return Entry{}, err
	}
	if err := s.insert(e); err != nil {
		return Entry{}, err
	}
	logging.Infof("store: created %q (%s)", label, e.Kind)
	return e, nil
}

// insert writes a new record then appends its label to the index.
func (s *Store) insert(e Entry) error {
	// A record without an index entry is drift; never clobber it.
	if _, err := s.vault.Get(s.service, e.Label); err == nil {
		logging.Warnf("store: drift: record %q exists but is not indexed", e.Label)
		return fmt.Errorf("%w: %q has an unindexed vault record", ErrDuplicateLabel, e.Label)
	} else if !errors.Is(err, vault.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrVaultUnavailable, err)
	}

	value, err := encodeRecord(e)
	if err != nil {
		return err
	}
	if err := s.vault.Put(s.service, e.Label, value); err != nil {
		return fmt.Errorf("%w: %w", ErrVaultUnavailable, err)
	}
	next := s.idx.with(e.Label)
	if err := saveIndex(s.vault, s.service, next); err != nil {
		if rbErr := s.vault.Delete(s.service, e.Label); rbErr != nil {
			logging.Errorf("store: rollback of %q failed: %v", e.Label, rbErr)
			return &PartialFailureError{Label: e.Label, Step: "index write", Err: err, Rollback: rbErr}
		}
		return fmt.Errorf("%w: update index: %w", ErrVaultUnavailable, err)
	}
	s.idx = next
	return nil
}

// Read returns the stored entry for label.
func (s *Store) Read(label string) (Entry, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return Entry{}, err
	}
	if !s.idx.contains(label) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	value, err := s.vault.Get(s.service, label)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			logging.Warnf("store: drift: %q is indexed but has no vault record", label)
		}
		return Entry{}, fmt.Errorf("%w: %w", ErrVaultUnavailable, err)
	}
	return decodeRecord(label, value), nil
}

// Update replaces the secret of an existing label. CreatedAt is reset and
// ExpiresAt is only kept for OTP policies.
func (s *Store) Update(label string, p Policy, params Params) (Entry, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return Entry{}, err
	}
	if !s.idx.contains(label) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	e, err := s.generate(label, p, params)
	if err != nil {
		return Entry{}, err
	}
	value, err := encodeRecord(e)
	if err != nil {
		return Entry{}, err
	}
	if err := s.vault.Put(s.service, label, value); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrVaultUnavailable, err)
	}
	logging.Infof("store: updated %q (%s)", label, e.Kind)
	return e, nil
}

// Delete removes the record and its index entry.
func (s *Store) Delete(label string) error {
	label, err := normalizeLabel(label)
	if err != nil {
		return err
	}
	if !s.idx.contains(label) {
		return fmt.Errorf("%w: %q", ErrNotFound, label)
	}

	prev, getErr := s.vault.Get(s.service, label)
	if getErr != nil && !errors.Is(getErr, vault.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrVaultUnavailable, getErr)
	}
	hadRecord := getErr == nil
	if err := s.vault.Delete(s.service, label); err != nil && !errors.Is(err, vault.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrVaultUnavailable, err)
	}

	next := s.idx.without(label)
	if err := saveIndex(s.vault, s.service, next); err != nil {
		if hadRecord {
			if rbErr := s.vault.Put(s.service, label, prev); rbErr != nil {
				logging.Errorf("store: rollback of %q failed: %v", label, rbErr)
				return &PartialFailureError{Label: label, Step: "index write", Err: err, Rollback: rbErr}
			}
		}
		return fmt.Errorf("%w: update index: %w", ErrVaultUnavailable, err)
	}
	s.idx = next
	logging.Infof("store: deleted %q", label)
	return nil
}

// List loads every indexed entry in index order. Labels that fail to load
// are reported individually and do not stop the listing.
func (s *Store) List() ([]Entry, []EntryError) {
	var entries []Entry
	var failures []EntryError
	for _, label := range s.idx.labels {
		e, err := s.Read(label)
		if err != nil {
			failures = append(failures, EntryError{Label: label, Err: err})
			continue
		}
		entries = append(entries, e)
	}
	return entries, failures
}

// DriftReport lists disagreements between index and vault.
type DriftReport struct {
	MissingRecords []string
	Unindexed      []string
	// Listed is false when the backend cannot enumerate records, so
	// Unindexed could not be computed.
	Listed bool
}

// Clean is true when index and vault agree.
func (r DriftReport) Clean() bool {
	return len(r.MissingRecords) == 0 && len(r.Unindexed) == 0
}

// Check compares index and vault. Drift is logged, never repaired.
func (s *Store) Check() (DriftReport, error) {
	var report DriftReport
	for _, label := range s.idx.labels {
		_, err := s.vault.Get(s.service, label)
		switch {
		case err == nil:
		case errors.Is(err, vault.ErrNotFound):
			report.MissingRecords = append(report.MissingRecords, label)
		default:
			return report, fmt.Errorf("%w: %w", ErrVaultUnavailable, err)
		}
	}

	if lister, ok := s.vault.(vault.Lister); ok {
		report.Listed = true
		accounts, err := lister.Accounts(s.service)
		if err != nil {
			return report, fmt.Errorf("%w: %w", ErrVaultUnavailable, err)
		}
		for _, a := range accounts {
			if a != IndexAccount && !s.idx.contains(a) {
				report.Unindexed = append(report.Unindexed, a)
			}
		}
	}

	if !report.Clean() {
		logging.Warnf("store: drift: %d indexed labels without record, %d unindexed records",
			len(report.MissingRecords), len(report.Unindexed))
	}
	return report, nil
}

// PurgeExpired deletes every OTP entry whose expiry has passed and returns
// the removed labels. Entries that cannot be read are left alone.
func (s *Store) PurgeExpired() ([]string, error) {
	now := s.clock.Now()
	entries, _ := s.List()
	var purged []string
	for _, e := range entries {
		if !e.Expired(now) {
			continue
		}
		if err := s.Delete(e.Label); err != nil {
			return purged, err
		}
		purged = append(purged, e.Label)
	}
	return purged, nil
}

func (s *Store) generate(label string, p Policy, params Params) (Entry, error) {
	now := s.clock.Now().UTC()
	e := Entry{Label: label, Kind: p.kind(), CreatedAt: now}
	var err error
	switch p {
	case PolicyRandom:
		length := params.Length
		if length == 0 {
			length = s.defaultLength
		}
		e.Secret, err = generator.Random(length, generator.CharsetFull)
	case PolicyMemorable:
		e.Secret, err = generator.Memorable()
	case PolicyOTP:
		ttl := params.TTL
		if ttl == 0 {
			ttl = s.defaultTTL
		}
		var expiresAt time.Time
		e.Secret, expiresAt, err = generator.OTP(now, ttl)
		e.ExpiresAt = &expiresAt
	case PolicyCustom:
		if params.Secret == "" {
			return Entry{}, ErrEmptySecret
		}
		e.Secret = params.Secret
	default:
		return Entry{}, fmt.Errorf("unknown policy %d", p)
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func normalizeLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrEmptyLabel
	}
	if label == IndexAccount {
		return "", fmt.Errorf("%w: %q is reserved", ErrDuplicateLabel, label)
	}
	return label, nil
}
