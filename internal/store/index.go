// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/toeirei/apppass/internal/vault"
)

// IndexAccount is the vault account holding the label index.
const IndexAccount = "apppass_index"

// index is the ordered label set. Values are immutable; with and without
// return modified copies so a failed save leaves the store's copy intact.
type index struct {
	labels []string
	set    map[string]struct{}
}

func newIndex(labels []string) index {
	idx := index{set: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		if _, dup := idx.set[l]; dup || l == "" {
			continue
		}
		idx.set[l] = struct{}{}
		idx.labels = append(idx.labels, l)
	}
	return idx
}

func (i index) contains(label string) bool {
	_, ok := i.set[label]
	return ok
}

func (i index) with(label string) index {
	labels := make([]string, 0, len(i.labels)+1)
	labels = append(labels, i.labels...)
	return newIndex(append(labels, label))
}

func (i index) without(label string) index {
	labels := make([]string, 0, len(i.labels))
	for _, l := range i.labels {
		if l != label {
			labels = append(labels, l)
		}
	}
	return newIndex(labels)
}

func (i index) snapshot() []string {
	out := make([]string, len(i.labels))
	copy(out, i.labels)
	return out
}

func loadIndex(v vault.Vault, service string) (index, error) {
	raw, err := v.Get(service, IndexAccount)
	if errors.Is(err, vault.ErrNotFound) {
		return newIndex(nil), nil
	}
	if err != nil {
		return index{}, err
	}
	return parseIndex(raw), nil
}

func saveIndex(v vault.Vault, service string, idx index) error {
	b, err := json.Marshal(idx.snapshot())
	if err != nil {
		return err
	}
	return v.Put(service, IndexAccount, string(b))
}

// parseIndex accepts a JSON array or the legacy comma-separated form, which
// also listed per-label metadata accounts.
func parseIndex(raw string) index {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return newIndex(nil)
	}
	var labels []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &labels); err == nil {
			return newIndex(labels)
		}
	}
	for _, part := range strings.Split(raw, ",") {
		l := strings.TrimSpace(part)
		if isLegacyMetadata(l) {
			continue
		}
		labels = append(labels, l)
	}
	return newIndex(labels)
}

func isLegacyMetadata(name string) bool {
	return name == "password_length" ||
		name == IndexAccount ||
		strings.HasSuffix(name, "_type") ||
		strings.HasSuffix(name, "_otp_expiry")
}
