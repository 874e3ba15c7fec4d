// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring stores records in the operating system's secret service
// (Keychain, Windows Credential Manager, Secret Service over D-Bus).
type Keyring struct{}

// NewKeyring returns the OS keyring backend.
func NewKeyring() *Keyring { return &Keyring{} }

func (k *Keyring) Put(service, account, secret string) error {
	if err := keyring.Set(service, account, secret); err != nil {
		return fmt.Errorf("keyring set %s/%s: %w", service, account, err)
	}
	return nil
}

func (k *Keyring) Get(service, account string) (string, error) {
	v, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring get %s/%s: %w", service, account, err)
	}
	return v, nil
}

func (k *Keyring) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("keyring delete %s/%s: %w", service, account, err)
	}
	return nil
}
