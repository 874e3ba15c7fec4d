// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vault defines the narrow secret-store contract Apppass depends on
// and the backends that satisfy it. A vault holds one string per
// (service, account) pair and cannot enumerate its records unless the
// backend also implements Lister.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get and Delete when no record exists.
var ErrNotFound = errors.New("vault: record not found")

// Vault is the capability set the credential store needs.
type Vault interface {
	Put(service, account, secret string) error
	Get(service, account string) (string, error)
	Delete(service, account string) error
}

// Lister is implemented by backends that can enumerate accounts. It is only
// used to detect records missing from the index.
type Lister interface {
	Accounts(service string) ([]string, error)
}

// Maintainer is implemented by backends with storage-level housekeeping.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

const (
	BackendKeyring = "keyring"
	BackendSQL     = "sql"
	BackendMemory  = "memory"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend string
	DBType  string
	DSN     string
}

// Open returns the backend named by cfg.Backend. The SQL backend must be
// closed by the caller; Close is a no-op for the others.
func Open(cfg Config) (Vault, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendKeyring:
		return NewKeyring(), nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQL:
		dbType := cfg.DBType
		if dbType == "" {
			dbType = "sqlite"
		}
		dsn := cfg.DSN
		if dsn == "" {
			var err error
			if dsn, err = DefaultSQLitePath(); err != nil {
				return nil, err
			}
		}
		return OpenSQL(dbType, dsn)
	default:
		return nil, fmt.Errorf("unsupported vault backend %q (want %s, %s or %s)", cfg.Backend, BackendKeyring, BackendSQL, BackendMemory)
	}
}

// Close releases backend resources when the backend holds any.
func Close(v Vault) error {
	if c, ok := v.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// DefaultSQLitePath is the database file used by the sql backend when no DSN
// is configured.
func DefaultSQLitePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "apppass", "vault.db"), nil
}
