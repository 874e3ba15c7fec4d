// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zalando/go-keyring"
)

// exerciseVault runs the shared contract against any backend.
func exerciseVault(t *testing.T, v Vault) {
	t.Helper()
	const svc = "apppass-test"

	if _, err := v.Get(svc, "gmail"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty vault: expected ErrNotFound, got %v", err)
	}
	if err := v.Put(svc, "gmail", "first"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := v.Put(svc, "gmail", "second"); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}
	got, err := v.Get(svc, "gmail")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "second" {
		t.Fatalf("Get() = %q, want %q", got, "second")
	}
	if _, err := v.Get("other-service", "gmail"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("records leaked across services: %v", err)
	}
	if err := v.Delete(svc, "gmail"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := v.Delete(svc, "gmail"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestMemory_Contract(t *testing.T) {
	exerciseVault(t, NewMemory())
}

func TestKeyring_ContractWithMockProvider(t *testing.T) {
	keyring.MockInit()
	exerciseVault(t, NewKeyring())
}

func TestSQL_ContractInMemorySQLite(t *testing.T) {
	s, err := OpenSQL("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("OpenSQL() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	exerciseVault(t, s)
}

func TestSQL_AccountsAndPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "vault.db")
	s, err := OpenSQL("sqlite", path)
	if err != nil {
		t.Fatalf("OpenSQL() error = %v", err)
	}
	for _, acct := range []string{"work", "gmail"} {
		if err := s.Put("svc", acct, "x-"+acct); err != nil {
			t.Fatalf("Put(%s) error = %v", acct, err)
		}
	}
	if err := s.Put("other", "bank", "y"); err != nil {
		t.Fatalf("Put(other) error = %v", err)
	}
	_ = s.Close()

	s, err = OpenSQL("sqlite", path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = s.Close() }()
	accts, err := s.Accounts("svc")
	if err != nil {
		t.Fatalf("Accounts() error = %v", err)
	}
	if want := []string{"gmail", "work"}; !reflect.DeepEqual(accts, want) {
		t.Fatalf("Accounts() = %v, want %v", accts, want)
	}
	if v, err := s.Get("svc", "work"); err != nil || v != "x-work" {
		t.Fatalf("Get after reopen = %q, %v", v, err)
	}
}

func TestSQL_Maintain(t *testing.T) {
	s, err := OpenSQL("sqlite", filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("OpenSQL() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	if err := s.Put("svc", "a", "x"); err != nil {
		t.Fatal(err)
	}
	var m Maintainer = s
	if err := m.Maintain(context.Background()); err != nil {
		t.Fatalf("Maintain() error = %v", err)
	}
	if v, err := s.Get("svc", "a"); err != nil || v != "x" {
		t.Fatalf("record lost by maintenance: %q, %v", v, err)
	}

	if _, ok := Vault(NewMemory()).(Maintainer); ok {
		t.Fatal("memory vault should not claim maintenance support")
	}
}

func TestOpenSQL_RejectsUnknownType(t *testing.T) {
	if _, err := OpenSQL("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestMemory_FailOn(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")
	m.FailOn(OpPut, "gmail", boom)
	if err := m.Put("svc", "gmail", "x"); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if err := m.Put("svc", "work", "x"); err != nil {
		t.Fatalf("failure leaked to another account: %v", err)
	}
	m.ClearFailures()
	if err := m.Put("svc", "gmail", "x"); err != nil {
		t.Fatalf("Put after ClearFailures error = %v", err)
	}
	accts, _ := m.Accounts("svc")
	if want := []string{"gmail", "work"}; !reflect.DeepEqual(accts, want) {
		t.Fatalf("Accounts() = %v, want %v", accts, want)
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    any
		wantErr bool
	}{
		{"default is keyring", Config{}, &Keyring{}, false},
		{"memory", Config{Backend: "memory"}, &Memory{}, false},
		{"sql", Config{Backend: "sql", DBType: "sqlite", DSN: ":memory:"}, &SQL{}, false},
		{"unknown", Config{Backend: "floppy"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Open(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer func() { _ = Close(v) }()
			if reflect.TypeOf(v) != reflect.TypeOf(tt.want) {
				t.Fatalf("Open() returned %T, want %T", v, tt.want)
			}
		})
	}
}
