// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"sort"
	"sync"
)

// Op names a vault operation for failure injection.
type Op int

const (
	OpPut Op = iota
	OpGet
	OpDelete
)

type recordKey struct {
	service string
	account string
}

type failureKey struct {
	op      Op
	account string
}

// Memory is an in-process vault. Tests use FailOn to make individual
// operations fail for a given account.
type Memory struct {
	mu       sync.Mutex
	records  map[recordKey]string
	failures map[failureKey]error
}

// NewMemory returns an empty in-memory vault.
func NewMemory() *Memory {
	return &Memory{
		records:  make(map[recordKey]string),
		failures: make(map[failureKey]error),
	}
}

// FailOn makes op on account return err until ClearFailures is called.
func (m *Memory) FailOn(op Op, account string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[failureKey{op, account}] = err
}

// ClearFailures removes every injected failure.
func (m *Memory) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = make(map[failureKey]error)
}

func (m *Memory) Put(service, account, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[failureKey{OpPut, account}]; err != nil {
		return err
	}
	m.records[recordKey{service, account}] = secret
	return nil
}

func (m *Memory) Get(service, account string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[failureKey{OpGet, account}]; err != nil {
		return "", err
	}
	v, ok := m.records[recordKey{service, account}]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Delete(service, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[failureKey{OpDelete, account}]; err != nil {
		return err
	}
	k := recordKey{service, account}
	if _, ok := m.records[k]; !ok {
		return ErrNotFound
	}
	delete(m.records, k)
	return nil
}

// Accounts lists the accounts stored under service, sorted.
func (m *Memory) Accounts(service string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.records {
		if k.service == service {
			out = append(out, k.account)
		}
	}
	sort.Strings(out)
	return out, nil
}
