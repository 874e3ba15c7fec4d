// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// compressed reports whether path names a zstd archive.
func compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// ExportFile exports to path. The file is written to a temporary sibling
// with mode 0600 and renamed into place, so a failed export never leaves a
// truncated file behind.
func (s *Store) ExportFile(path string) (n int, err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".apppass-export-*")
	if err != nil {
		return 0, fmt.Errorf("%w: could not create file: %w", ErrIO, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = tmp.Chmod(0o600); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	var w io.Writer = tmp
	var zw *zstd.Encoder
	if compressed(path) {
		if zw, err = zstd.NewWriter(tmp); err != nil {
			return 0, fmt.Errorf("%w: could not create zstd writer: %w", ErrIO, err)
		}
		w = zw
	}

	if n, err = s.Export(w); err != nil {
		if zw != nil {
			_ = zw.Close()
		}
		return n, err
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return n, fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	if err = tmp.Sync(); err != nil {
		return n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		return n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return n, nil
}

// ImportFile imports from path, decompressing .zst archives.
func (s *Store) ImportFile(path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: could not open file: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if compressed(path) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return ImportResult{}, fmt.Errorf("%w: could not create zstd reader: %w", ErrIO, err)
		}
		defer zr.Close()
		r = zr
	}
	return s.Import(r)
}
