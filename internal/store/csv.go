// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ImportResult summarizes an Import. Errors holds one *FormatError per
// rejected row, or the reason a valid row was skipped.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// Export writes every entry as a header-less label,secret,created_at,expires_at
// row in index order and returns the number of rows written. An unreadable
// entry stops the export with an EntryError naming it; a partial backup is
// never reported as complete.
func (s *Store) Export(w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	n := 0
	for _, label := range s.idx.labels {
		e, err := s.Read(label)
		if err != nil {
			return n, EntryError{Label: label, Err: err}
		}
		if err := cw.Write([]string{e.Label, e.Secret, formatTime(&e.CreatedAt), formatTime(e.ExpiresAt)}); err != nil {
			return n, fmt.Errorf("%w: %w", ErrIO, err)
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return n, nil
}

// Import adds every row whose label is not already stored. Secrets are taken
// literally. Rows may also be the two-column label,secret form, in which case
// created_at is now. A vault failure aborts the import; rows imported before
// it stay.
func (s *Store) Import(r io.Reader) (ImportResult, error) {
	var res ImportResult
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Skipped++
				res.Errors = append(res.Errors, &FormatError{Line: pe.Line, Reason: pe.Err.Error()})
				continue
			}
			return res, fmt.Errorf("%w: %w", ErrIO, err)
		}
		line, _ := cr.FieldPos(0)

		e, ferr := s.parseRow(row, line)
		if ferr != nil {
			res.Skipped++
			res.Errors = append(res.Errors, ferr)
			continue
		}
		if s.idx.contains(e.Label) {
			res.Skipped++
			continue
		}
		if err := s.insert(e); err != nil {
			if errors.Is(err, ErrDuplicateLabel) {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
				continue
			}
			return res, err
		}
		res.Imported++
	}
	return res, nil
}

func (s *Store) parseRow(row []string, line int) (Entry, error) {
	if len(row) != 2 && len(row) != 4 {
		return Entry{}, &FormatError{Line: line, Reason: fmt.Sprintf("expected 2 or 4 fields, got %d", len(row))}
	}
	label := strings.TrimSpace(row[0])
	if label == "" {
		return Entry{}, &FormatError{Line: line, Reason: "empty label"}
	}
	if label == IndexAccount {
		return Entry{}, &FormatError{Line: line, Reason: fmt.Sprintf("label %q is reserved", label)}
	}
	if row[1] == "" {
		return Entry{}, &FormatError{Line: line, Reason: "empty secret"}
	}
	e := Entry{Label: label, Secret: row[1], Kind: KindCustom, CreatedAt: s.clock.Now().UTC()}
	if len(row) == 2 {
		return e, nil
	}

	if v := strings.TrimSpace(row[2]); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Entry{}, &FormatError{Line: line, Reason: fmt.Sprintf("invalid created_at %q", v)}
		}
		e.CreatedAt = t.UTC()
	}
	if v := strings.TrimSpace(row[3]); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Entry{}, &FormatError{Line: line, Reason: fmt.Sprintf("invalid expires_at %q", v)}
		}
		t = t.UTC()
		e.ExpiresAt = &t
		e.Kind = KindOTP
	}
	return e, nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
