// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFlattenYAMLAndLoadKeys(t *testing.T) {
	m := map[string]any{
		"top": map[string]any{
			"sub": "value",
			"arr": []any{"one", "two"},
		},
		"flat.key": "v",
	}
	keys := make(map[string]struct{})
	flattenYAML("", m, keys)
	for _, want := range []string{"top.sub", "top.arr[0]", "flat.key"} {
		if _, ok := keys[want]; !ok {
			t.Fatalf("expected %s in keys", want)
		}
	}

	p := filepath.Join(t.TempDir(), "test.yaml")
	data, _ := yaml.Marshal(m)
	if err := os.WriteFile(p, data, 0600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	got, err := loadKeysFromLocale(p)
	if err != nil {
		t.Fatalf("loadKeysFromLocale failed: %v", err)
	}
	if _, ok := got["top.sub"]; !ok {
		t.Fatalf("expected loaded key top.sub")
	}
}

// writeTree lays out a tiny module with one source file and two locales.
func writeTree(t *testing.T, src, en, de string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"pkg/a.go":        src,
		"pkg/a_test.go":   `package pkg; var _ = i18n.T("test.only")`,
		"tools/x/main.go": `package main; var _ = i18n.T("tool.key")`,
		"locales/en.yaml": en,
		"locales/de.yaml": de,
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFindUsedKeys(t *testing.T) {
	dir := writeTree(t, `package pkg
var items = []string{"menu.create", "apppass.yaml"}
func f() {
	_ = i18n.T("status.locked")
	_ = i18n.T("title." + mode)
}`, "", "")

	used, err := findUsedKeys(dir)
	if err != nil {
		t.Fatalf("findUsedKeys failed: %v", err)
	}
	for _, want := range []string{"status.locked", "menu.create"} {
		if _, ok := used[want]; !ok {
			t.Fatalf("expected %s in used keys, got %v", want, used)
		}
	}
	for _, unwanted := range []string{"title.", "test.only", "tool.key", "apppass.yaml"} {
		if _, ok := used[unwanted]; ok {
			t.Fatalf("did not expect %s in used keys", unwanted)
		}
	}
}

func TestLint(t *testing.T) {
	src := `package pkg
func f() {
	_ = i18n.T("status.locked")
	_ = i18n.T("kind." + k)
}`
	tests := []struct {
		name     string
		en, de   string
		problems int
		mention  string
	}{
		{"consistent", "status.locked: a\nkind.otp: b\n", "status.locked: x\nkind.otp: y\n", 0, "consistent"},
		{"undefined", "kind.otp: b\n", "kind.otp: y\n", 1, "Undefined: status.locked"},
		{"missing translation", "status.locked: a\n", "{}\n", 1, "Missing: status.locked"},
		{"orphan is a warning", "status.locked: a\nold.key: b\n", "status.locked: x\nold.key: y\n", 0, "Orphaned: old.key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, src, tt.en, tt.de)
			var out bytes.Buffer
			if got := lint(&out, dir, filepath.Join(dir, "locales")); got != tt.problems {
				t.Fatalf("lint() = %d problems, want %d\n%s", got, tt.problems, out.String())
			}
			if !strings.Contains(out.String(), tt.mention) {
				t.Fatalf("report does not mention %q:\n%s", tt.mention, out.String())
			}
		})
	}
}

func TestRepositoryLocalesAreConsistent(t *testing.T) {
	root := filepath.Join("..", "..")
	var out bytes.Buffer
	if n := lint(&out, root, filepath.Join(root, localesDir)); n != 0 {
		t.Fatalf("repository has %d i18n problems:\n%s", n, out.String())
	}
}
