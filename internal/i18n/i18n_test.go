// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"bytes"
	"io/fs"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := GetAvailableLocales()
	want := map[string]string{"en": "English", "de": "Deutsch"}
	for tag, name := range want {
		if av[tag] != name {
			t.Fatalf("expected locale %q with name %q, got %q", tag, name, av[tag])
		}
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")
	t.Cleanup(func() { Init("en") })

	if got := T("menu.list"); got != "List credentials" {
		t.Fatalf("expected 'List credentials', got %q", got)
	}

	// fmt-style formatting via non-map args
	if got := T("status.imported", 3, 1); got != "Imported 3 credentials, skipped 1." {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	SetLang("de")
	if GetLang() != "de" {
		t.Fatalf("expected lang 'de', got %q", GetLang())
	}
	if got := T("menu.list"); got != "Zugangsdaten anzeigen" {
		t.Fatalf("expected German translation, got %q", got)
	}
}

func TestT_FallbacksAndTemplateData(t *testing.T) {
	Init("fr")
	t.Cleanup(func() { Init("en") })

	if got := T("help.quit"); got != "quit" {
		t.Fatalf("unknown language should fall back to English, got %q", got)
	}
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("missing message should return its ID, got %q", got)
	}
	if got := T("title.main", map[string]any{"Unused": 1}); got != "Apppass" {
		t.Fatalf("template data call returned %q", got)
	}
}

// TestLocalesHaveSameKeys keeps every translation complete.
func TestLocalesHaveSameKeys(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := fs.ReadFile(localeFS, "locales/"+name)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		out := map[string]string{}
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
			t.Fatalf("parsing %s: %v", name, err)
		}
		return out
	}

	en := load("en.yaml")
	de := load("de.yaml")
	for id := range en {
		if _, ok := de[id]; !ok {
			t.Errorf("de.yaml is missing %q", id)
		}
	}
	for id := range de {
		if _, ok := en[id]; !ok {
			t.Errorf("en.yaml has no %q", id)
		}
	}
}
