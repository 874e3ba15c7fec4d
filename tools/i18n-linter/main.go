// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter is a tool to check for missing or orphaned translation keys.
// It scans the Go source code for i18n.T() calls and message IDs in string
// literals and compares them against the YAML locale files.
//
// Usage (from the repository root):
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// dynamicPrefixes are built at runtime ("title." + mode, "kind." + kind), so
// keys under them count as used.
var dynamicPrefixes = []string{"title.", "kind."}

// keyRe finds i18n.T("some.key") calls and string literals in one of the
// message namespaces (e.g. in menu tables).
var keyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"|"((?:menu|status|cli|help|field|placeholder|title|kind|view|list|footer|locked)\.[a-z_]+)"`)

func main() {
	if lint(os.Stdout, projectRoot, localesDir) > 0 {
		os.Exit(1)
	}
}

// lint prints a report and returns the number of blocking problems: IDs used
// in code but absent from the primary locale, and IDs missing from other
// locales. Orphaned IDs are only a warning.
func lint(w io.Writer, root, locales string) int {
	fmt.Fprintln(w, "🔍 Running i18n linter...")
	problems := 0

	used, err := findUsedKeys(root)
	if err != nil {
		fmt.Fprintf(w, "❌ Error finding used keys: %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "✅ Found %d unique translation keys used in source code.\n", len(used))

	primary, err := loadKeysFromLocale(filepath.Join(locales, primaryLocale))
	if err != nil {
		fmt.Fprintf(w, "❌ Error loading primary locale '%s': %v\n", primaryLocale, err)
		return 1
	}
	fmt.Fprintf(w, "✅ Loaded %d keys from primary locale (%s).\n\n", len(primary), primaryLocale)

	fmt.Fprintln(w, "--- Checking for Undefined Keys (used in code but not in primary locale) ---")
	undefined := difference(used, primary)
	for _, key := range undefined {
		fmt.Fprintf(w, "  - Undefined: %s\n", key)
	}
	problems += len(undefined)
	reportNone(w, len(undefined))

	fmt.Fprintln(w, "--- Checking for Orphaned Keys (in primary locale but not used in code) ---")
	var orphaned []string
	for _, key := range difference(primary, used) {
		if !hasDynamicPrefix(key) {
			orphaned = append(orphaned, key)
		}
	}
	for _, key := range orphaned {
		fmt.Fprintf(w, "  - Orphaned: %s\n", key)
	}
	reportNone(w, len(orphaned))

	fmt.Fprintln(w, "--- Checking for Missing Keys (in primary locale but not in others) ---")
	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		fmt.Fprintf(w, "❌ Error finding locale files: %v\n", err)
		return problems + 1
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		fmt.Fprintf(w, "Checking %s:\n", file)
		secondary, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Fprintf(w, "  - ❌ Error loading %s: %v\n", file, err)
			problems++
			continue
		}
		missing := difference(primary, secondary)
		for _, key := range missing {
			fmt.Fprintf(w, "  - Missing: %s\n", key)
		}
		problems += len(missing)
		if len(missing) == 0 {
			fmt.Fprintln(w, "  ✨ All keys present.")
		}
	}

	fmt.Fprintln(w, "\n--- Linter Finished ---")
	switch {
	case problems > 0:
		fmt.Fprintln(w, "❌ Found issues that need to be addressed.")
	case len(orphaned) > 0:
		fmt.Fprintln(w, "⚠️  Found orphaned keys. Please consider removing them.")
	default:
		fmt.Fprintln(w, "✅ All translation files are consistent!")
	}
	return problems
}

func reportNone(w io.Writer, n int) {
	if n == 0 {
		fmt.Fprintln(w, "  ✨ None found.")
	}
	fmt.Fprintln(w)
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for key := range a {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func hasDynamicPrefix(key string) bool {
	for _, p := range dynamicPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// findUsedKeys scans all non-test .go files below root, skipping tools/.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			switch info.Name() {
			case "tools", "_examples", ".git":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, match := range keyRe.FindAllStringSubmatch(string(content), -1) {
			// match[1] is from i18n.T(), match[2] from a bare literal.
			key := match[1]
			if key == "" {
				key = match[2]
			}
			// A trailing dot marks a dynamic prefix like "title." + mode.
			if key != "" && !strings.HasSuffix(key, ".") {
				keys[key] = struct{}{}
			}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into a flat map with dot-separated keys.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	case []any:
		for i, val := range v {
			flattenYAML(fmt.Sprintf("%s[%d]", prefix, i), val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
