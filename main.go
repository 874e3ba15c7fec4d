// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Apppass.
//
// Usage:
//
//	go run . [flags]
//	./apppass [flags]
//
// Without an action flag this starts the interactive UI. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/apppass/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
