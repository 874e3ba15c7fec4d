// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Apppass using Cobra.
// It loads configuration, opens the vault and the credential store, and
// either runs one action flag or starts the interactive UI. Business logic
// stays in internal/store and internal/session.
package cli
