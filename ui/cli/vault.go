// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/vault"
)

// newVaultCmd builds `apppass vault` for backend housekeeping.
func newVaultCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Vault backend housekeeping",
	}

	var timeout int
	maintainCmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run database maintenance on the sql vault",
		Long: `Runs engine-specific maintenance on the sql vault: PRAGMA optimize,
VACUUM and an integrity check for SQLite, VACUUM ANALYZE for Postgres and
OPTIMIZE TABLE for MySQL. Other backends have nothing to maintain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			v, err := openVault(vault.Config{Backend: cfg.Vault.Backend, DBType: cfg.Vault.DBType, DSN: cfg.Vault.DSN})
			if err != nil {
				return err
			}
			defer func() { _ = vault.Close(v) }()

			m, ok := v.(vault.Maintainer)
			if !ok {
				return errors.New(i18n.T("cli.err_no_maintenance", cfg.Vault.Backend))
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
				defer cancel()
			}
			if err := m.Maintain(ctx); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.maintained", cfg.Vault.DBType))
			return nil
		},
	}
	maintainCmd.Flags().IntVar(&timeout, "timeout", 120, "timeout in seconds (0 means no timeout)")

	cmd.AddCommand(maintainCmd)
	return cmd
}
