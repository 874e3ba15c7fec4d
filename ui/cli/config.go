// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/apppass/internal/config"
	"github.com/toeirei/apppass/internal/i18n"
)

// settingsFile saves settings changed in the UI to the --config file, or to
// the user config file when none was given. Only the file's own values are
// rewritten, so flags of the current run are not persisted.
type settingsFile struct {
	path string
}

func (s settingsFile) SaveDefaultLength(n int) error {
	var configFile *string
	if s.path != "" {
		configFile = &s.path
	}
	cfg, err := config.LoadConfig[config.Config](nil, config.Defaults(), configFile, nil)
	if err != nil {
		return err
	}
	cfg.Generator.DefaultLength = n
	if s.path != "" {
		return config.WriteConfigFileTo(&cfg, s.path)
	}
	_, err = config.WriteConfigFile(&cfg, false)
	return err
}

// newConfigCmd builds `apppass config` with its init and path subcommands.
func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or locate the configuration file",
	}

	var system, force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Long: `Writes the configuration currently in effect (defaults, file,
environment and flags merged) as YAML to the user config path, or to the
system path with --system. An existing file is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			path, err := config.GetConfigPath(system)
			if err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return errors.New(i18n.T("cli.err_config_exists", path))
				}
			}
			if _, err := config.WriteConfigFile(&cfg, system); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.config_written", path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&system, "system", false, "write the system-wide file instead of the user file")
	initCmd.Flags().BoolVar(&force, "force", false, "replace an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the user and system config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, system := range []bool{false, true} {
				p, err := config.GetConfigPath(system)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}
