// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, its flags and the shared startup path
// (config, i18n, logging, vault) used by every action.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/apppass/buildvars"
	"github.com/toeirei/apppass/internal/clock"
	"github.com/toeirei/apppass/internal/config"
	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/logging"
	"github.com/toeirei/apppass/internal/session"
	"github.com/toeirei/apppass/internal/store"
	"github.com/toeirei/apppass/internal/tui"
	"github.com/toeirei/apppass/internal/vault"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

// Seams replaced by tests.
var (
	openVault = vault.Open
	runUI     = tui.Run
	appClock  = clock.Real()
)

// flagBindings maps config keys to the root flags that override them.
var flagBindings = map[string]string{
	"vault.backend": "vault",
	"vault.dsn":     "dsn",
	"vault.db_type": "db-type",
	"lock.timeout":  "lock",
	"language":      "lang",
}

// options holds the parsed flags of one root command instance.
type options struct {
	app         string
	get         string
	list        bool
	del         string
	update      string
	export      string
	imp         string
	otp         string
	memorizable string
	custom      string
	check       bool
	purge       bool
	ui          bool

	length   int
	ttl      int
	password string
	prompt   bool
	copy     bool

	configFile string
	verbose    bool
}

// actionCount returns how many mutually exclusive action flags are set.
func (o *options) actionCount() int {
	n := 0
	for _, set := range []bool{
		o.app != "", o.get != "", o.list, o.del != "", o.update != "",
		o.export != "", o.imp != "", o.otp != "", o.memorizable != "",
		o.custom != "", o.check, o.purge, o.ui,
	} {
		if set {
			n++
		}
	}
	return n
}

// app bundles what an action needs after startup.
type app struct {
	cfg   config.Config
	vault vault.Vault
	store *store.Store
}

func (a *app) close() {
	if err := vault.Close(a.vault); err != nil {
		logging.Warnf("closing vault: %v", err)
	}
}

// loadConfig resolves the effective configuration for cmd and prepares
// i18n and logging. It does not touch the vault.
func loadConfig(cmd *cobra.Command, o *options) (config.Config, error) {
	if o.verbose {
		logging.SetDebug(true)
	}

	var configFile *string
	if cmd.Flags().Changed("config") && o.configFile != "" {
		if _, err := os.Stat(o.configFile); err != nil {
			return config.Config{}, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		configFile = &o.configFile
	}

	cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), configFile, flagBindings)
	if err != nil {
		return cfg, fmt.Errorf("error loading config: %w", err)
	}
	i18n.Init(cfg.Language)
	if err := cfg.Validate(); err != nil {
		return cfg, errors.New(i18n.T("cli.err_config", err))
	}
	logging.Debugf("config: backend=%s db_type=%s lock=%ds", cfg.Vault.Backend, cfg.Vault.DBType, cfg.Lock.Timeout)
	return cfg, nil
}

// openApp opens the configured vault and the store on top of it.
func openApp(cfg config.Config) (*app, error) {
	v, err := openVault(vault.Config{
		Backend: cfg.Vault.Backend,
		DBType:  cfg.Vault.DBType,
		DSN:     cfg.Vault.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrVaultUnavailable, err)
	}
	st, err := store.Open(v, store.Options{
		DefaultLength: cfg.Generator.DefaultLength,
		DefaultTTL:    cfg.OTPTTL(),
		Clock:         appClock,
	})
	if err != nil {
		_ = vault.Close(v)
		return nil, err
	}
	return &app{cfg: cfg, vault: v, store: st}, nil
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logging.Errorf("%s", session.ErrorText(err))
		return err
	}
	return nil
}

// NewRootCmd creates and configures a new root cobra command.
// Every call returns an independent command with its own flag values,
// which keeps tests isolated.
func NewRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "apppass",
		Short: "Apppass generates and keeps application passwords in your OS keyring.",
		Long: `Apppass creates random, memorable and one-time passwords for the
applications you use and stores them in the operating system's secure
credential store (or an SQL database). Secrets can be listed, read,
updated, deleted and moved between machines as CSV.

Running without an action flag launches the interactive UI.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.actionCount() > 1 {
				return errors.New(i18n.T("cli.err_multiple_actions"))
			}
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()
			return run(cmd, a, o)
		},
	}
	cmd.Version = compositeVersion()
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&o.app, "app", "", "create a random password for `label`")
	f.StringVar(&o.get, "get", "", "print the secret stored for `label`")
	f.BoolVar(&o.list, "list", false, "list all stored labels")
	f.StringVar(&o.del, "delete", "", "delete the credential `label`")
	f.StringVar(&o.update, "update", "", "replace the secret of `label` (random unless --password is given)")
	f.StringVar(&o.export, "export", "", "export all credentials as CSV to `file` (.zst compresses)")
	f.StringVar(&o.imp, "import", "", "import credentials from the CSV `file` (.zst decompresses)")
	f.StringVar(&o.otp, "otp", "", "create a one-time password for `label`")
	f.StringVar(&o.memorizable, "memorizable", "", "create a memorable password for `label`")
	f.StringVar(&o.custom, "custom", "", "store the --password literal under `label`")
	f.BoolVar(&o.check, "check", false, "report disagreements between the index and the vault")
	f.BoolVar(&o.purge, "purge-expired", false, "delete expired one-time passwords")
	f.BoolVar(&o.ui, "ui", false, "start the interactive UI")

	f.IntVar(&o.length, "length", 0, "password length for --app and --update (default from config)")
	f.IntVar(&o.ttl, "ttl", 0, "lifetime in `seconds` for --otp (default from config)")
	f.StringVar(&o.password, "password", "", "literal secret for --update and --custom")
	f.BoolVar(&o.prompt, "prompt", false, "read the literal secret from the terminal without echo")
	f.BoolVarP(&o.copy, "copy", "c", false, "copy the secret to the clipboard instead of printing it")
	f.Int("lock", 0, "auto-lock the UI after `seconds` idle (0 disables)")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "config file")
	pf.String("vault", "keyring", "vault backend (keyring, sql, memory)")
	pf.String("dsn", "", "database DSN for the sql vault")
	pf.String("db-type", "sqlite", "database type for the sql vault (sqlite, postgres, mysql)")
	pf.String("lang", "en", `language ("en", "de")`)
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	f.BoolP("version", "V", false, "print version and exit")

	cmd.AddCommand(newConfigCmd(o), newVaultCmd(o), newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion() string {
	return formatVersion(resolveBuildVersion(nil))
}

// formatVersion renders the one-line --version output. The commit is left
// out when it carries no extra information.
func formatVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" && c != v {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/apppass" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
