// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/toeirei/apppass/internal/clipboard"
	"github.com/toeirei/apppass/internal/config"
	"github.com/toeirei/apppass/internal/generator"
	"github.com/toeirei/apppass/internal/i18n"
	"github.com/toeirei/apppass/internal/logging"
	"github.com/toeirei/apppass/internal/security"
	"github.com/toeirei/apppass/internal/session"
	"github.com/toeirei/apppass/internal/store"
	"golang.org/x/term"
)

// Seams replaced by tests. The CLI exits right after copying, so there is
// no auto-clear here.
var (
	copyToClipboard = func(text string) error { return clipboard.NewManager(0).Copy(text) }
	readPassword    = readTerminalPassword
)

// run dispatches to the single action selected by the flags. No action
// starts the interactive UI.
func run(cmd *cobra.Command, a *app, o *options) error {
	out := cmd.OutOrStdout()
	st := a.store

	// 0 means "use the default" in the store, so an explicit 0 is caught here.
	if cmd.Flags().Changed("length") && o.length < 1 {
		return fmt.Errorf("%w: %d", store.ErrInvalidLength, o.length)
	}
	if cmd.Flags().Changed("ttl") && o.ttl < 1 {
		return fmt.Errorf("%w: %ds", store.ErrInvalidTTL, o.ttl)
	}

	switch {
	case o.app != "":
		e, err := st.Create(o.app, store.PolicyRandom, store.Params{Length: o.length})
		if err != nil {
			return err
		}
		return emitSecret(out, e, o.copy, i18n.T("cli.created", e.Label))

	case o.memorizable != "":
		e, err := st.Create(o.memorizable, store.PolicyMemorable, store.Params{})
		if err != nil {
			return err
		}
		return emitSecret(out, e, o.copy, i18n.T("cli.created_memorable", e.Label, generator.MemorableEntropyBits()))

	case o.otp != "":
		e, err := st.Create(o.otp, store.PolicyOTP, store.Params{TTL: time.Duration(o.ttl) * time.Second})
		if err != nil {
			return err
		}
		return emitSecret(out, e, o.copy, i18n.T("cli.created_otp", e.Label, formatTime(e.ExpiresAt)))

	case o.custom != "":
		secret, err := literalSecret(cmd, o)
		if err != nil {
			return err
		}
		e, err := st.Create(o.custom, store.PolicyCustom, store.Params{Secret: secret})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, i18n.T("cli.stored", e.Label))
		return nil

	case o.get != "":
		return getSecret(cmd, st, o)

	case o.update != "":
		policy, params := store.PolicyRandom, store.Params{Length: o.length}
		if o.password != "" || o.prompt {
			secret, err := literalSecret(cmd, o)
			if err != nil {
				return err
			}
			policy, params = store.PolicyCustom, store.Params{Secret: secret}
		}
		e, err := st.Update(o.update, policy, params)
		if err != nil {
			return err
		}
		if policy == store.PolicyCustom {
			fmt.Fprintln(out, i18n.T("cli.updated", e.Label))
			return nil
		}
		return emitSecret(out, e, o.copy, i18n.T("cli.updated", e.Label))

	case o.del != "":
		if err := st.Delete(o.del); err != nil {
			return err
		}
		fmt.Fprintln(out, i18n.T("cli.deleted", strings.TrimSpace(o.del)))
		return nil

	case o.list:
		return listEntries(cmd, st)

	case o.export != "":
		n, err := st.ExportFile(o.export)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, i18n.T("cli.exported", n, o.export))
		return nil

	case o.imp != "":
		return importFile(cmd, st, o.imp)

	case o.check:
		return checkDrift(cmd, st)

	case o.purge:
		purged, err := st.PurgeExpired()
		if len(purged) > 0 {
			fmt.Fprintln(out, i18n.T("cli.purged", len(purged), strings.Join(purged, ", ")))
		} else if err == nil {
			fmt.Fprintln(out, i18n.T("cli.purged_none"))
		}
		return err

	default:
		return runInteractive(a, o)
	}
}

// emitSecret prints a freshly generated secret, or copies it when asked.
func emitSecret(out io.Writer, e store.Entry, toClipboard bool, headline string) error {
	if toClipboard {
		if err := copyToClipboard(e.Secret); err != nil {
			return err
		}
		fmt.Fprintln(out, headline)
		fmt.Fprintln(out, i18n.T("cli.copied"))
		return nil
	}
	fmt.Fprintln(out, headline)
	fmt.Fprintln(out, e.Secret)
	return nil
}

func getSecret(cmd *cobra.Command, st *store.Store, o *options) error {
	e, err := st.Read(o.get)
	if err != nil {
		return err
	}
	if e.Expired(appClock.Now()) {
		return errors.New(i18n.T("cli.err_expired", e.Label, formatTime(e.ExpiresAt)))
	}
	if o.copy {
		if err := copyToClipboard(e.Secret); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.copied"))
		return nil
	}
	// Only the secret, so the output can be piped.
	fmt.Fprintln(cmd.OutOrStdout(), e.Secret)
	return nil
}

func listEntries(cmd *cobra.Command, st *store.Store) error {
	entries, failures := st.List()
	out := cmd.OutOrStdout()

	if len(entries) == 0 && len(failures) == 0 {
		fmt.Fprintln(out, i18n.T("cli.list_empty"))
		return nil
	}

	if len(entries) > 0 {
		now := appClock.Now()
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(i18n.T("cli.col_label"), i18n.T("cli.col_kind"), i18n.T("cli.col_created"), i18n.T("cli.col_expires"))
		for _, e := range entries {
			expires := formatTime(e.ExpiresAt)
			if e.Expired(now) {
				expires += " " + i18n.T("list.expired")
			}
			created := formatTime(&e.CreatedAt)
			t.Row(e.Label, i18n.T("kind."+string(e.Kind)), created, expires)
		}
		fmt.Fprintln(out, t.String())
	}

	if len(failures) == 0 {
		return nil
	}
	errOut := cmd.ErrOrStderr()
	for _, f := range failures {
		fmt.Fprintln(errOut, i18n.T("cli.list_failure", f.Label, session.ErrorText(f.Err)))
	}
	return errors.New(i18n.T("cli.err_list_failures", len(failures)))
}

func importFile(cmd *cobra.Command, st *store.Store, path string) error {
	res, err := st.ImportFile(path)
	errOut := cmd.ErrOrStderr()
	for _, rowErr := range res.Errors {
		fmt.Fprintln(errOut, rowErr)
	}
	if err != nil {
		return errors.New(i18n.T("status.import_aborted", res.Imported, session.ErrorText(err)))
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("status.imported", res.Imported, res.Skipped))
	return nil
}

func checkDrift(cmd *cobra.Command, st *store.Store) error {
	report, err := st.Check()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !report.Listed {
		fmt.Fprintln(out, i18n.T("cli.check_unlisted"))
	}
	if report.Clean() {
		fmt.Fprintln(out, i18n.T("cli.check_clean", st.Len()))
		return nil
	}
	for _, l := range report.MissingRecords {
		fmt.Fprintln(out, i18n.T("cli.check_missing", l))
	}
	for _, l := range report.Unindexed {
		fmt.Fprintln(out, i18n.T("cli.check_unindexed", l))
	}
	return errors.New(i18n.T("cli.err_drift", len(report.MissingRecords)+len(report.Unindexed)))
}

// literalSecret returns the --password value, or reads it when --prompt is set.
func literalSecret(cmd *cobra.Command, o *options) (string, error) {
	if !o.prompt {
		return o.password, nil
	}
	return readPassword(cmd)
}

// readTerminalPassword reads a secret without echo. When stdin is not a
// terminal the first line of input is used instead.
func readTerminalPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), i18n.T("cli.password_prompt"))
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	sec := security.FromBytes(raw)
	for i := range raw {
		raw[i] = 0
	}
	defer sec.Zero()

	var secret string
	_ = sec.Use(func(b []byte) error {
		secret = string(b)
		return nil
	})
	return secret, nil
}

// runInteractive starts the UI. Logs go to a file while the alternate
// screen is active.
func runInteractive(a *app, o *options) error {
	if path, err := config.GetConfigPath(false); err == nil {
		restore, err := logging.ToFile(filepath.Join(filepath.Dir(path), "apppass.log"))
		if err != nil {
			logging.Warnf("could not redirect log to file: %v", err)
		} else {
			defer restore()
		}
	}

	opts := session.Options{
		LockTimeout:      a.cfg.LockTimeout(),
		Clock:            appClock,
		ClipboardTimeout: a.cfg.ClipboardTimeout(),
		Settings:         settingsFile{path: o.configFile},
	}
	if clipboard.Available() {
		cb := clipboard.NewManager(a.cfg.ClipboardTimeout())
		defer cb.Close()
		defer func() {
			if err := cb.ClearNow(); err != nil {
				logging.Warnf("%v", err)
			}
		}()
		opts.Clipboard = cb
	} else {
		logging.Infof("no clipboard utility found; copy is disabled")
	}

	logging.Infof("starting UI with %d credentials", a.store.Len())
	return runUI(session.New(a.store, opts), appClock)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
