// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/toeirei/apppass/internal/clock"
	"github.com/toeirei/apppass/internal/store"
	"github.com/toeirei/apppass/internal/vault"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClipboard struct {
	content string
	cleared int
}

func (f *fakeClipboard) Copy(text string) error {
	f.content = text
	return nil
}

func (f *fakeClipboard) ClearNow() error {
	f.content = ""
	f.cleared++
	return nil
}

type fixture struct {
	s     *Session
	store *store.Store
	mem   *vault.Memory
	clk   *clock.FakeClock
	clip  *fakeClipboard
}

func newFixture(t *testing.T, lock time.Duration) *fixture {
	t.Helper()
	mem := vault.NewMemory()
	clk := clock.Fake(epoch)
	st, err := store.Open(mem, store.Options{Clock: clk})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	clip := &fakeClipboard{}
	s := New(st, Options{LockTimeout: lock, Clock: clk, Clipboard: clip, ClipboardTimeout: 30 * time.Second})
	return &fixture{s: s, store: st, mem: mem, clk: clk, clip: clip}
}

func (f *fixture) keys(keys ...Key) {
	for _, k := range keys {
		f.s.Update(KeyEvent(k))
	}
}

func (f *fixture) typeText(text string) {
	for _, r := range text {
		f.s.Update(RuneEvent(r))
	}
}

func (f *fixture) openMenuItem(t *testing.T, m Mode) {
	t.Helper()
	for f.s.MenuItems()[f.s.Selected()].Mode != m {
		f.keys(KeyDown)
	}
	f.keys(KeyEnter)
	if f.s.Mode() != m {
		t.Fatalf("expected mode %s, got %s", m, f.s.Mode())
	}
}

func TestMenu_DownKTimesThenEnter(t *testing.T) {
	n := len(menuItems)
	for k := 0; k < 2*n+1; k++ {
		f := newFixture(t, 0)
		for i := 0; i < k; i++ {
			f.keys(KeyDown)
		}
		f.keys(KeyEnter)
		if want := menuItems[k%n].Mode; f.s.Mode() != want {
			t.Fatalf("Down x%d, Enter: mode = %s, want %s", k, f.s.Mode(), want)
		}
	}
}

func TestMenu_UpWraps(t *testing.T) {
	f := newFixture(t, 0)
	f.keys(KeyUp)
	if f.s.Selected() != len(menuItems)-1 {
		t.Fatalf("Up from top selected %d", f.s.Selected())
	}
}

func TestMenu_QuitKeys(t *testing.T) {
	for _, ev := range []Event{RuneEvent('q'), KeyEvent(KeyEsc)} {
		f := newFixture(t, 0)
		f.s.Update(ev)
		if !f.s.ShouldQuit() {
			t.Fatalf("event %+v did not quit", ev)
		}
	}
}

func TestCreateFlow(t *testing.T) {
	f := newFixture(t, 0)
	f.openMenuItem(t, ModeCreate)

	f.typeText("gmail")
	f.keys(KeyTab)
	f.typeText("20")
	if role, _ := f.s.ActiveField(); role != FieldLength {
		t.Fatalf("active field = %v after Tab", role)
	}
	f.keys(KeyEnter)

	st, ok := f.s.Status()
	if !ok || st.Severity != SeveritySuccess {
		t.Fatalf("status = %+v, %v", st, ok)
	}
	e, err := f.store.Read("gmail")
	if err != nil || len(e.Secret) != 20 {
		t.Fatalf("stored entry = %+v, %v", e, err)
	}
	if strings.Contains(st.Text, e.Secret) {
		t.Fatal("status line reveals the secret")
	}
	if f.s.Field(FieldLabel).Value() != "" || f.s.Field(FieldLength).Value() != "" {
		t.Fatal("fields not cleared after success")
	}
	if f.s.Mode() != ModeCreate {
		t.Fatalf("mode = %s after create", f.s.Mode())
	}
}

func TestCreate_FailureKeepsFields(t *testing.T) {
	f := newFixture(t, 0)
	if _, err := f.store.Create("gmail", store.PolicyRandom, store.Params{}); err != nil {
		t.Fatal(err)
	}
	f.openMenuItem(t, ModeCreate)
	f.typeText("gmail")
	f.keys(KeyEnter)

	st, _ := f.s.Status()
	if st.Severity != SeverityError {
		t.Fatalf("duplicate create status = %+v", st)
	}
	if f.s.Field(FieldLabel).Value() != "gmail" || f.s.Mode() != ModeCreate {
		t.Fatal("failure discarded fields or left the mode")
	}
	if f.store.Len() != 1 {
		t.Fatalf("Len() = %d", f.store.Len())
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		length string
	}{
		{"blank label", "   ", ""},
		{"non-numeric length", "a", "ten"},
		{"zero length", "a", "0"},
		{"too long", "a", "99999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			f.openMenuItem(t, ModeCreate)
			f.typeText(tt.label)
			f.keys(KeyTab)
			f.typeText(tt.length)
			f.keys(KeyEnter)
			if st, _ := f.s.Status(); st.Severity != SeverityError {
				t.Fatalf("status = %+v, want error", st)
			}
			if f.store.Len() != 0 {
				t.Fatal("invalid input created an entry")
			}
		})
	}
}

func TestEscFromFormDiscardsFieldsAndReturnsToItem(t *testing.T) {
	f := newFixture(t, 0)
	f.openMenuItem(t, ModeDelete)
	f.typeText("abc")
	f.keys(KeyEsc)
	if f.s.Mode() != ModeMenu {
		t.Fatalf("mode = %s", f.s.Mode())
	}
	if f.s.MenuItems()[f.s.Selected()].Mode != ModeDelete {
		t.Fatal("menu cursor not on the mode just left")
	}
	f.keys(KeyEnter)
	if f.s.Field(FieldLabel).Value() != "" {
		t.Fatal("field content survived Esc")
	}
}

func TestFieldEditing(t *testing.T) {
	f := newFixture(t, 0)
	f.openMenuItem(t, ModeMemorable)
	f.typeText("gmaxl")
	f.keys(KeyLeft, KeyBackspace)
	f.typeText("i")
	f.keys(KeyRight, KeyRight, KeyRight)
	field := f.s.Field(FieldLabel)
	if field.Value() != "gmail" {
		t.Fatalf("value = %q", field.Value())
	}
	if field.Cursor() != field.Len() {
		t.Fatalf("cursor %d not clamped to %d", field.Cursor(), field.Len())
	}
	f.keys(KeyEnter)
	e, err := f.store.Read("gmail")
	if err != nil || e.Kind != store.KindMemorable {
		t.Fatalf("memorable entry = %+v, %v", e, err)
	}
}

func TestOTPFlowAndExpiredView(t *testing.T) {
	f := newFixture(t, 0)
	f.openMenuItem(t, ModeOTP)
	f.typeText("bank")
	f.keys(KeyTab)
	f.typeText("60")
	f.keys(KeyEnter)
	if st, _ := f.s.Status(); st.Severity != SeveritySuccess {
		t.Fatalf("status = %+v", st)
	}

	f.keys(KeyEsc)
	f.openMenuItem(t, ModeList)
	f.keys(KeyEnter)
	if f.s.Mode() != ModeView || f.s.ViewingExpired() {
		t.Fatalf("fresh OTP view: mode %s expired %v", f.s.Mode(), f.s.ViewingExpired())
	}
	f.clk.Advance(time.Minute)
	if !f.s.ViewingExpired() {
		t.Fatal("OTP view not expired after ttl")
	}
	f.s.Update(RuneEvent('c'))
	if f.clip.content != "" {
		t.Fatal("expired OTP copied to clipboard")
	}
}

func TestListViewAndCopy(t *testing.T) {
	f := newFixture(t, 0)
	for _, l := range []string{"a", "b", "c"} {
		if _, err := f.store.Create(l, store.PolicyRandom, store.Params{}); err != nil {
			t.Fatal(err)
		}
	}
	f.openMenuItem(t, ModeList)
	if len(f.s.Entries()) != 3 {
		t.Fatalf("entries = %d", len(f.s.Entries()))
	}
	f.keys(KeyDown, KeyDown, KeyDown, KeyDown)
	if f.s.Selected() != 2 {
		t.Fatalf("Down did not clamp: selected %d", f.s.Selected())
	}
	f.keys(KeyUp)
	f.keys(KeyEnter)
	e, ok := f.s.Viewing()
	if !ok || e.Label != "b" {
		t.Fatalf("viewing %+v, %v", e, ok)
	}
	f.s.Update(RuneEvent('c'))
	if f.clip.content != e.Secret {
		t.Fatal("secret not copied")
	}
	f.keys(KeyEnter)
	if f.s.Mode() != ModeList {
		t.Fatalf("mode = %s after leaving view", f.s.Mode())
	}
	if _, ok := f.s.Viewing(); ok {
		t.Fatal("viewing still set in list mode")
	}
}

func TestListRefreshAndFailures(t *testing.T) {
	f := newFixture(t, 0)
	f.openMenuItem(t, ModeList)
	if len(f.s.Entries()) != 0 {
		t.Fatal("expected empty list")
	}
	f.keys(KeyEnter)
	if f.s.Mode() != ModeList {
		t.Fatal("Enter on empty list left the mode")
	}

	_, _ = f.store.Create("ok", store.PolicyRandom, store.Params{})
	_, _ = f.store.Create("broken", store.PolicyRandom, store.Params{})
	f.mem.FailOn(vault.OpGet, "broken", errors.New("locked"))
	f.s.Update(RuneEvent('r'))
	if len(f.s.Entries()) != 1 {
		t.Fatalf("entries after refresh = %d", len(f.s.Entries()))
	}
	st, _ := f.s.Status()
	if st.Severity != SeverityWarning || !strings.Contains(st.Text, "broken") {
		t.Fatalf("status = %+v", st)
	}
}

func TestUpdateFlow(t *testing.T) {
	f := newFixture(t, 0)
	orig, _ := f.store.Create("gmail", store.PolicyRandom, store.Params{})
	f.openMenuItem(t, ModeUpdate)

	f.typeText("gmail")
	f.keys(KeyTab)
	f.typeText("literal-secret")
	f.keys(KeyEnter)
	e, _ := f.store.Read("gmail")
	if e.Secret != "literal-secret" {
		t.Fatalf("secret = %q", e.Secret)
	}

	f.typeText("gmail")
	f.keys(KeyEnter)
	e, _ = f.store.Read("gmail")
	if e.Secret == "literal-secret" || e.Secret == orig.Secret || len(e.Secret) != f.store.DefaultLength() {
		t.Fatalf("empty new secret did not regenerate: %q", e.Secret)
	}

	f.typeText("missing")
	f.keys(KeyEnter)
	if st, _ := f.s.Status(); st.Severity != SeverityError {
		t.Fatalf("update of missing label status = %+v", st)
	}
}

func TestCustomFlow(t *testing.T) {
	f := newFixture(t, 0)
	f.openMenuItem(t, ModeCustom)
	if got := f.s.FieldOrder(); len(got) != 2 || got[0] != FieldLabel || got[1] != FieldSecret {
		t.Fatalf("field order = %v", got)
	}

	f.typeText("wifi")
	f.keys(KeyEnter)
	if st, _ := f.s.Status(); st.Severity != SeverityError || st.Text != "Password must not be empty." {
		t.Fatalf("empty secret status = %+v", st)
	}
	if role, _ := f.s.ActiveField(); role != FieldSecret {
		t.Fatalf("focus = %v, want secret field", role)
	}

	f.typeText("correct horse")
	f.keys(KeyEnter)
	e, err := f.store.Read("wifi")
	if err != nil || e.Secret != "correct horse" || e.Kind != store.KindCustom {
		t.Fatalf("Read() = %+v, %v", e, err)
	}
	if f.s.Field(FieldSecret).Value() != "" {
		t.Fatal("secret field not cleared after success")
	}

	f.typeText("wifi")
	f.keys(KeyTab)
	f.typeText("other")
	f.keys(KeyEnter)
	if st, _ := f.s.Status(); st.Severity != SeverityError || f.s.Mode() != ModeCustom {
		t.Fatalf("duplicate status = %+v mode %s", st, f.s.Mode())
	}
}

type fakeSettings struct {
	saved []int
	err   error
}

func (f *fakeSettings) SaveDefaultLength(n int) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, n)
	return nil
}

func (f *fixture) clearField(role FieldRole) {
	for f.s.Field(role).Len() > 0 {
		f.keys(KeyBackspace)
	}
}

func TestSettingsFlow(t *testing.T) {
	f := newFixture(t, 0)
	saver := &fakeSettings{}
	f.s.settings = saver

	f.openMenuItem(t, ModeSettings)
	if got := f.s.Field(FieldLength).Value(); got != "30" {
		t.Fatalf("length field prefilled with %q, want current default", got)
	}

	for _, bad := range []string{"0", "abc", "5000"} {
		f.clearField(FieldLength)
		f.typeText(bad)
		f.keys(KeyEnter)
		if st, _ := f.s.Status(); st.Severity != SeverityError || f.s.Mode() != ModeSettings {
			t.Fatalf("%q accepted: status %+v mode %s", bad, st, f.s.Mode())
		}
	}
	f.clearField(FieldLength)
	f.keys(KeyEnter)
	if f.s.Mode() != ModeSettings {
		t.Fatal("empty length accepted")
	}

	f.typeText("16")
	f.keys(KeyEnter)
	if f.s.Mode() != ModeMenu || f.s.MenuItems()[f.s.Selected()].Mode != ModeSettings {
		t.Fatalf("after save mode = %s selected %d", f.s.Mode(), f.s.Selected())
	}
	if st, _ := f.s.Status(); st.Severity != SeveritySuccess {
		t.Fatalf("status = %+v", st)
	}
	if f.store.DefaultLength() != 16 || len(saver.saved) != 1 || saver.saved[0] != 16 {
		t.Fatalf("default = %d saved = %v", f.store.DefaultLength(), saver.saved)
	}

	e, err := f.store.Create("new", store.PolicyRandom, store.Params{})
	if err != nil || len(e.Secret) != 16 {
		t.Fatalf("new secret %q, %v", e.Secret, err)
	}
}

func TestSettings_SaveFailureKeepsSessionValue(t *testing.T) {
	f := newFixture(t, 0)
	f.s.settings = &fakeSettings{err: errors.New("read-only")}
	f.openMenuItem(t, ModeSettings)
	f.clearField(FieldLength)
	f.typeText("20")
	f.keys(KeyEnter)

	st, _ := f.s.Status()
	if st.Severity != SeverityWarning || !strings.Contains(st.Text, "read-only") {
		t.Fatalf("status = %+v", st)
	}
	if f.store.DefaultLength() != 20 || f.s.Mode() != ModeMenu {
		t.Fatalf("default = %d mode = %s", f.store.DefaultLength(), f.s.Mode())
	}
}

func TestSettings_WithoutSaverAppliesForSession(t *testing.T) {
	f := newFixture(t, 0)
	f.openMenuItem(t, ModeSettings)
	f.clearField(FieldLength)
	f.typeText("24")
	f.keys(KeyEnter)
	if st, _ := f.s.Status(); st.Severity != SeverityInfo || f.store.DefaultLength() != 24 {
		t.Fatalf("status = %+v default = %d", st, f.store.DefaultLength())
	}
}

func TestDeleteFlow(t *testing.T) {
	f := newFixture(t, 0)
	_, _ = f.store.Create("gmail", store.PolicyRandom, store.Params{})
	f.openMenuItem(t, ModeDelete)
	f.typeText("gmail")
	f.keys(KeyEnter)
	if f.store.Len() != 0 {
		t.Fatal("entry not deleted")
	}
	if st, _ := f.s.Status(); st.Severity != SeveritySuccess {
		t.Fatalf("status = %+v", st)
	}
}

func TestExportImportFlow(t *testing.T) {
	f := newFixture(t, 0)
	_, _ = f.store.Create("a", store.PolicyRandom, store.Params{})
	path := filepath.Join(t.TempDir(), "out.csv")

	f.openMenuItem(t, ModeExport)
	f.typeText(path)
	f.keys(KeyEnter)
	if st, _ := f.s.Status(); st.Severity != SeveritySuccess {
		t.Fatalf("export status = %+v", st)
	}
	f.keys(KeyEsc)

	f.openMenuItem(t, ModeImport)
	f.typeText(path)
	f.keys(KeyEnter)
	st, _ := f.s.Status()
	if st.Severity != SeveritySuccess {
		t.Fatalf("import status = %+v", st)
	}
}

func TestAutoLockWipesState(t *testing.T) {
	f := newFixture(t, time.Minute)
	_, _ = f.store.Create("gmail", store.PolicyRandom, store.Params{})
	f.openMenuItem(t, ModeList)
	f.keys(KeyEnter)
	f.s.Update(RuneEvent('c'))

	f.clk.Advance(59 * time.Second)
	f.s.Update(TickEvent(f.clk.Now()))
	if f.s.Mode() == ModeLocked {
		t.Fatal("locked before threshold")
	}
	f.clk.Advance(time.Second)
	f.s.Update(TickEvent(f.clk.Now()))
	if f.s.Mode() != ModeLocked {
		t.Fatalf("mode = %s, want locked", f.s.Mode())
	}
	if len(f.s.Entries()) != 0 {
		t.Fatal("entries cache survived lock")
	}
	if e, _ := f.s.Viewing(); e.Secret != "" {
		t.Fatal("viewed secret survived lock")
	}
	if f.clip.content != "" || f.clip.cleared == 0 {
		t.Fatal("clipboard not cleared on lock")
	}

	f.typeText("xyz")
	if f.s.Mode() != ModeLocked {
		t.Fatal("rune key left locked mode")
	}
	f.keys(KeyEnter)
	if f.s.Mode() != ModeMenu || f.s.Selected() != 0 {
		t.Fatalf("unlock went to %s (selected %d)", f.s.Mode(), f.s.Selected())
	}
}

func TestAutoLockWipesFormFields(t *testing.T) {
	f := newFixture(t, time.Minute)
	f.openMenuItem(t, ModeUpdate)
	f.typeText("gmail")
	f.keys(KeyTab)
	f.typeText("half-typed-secret")
	secret := f.s.Field(FieldSecret)

	f.clk.Advance(2 * time.Minute)
	f.s.Update(TickEvent(f.clk.Now()))
	if f.s.Mode() != ModeLocked {
		t.Fatalf("mode = %s", f.s.Mode())
	}
	if secret.Value() != "" || f.s.Field(FieldLabel).Value() != "" {
		t.Fatal("fields not wiped on lock")
	}
}

func TestKeyEventsResetIdleTimer(t *testing.T) {
	f := newFixture(t, time.Minute)
	for i := 0; i < 5; i++ {
		f.clk.Advance(50 * time.Second)
		// Keys ignored by the menu still count as activity.
		f.s.Update(RuneEvent('z'))
		f.s.Update(TickEvent(f.clk.Now()))
		if f.s.Mode() == ModeLocked {
			t.Fatalf("locked despite activity at iteration %d", i)
		}
	}
}

func TestTicksDoNotResetIdleTimer(t *testing.T) {
	f := newFixture(t, time.Minute)
	for i := 0; i < 60; i++ {
		f.clk.Advance(time.Second)
		f.s.Update(TickEvent(f.clk.Now()))
	}
	if f.s.Mode() != ModeLocked {
		t.Fatal("ticks kept the session unlocked")
	}
}

func TestLockDisabled(t *testing.T) {
	f := newFixture(t, 0)
	f.clk.Advance(24 * time.Hour)
	f.s.Update(TickEvent(f.clk.Now()))
	if f.s.Mode() == ModeLocked {
		t.Fatal("locked with a zero threshold")
	}
	if f.s.LockIn() != 0 {
		t.Fatalf("LockIn() = %s with lock disabled", f.s.LockIn())
	}
}

func TestLockedQuit(t *testing.T) {
	f := newFixture(t, time.Second)
	f.clk.Advance(time.Second)
	f.s.Update(TickEvent(f.clk.Now()))
	f.s.Update(RuneEvent('q'))
	if !f.s.ShouldQuit() {
		t.Fatal("q did not quit from locked mode")
	}
}

func TestErrorText_PartialFailure(t *testing.T) {
	err := &store.PartialFailureError{Label: "gmail", Step: "index write", Err: errors.New("x"), Rollback: errors.New("y")}
	if txt := ErrorText(err); !strings.Contains(txt, "gmail") {
		t.Fatalf("ErrorText() = %q", txt)
	}
}
