// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

// Mode is the screen the session is on.
type Mode int

const (
	ModeMenu Mode = iota
	ModeCreate
	ModeMemorable
	ModeOTP
	ModeCustom
	ModeList
	ModeView
	ModeUpdate
	ModeDelete
	ModeExport
	ModeImport
	ModeSettings
	ModeLocked
)

var modeNames = map[Mode]string{
	ModeMenu:      "menu",
	ModeCreate:    "create",
	ModeMemorable: "memorable",
	ModeOTP:       "otp",
	ModeCustom:    "custom",
	ModeList:      "list",
	ModeView:      "view",
	ModeUpdate:    "update",
	ModeDelete:    "delete",
	ModeExport:    "export",
	ModeImport:    "import",
	ModeSettings:  "settings",
	ModeLocked:    "locked",
}

// String returns the mode's short name, also used as its i18n key suffix.
func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "unknown"
}

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Mode Mode
	// MessageID is the i18n key of the label.
	MessageID string
}

// menuItems is the fixed menu, in display order.
var menuItems = []MenuItem{
	{ModeCreate, "menu.create"},
	{ModeMemorable, "menu.memorable"},
	{ModeOTP, "menu.otp"},
	{ModeCustom, "menu.custom"},
	{ModeList, "menu.list"},
	{ModeUpdate, "menu.update"},
	{ModeDelete, "menu.delete"},
	{ModeExport, "menu.export"},
	{ModeImport, "menu.import"},
	{ModeSettings, "menu.settings"},
}

// formFields lists the fields each form mode edits, in tab order.
var formFields = map[Mode][]FieldRole{
	ModeCreate:    {FieldLabel, FieldLength},
	ModeMemorable: {FieldLabel},
	ModeOTP:       {FieldLabel, FieldTTL},
	ModeCustom:    {FieldLabel, FieldSecret},
	ModeUpdate:    {FieldLabel, FieldSecret},
	ModeDelete:    {FieldLabel},
	ModeExport:    {FieldPath},
	ModeImport:    {FieldPath},
	ModeSettings:  {FieldLength},
}

func menuIndex(m Mode) int {
	for i, it := range menuItems {
		if it.Mode == m {
			return i
		}
	}
	return 0
}
