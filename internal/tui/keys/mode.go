// Package keys holds the TUI input modes and key bindings.
package keys

// Mode is the input mode shown in the status bar.
type Mode int

const (
	// ModeNormal routes keys to screen shortcuts.
	ModeNormal Mode = iota
	// ModeInsert routes keys to a focused text input.
	ModeInsert
	// ModeForm routes keys to an open form overlay.
	ModeForm
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeForm:
		return "FORM"
	default:
		return "UNKNOWN"
	}
}
