// Package locale holds the immutable locale configuration model: which
// keyboard layout each locale maps to, how its native and alphanumeric
// input states look to the IME, and which key combinations drive it.
package locale

import "fmt"

// LayoutID identifies a keyboard-layout/input-method pairing. On Windows
// this is the HKL value for the locale; it is treated as opaque elsewhere.
type LayoutID uint32

func (l LayoutID) String() string {
	return fmt.Sprintf("0x%08X", uint32(l))
}

// ModeSpec describes how one input mode of a locale reads back from the
// IME context, plus an optional hotkey that switches into that mode.
type ModeSpec struct {
	// Conversion is the IME conversion-mode value expected in this mode.
	Conversion int

	// Open is the IME open status expected in this mode: 1 open, 0 closed.
	Open int

	// SwitchHotkey, when set, is a key combination that requests this
	// mode from the IME. Zero means the locale has no such hotkey.
	SwitchHotkey KeyCombo
}

// Config is the fixed configuration of one supported locale. Configs are
// built once at startup, validated by NewRegistry, and never mutated.
type Config struct {
	// ID is the symbolic locale name, e.g. "ja" or "zh_cn".
	ID string

	// TriggerKey is the hotkey that activates this locale.
	TriggerKey KeyCombo

	// LayoutID is the OS layout paired with this locale. Unique across
	// the registry.
	LayoutID LayoutID

	// EngineName is the IBus engine for this locale on Linux. Optional.
	EngineName string

	// ModeToggleKey flips native/alphanumeric as a last resort when the
	// direct IME strategies are unavailable or inconclusive.
	ModeToggleKey KeyCombo

	// ConversionKey performs the locale's auxiliary script-conversion
	// flip (e.g. hiragana/katakana). Optional; dispatched directly,
	// outside the native/alphanumeric model.
	ConversionKey KeyCombo

	// Native and Alphanumeric describe the two classifiable modes. They
	// must differ in conversion mode or open status.
	Native       ModeSpec
	Alphanumeric ModeSpec

	// RelaxedNative classifies as native on conversion mode alone when
	// open status diverges. Only enabled for locales where that reading
	// was validated against sandboxed windows; never applied globally.
	RelaxedNative bool
}
