package ime

import (
	"errors"

	"imeswitch/internal/locale"
)

// Window identifies the input-focus-owning window resolved for one
// trigger event. Keyboard focus can belong to a child window with its own
// input thread, so the foreground window alone is not enough; backends
// resolve the actual focus owner once, and every layout and IME query of
// that event must use the same Window. Mixing focus resolutions between
// the layout query and the IME probe is a correctness hazard.
type Window uintptr

var (
	// ErrUnsupported is returned by backends that cannot perform an
	// operation on this platform. The resolver maps probe failures to
	// ModeUnknown, so a partial backend still degrades gracefully.
	ErrUnsupported = errors.New("ime: not supported on this platform")

	// ErrNoFocus is returned when no window owns keyboard focus.
	ErrNoFocus = errors.New("ime: no focused window")
)

// Platform is the OS surface the state machine runs against.
type Platform interface {
	// Name returns the backend name, e.g. "windows".
	Name() string

	// Available reports whether the backend can operate, with a reason
	// when it cannot.
	Available() (bool, string)

	// FocusWindow resolves the window owning keyboard focus.
	FocusWindow() (Window, error)

	// Layout returns the keyboard layout of the thread owning w.
	Layout(w Window) (locale.LayoutID, error)

	// RequestLayout asks the OS to activate the given layout for the
	// thread owning w. This is a request, not a synchronous guarantee:
	// a nil return means delivery succeeded, not that the layout is
	// already active. Callers poll Layout to observe the change.
	RequestLayout(w Window, id locale.LayoutID) error

	// ConversionMode reads the IME conversion mode for w.
	ConversionMode(w Window) (int, error)

	// OpenStatus reads the IME open status for w: 1 open, 0 closed.
	OpenStatus(w Window) (int, error)

	// SetConversionMode requests the given conversion mode for w.
	SetConversionMode(w Window, mode int) error

	// SetOpenStatus requests the given open status for w.
	SetOpenStatus(w Window, open int) error

	// SendCombo synthesizes a key combination (press and release).
	SendCombo(combo locale.KeyCombo) error
}

// NewPlatform returns the backend for the current OS. The registry is
// consulted by backends that need per-locale platform data (the Linux
// backend maps locales onto IBus engine names); others ignore it.
func NewPlatform(reg *locale.Registry) Platform {
	return newPlatform(reg)
}
