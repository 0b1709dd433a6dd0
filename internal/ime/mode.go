package ime

// Mode classifies the focused input context.
type Mode int

const (
	// ModeUnknown means the readback signals match neither spec. Some
	// application classes (sandboxed windows in particular) never expose
	// a consistent readback; Unknown is a legitimate steady state there,
	// not an error.
	ModeUnknown Mode = iota

	// ModeAlphanumeric means the IME is bypassed and keystrokes pass
	// through as Latin characters.
	ModeAlphanumeric

	// ModeNative means the IME is engaged and producing the locale's
	// native script.
	ModeNative
)

func (m Mode) String() string {
	switch m {
	case ModeAlphanumeric:
		return "alphanumeric"
	case ModeNative:
		return "native"
	default:
		return "unknown"
	}
}

// Complement returns the opposite classifiable mode. Unknown has no
// complement and maps to itself; callers must branch on Unknown before
// computing a toggle target.
func (m Mode) Complement() Mode {
	switch m {
	case ModeAlphanumeric:
		return ModeNative
	case ModeNative:
		return ModeAlphanumeric
	default:
		return ModeUnknown
	}
}
