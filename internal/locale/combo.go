package locale

import (
	"fmt"
	"strings"
)

// KeyCombo is a symbolic key combination such as "ctrl+alt+grave".
// Key names are resolved to platform keycodes by the platform backend;
// the locale package only carries the symbolic form.
type KeyCombo struct {
	Mods []string
	Key  string
}

// Modifier names accepted by ParseCombo.
var knownModifiers = map[string]bool{
	"ctrl":  true,
	"shift": true,
	"alt":   true,
	"win":   true,
}

// ParseCombo parses a binding string of the form "mod+...+key".
// A bare key with no modifiers is valid. The empty string parses to the
// zero combo, which callers treat as "not configured".
func ParseCombo(s string) (KeyCombo, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return KeyCombo{}, nil
	}

	parts := strings.Split(s, "+")
	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return KeyCombo{}, fmt.Errorf("invalid key combo %q: empty key", s)
	}

	var mods []string
	for _, m := range parts[:len(parts)-1] {
		m = strings.TrimSpace(m)
		if !knownModifiers[m] {
			return KeyCombo{}, fmt.Errorf("invalid key combo %q: unknown modifier %q", s, m)
		}
		mods = append(mods, m)
	}

	return KeyCombo{Mods: mods, Key: key}, nil
}

// MustCombo is ParseCombo that panics on error, for fixed tables and tests.
func MustCombo(s string) KeyCombo {
	c, err := ParseCombo(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsZero reports whether the combo is unset.
func (c KeyCombo) IsZero() bool {
	return c.Key == ""
}

func (c KeyCombo) String() string {
	if c.IsZero() {
		return ""
	}
	if len(c.Mods) == 0 {
		return c.Key
	}
	return strings.Join(c.Mods, "+") + "+" + c.Key
}
