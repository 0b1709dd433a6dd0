//go:build windows || linux

package hotkey

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imeswitch/internal/locale"
)

func TestMapCombo(t *testing.T) {
	mods, key, err := mapCombo(locale.MustCombo("ctrl+shift+j"))
	require.NoError(t, err)
	assert.Len(t, mods, 2)
	assert.Equal(t, namedKeys["j"], key)
}

func TestMapComboRejectsUnknownKey(t *testing.T) {
	_, _, err := mapCombo(locale.MustCombo("alt+kana"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kana")
}

func TestBindValidatesEagerly(t *testing.T) {
	m := NewManager(slog.Default())

	require.NoError(t, m.Bind(locale.MustCombo("alt+k"), "convert", func() {}))
	assert.Len(t, m.bindings, 1)

	err := m.Bind(locale.KeyCombo{}, "empty", func() {})
	require.Error(t, err)

	err = m.Bind(locale.MustCombo("alt+grave"), "bad-key", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad-key")
}
