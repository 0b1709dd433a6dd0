package ime

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imeswitch/internal/locale"
)

func newTestSwitcher(f *fakePlatform) *Switcher {
	return NewSwitcher(f, NewResolver(f), slog.Default())
}

func TestDriveToFirstStrategyWins(t *testing.T) {
	// zh_cn with relaxed matching: setting the conversion mode alone is
	// enough to verify native, so the cascade stops after one step.
	f := newFake()
	f.conv, f.open = 0, 0
	f.applyConv = true

	out := newTestSwitcher(f).DriveTo(Window(1), ModeNative, zhConfig())

	assert.True(t, out.Reached)
	assert.Equal(t, ModeNative, out.Mode)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, "conversion-mode", out.Strategy)
	assert.Equal(t, 0, f.openSets)
	assert.Empty(t, f.sent)
}

func TestDriveToFallsThroughToOpenStatus(t *testing.T) {
	// ja alphanumeric -> native differs only in open status, so the
	// conversion-mode step verifies nothing and open-status succeeds.
	f := newFake()
	f.conv, f.open = 25, 0
	f.applyConv = true
	f.applyOpen = true

	out := newTestSwitcher(f).DriveTo(Window(1), ModeNative, jaConfig())

	assert.True(t, out.Reached)
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, "open-status", out.Strategy)
}

func TestDriveToSkipsAbsentSwitchHotkey(t *testing.T) {
	// Direct sets ignored (sandboxed window); no switch hotkey is
	// configured, so the third attempt is already the toggle key.
	f := newFake()
	f.conv, f.open = 25, 0
	f.comboEffects["alt+grave"] = func(f *fakePlatform) { f.open = 1 }

	out := newTestSwitcher(f).DriveTo(Window(1), ModeNative, jaConfig())

	assert.True(t, out.Reached)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, "toggle-key", out.Strategy)
	assert.Equal(t, []string{"alt+grave"}, f.sent)
}

func TestDriveToUsesSwitchHotkeyBeforeToggle(t *testing.T) {
	f := newFake()
	f.conv, f.open = 25, 0
	f.comboEffects["ctrl+shift+j"] = func(f *fakePlatform) { f.open = 1 }

	cfg := jaConfig()
	cfg.Native.SwitchHotkey = locale.MustCombo("ctrl+shift+j")

	out := newTestSwitcher(f).DriveTo(Window(1), ModeNative, cfg)

	assert.True(t, out.Reached)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, "switch-hotkey", out.Strategy)
	assert.NotContains(t, f.sent, "alt+grave")
}

func TestDriveToExhaustsCascade(t *testing.T) {
	// Nothing takes effect: every strategy runs exactly once, then the
	// switcher gives up without retrying.
	f := newFake()
	f.conv, f.open = 25, 0

	cfg := jaConfig()
	cfg.Native.SwitchHotkey = locale.MustCombo("ctrl+shift+j")

	out := newTestSwitcher(f).DriveTo(Window(1), ModeNative, cfg)

	assert.False(t, out.Reached)
	assert.Equal(t, 4, out.Attempts)
	assert.Empty(t, out.Strategy)
	assert.Equal(t, 1, f.convSets)
	assert.Equal(t, 1, f.openSets)
	assert.Equal(t, []string{"ctrl+shift+j", "alt+grave"}, f.sent)
}

func TestDriveToRefusesUnknownTarget(t *testing.T) {
	f := newFake()
	f.conv, f.open = 25, 1

	out := newTestSwitcher(f).DriveTo(Window(1), ModeUnknown, jaConfig())

	assert.False(t, out.Reached)
	assert.Equal(t, 0, out.Attempts)
	assert.Equal(t, 0, f.convSets)
}

func TestToggleComputesComplement(t *testing.T) {
	f := newFake()
	f.conv, f.open = 25, 1 // native
	f.applyConv = true
	f.applyOpen = true

	out := newTestSwitcher(f).Toggle(Window(1), jaConfig())

	assert.True(t, out.Reached)
	assert.Equal(t, ModeAlphanumeric, out.Mode)
}

func TestToggleIsInvolution(t *testing.T) {
	f := newFake()
	f.conv, f.open = 25, 1
	f.applyConv = true
	f.applyOpen = true
	s := newTestSwitcher(f)
	cfg := jaConfig()

	before := NewResolver(f).Classify(Window(1), cfg)
	require.Equal(t, ModeNative, before)

	first := s.Toggle(Window(1), cfg)
	require.True(t, first.Reached)
	require.Equal(t, ModeAlphanumeric, first.Mode)

	second := s.Toggle(Window(1), cfg)
	require.True(t, second.Reached)
	assert.Equal(t, before, second.Mode)
}

func TestToggleUnknownSendsToggleKeyBlind(t *testing.T) {
	// An inconclusive readback has no complementary target; the toggle
	// key goes out without a driveTo cascade.
	f := newFake()
	f.conv, f.open = 99, 1

	out := newTestSwitcher(f).Toggle(Window(1), jaConfig())

	assert.True(t, out.Reached)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, "toggle-key", out.Strategy)
	assert.Equal(t, []string{"alt+grave"}, f.sent)
	assert.Equal(t, 0, f.convSets)
	assert.Equal(t, ModeUnknown, out.Mode)
}

func TestToggleUnknownMayRecover(t *testing.T) {
	f := newFake()
	f.conv, f.open = 99, 1
	f.comboEffects["alt+grave"] = func(f *fakePlatform) { f.conv, f.open = 25, 1 }

	out := newTestSwitcher(f).Toggle(Window(1), jaConfig())

	assert.Equal(t, ModeNative, out.Mode)
}
