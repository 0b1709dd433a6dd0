package ime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imeswitch/internal/journal"
)

type fakeNotifier struct {
	msgs []string
}

func (n *fakeNotifier) Notify(msg string) { n.msgs = append(n.msgs, msg) }

type fakeJournal struct {
	entries []journal.Entry
	err     error
}

func (j *fakeJournal) Record(e journal.Entry) error {
	j.entries = append(j.entries, e)
	return j.err
}

type orchestratorHarness struct {
	platform *fakePlatform
	orch     *Orchestrator
	notifier *fakeNotifier
	journal  *fakeJournal
	sleeps   int
}

func newHarness(f *fakePlatform) *orchestratorHarness {
	h := &orchestratorHarness{
		platform: f,
		notifier: &fakeNotifier{},
		journal:  &fakeJournal{},
	}
	h.orch = NewOrchestrator(f, testRegistry(), Options{
		Notifier: h.notifier,
		Journal:  h.journal,
		Settle:   Settle{Interval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond},
	})
	h.orch.sleep = func(time.Duration) { h.sleeps++ }
	return h
}

func TestTriggerSameLocaleToggles(t *testing.T) {
	// In ja native mode, pressing the ja trigger again lands in
	// alphanumeric mode without touching the layout.
	f := newFake()
	f.layout = jaLayout
	f.conv, f.open = 25, 1
	f.applyConv = true
	f.applyOpen = true
	h := newHarness(f)

	res := h.orch.Trigger("ja")

	assert.Equal(t, ActionToggle, res.Action)
	assert.True(t, res.OK)
	assert.Equal(t, ModeAlphanumeric, res.Mode)
	assert.Equal(t, jaLayout, f.layout)
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, ActionToggle, h.journal.entries[0].Action)
	assert.Contains(t, h.notifier.msgs, "ja: alphanumeric")
}

func TestTriggerDifferentLocaleForcesNative(t *testing.T) {
	// From ja in any mode, the zh_cn trigger switches the layout and
	// always forces native mode.
	f := newFake()
	f.layout = jaLayout
	f.conv, f.open = 25, 0
	f.applyConv = true
	f.applyOpen = true
	h := newHarness(f)

	res := h.orch.Trigger("zh_cn")

	assert.Equal(t, ActionSwitch, res.Action)
	assert.True(t, res.OK)
	assert.Equal(t, ModeNative, res.Mode)
	assert.Equal(t, jaLayout, res.From)
	assert.Equal(t, zhLayout, res.To)
	assert.Equal(t, zhLayout, f.layout)
}

func TestTriggerPollsUntilLayoutSettles(t *testing.T) {
	f := newFake()
	f.layout = jaLayout
	f.conv, f.open = 0, 0
	f.applyConv = true
	f.applyOpen = true
	f.pendingPolls = 3 // the OS applies the layout request late
	h := newHarness(f)

	res := h.orch.Trigger("zh_cn")

	assert.True(t, res.OK)
	assert.Equal(t, zhLayout, f.layout)
	assert.GreaterOrEqual(t, h.sleeps, 1)
}

func TestTriggerSettleTimeoutIsBounded(t *testing.T) {
	f := newFake()
	f.layout = jaLayout
	f.conv, f.open = 0, 0
	f.applyConv = true
	f.applyOpen = true
	f.pendingPolls = 1000 // never settles inside the timeout
	h := newHarness(f)

	h.orch.Trigger("zh_cn")

	// Interval 10ms, timeout 50ms: at most 6 polls' worth of sleeps.
	assert.LessOrEqual(t, h.sleeps, 6)
}

func TestTriggerUnknownLocale(t *testing.T) {
	h := newHarness(newFake())

	res := h.orch.Trigger("ko")

	require.Error(t, res.Err)
	assert.False(t, res.OK)
	require.NotEmpty(t, h.notifier.msgs)
	assert.Contains(t, h.notifier.msgs[0], "not configured")
}

func TestTriggerFocusFailureAborts(t *testing.T) {
	f := newFake()
	f.focusErr = ErrNoFocus
	h := newHarness(f)

	res := h.orch.Trigger("ja")

	require.Error(t, res.Err)
	assert.False(t, res.OK)
	// The failure is local: journaled, notified, nothing else.
	require.Len(t, h.journal.entries, 1)
	assert.NotEmpty(t, h.journal.entries[0].Error)
}

func TestTriggerLayoutRequestFailureAborts(t *testing.T) {
	f := newFake()
	f.layout = jaLayout
	f.requestErr = errors.New("delivery failed")
	h := newHarness(f)

	res := h.orch.Trigger("zh_cn")

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "request layout")
}

func TestTriggerCascadeExhaustedNotifies(t *testing.T) {
	f := newFake()
	f.layout = jaLayout
	f.conv, f.open = 99, 0 // nothing applies, readback stays foreign
	h := newHarness(f)

	res := h.orch.Trigger("zh_cn")

	assert.False(t, res.OK)
	assert.Nil(t, res.Err)
	require.NotEmpty(t, h.notifier.msgs)
	assert.Contains(t, h.notifier.msgs[len(h.notifier.msgs)-1], "mode switch failed")
}

func TestConvertDispatchesConversionKey(t *testing.T) {
	f := newFake()
	f.layout = jaLayout
	h := newHarness(f)

	res := h.orch.Convert()

	assert.True(t, res.OK)
	assert.Equal(t, ActionConvert, res.Action)
	assert.Equal(t, "ja", res.Locale)
	assert.Equal(t, []string{"alt+kana"}, f.sent)
	// The auxiliary flip bypasses classification entirely.
	assert.Equal(t, 0, f.convSets)
}

func TestConvertUnconfiguredLayout(t *testing.T) {
	f := newFake()
	f.layout = 0x04090409 // en-US, not in the registry
	h := newHarness(f)

	res := h.orch.Convert()

	require.Error(t, res.Err)
	require.NotEmpty(t, h.notifier.msgs)
	assert.Contains(t, h.notifier.msgs[0], "no locale configured")
	assert.Empty(t, f.sent)
}

func TestConvertWithoutConversionKey(t *testing.T) {
	f := newFake()
	f.layout = zhLayout // zh_cn fixture has no conversion key
	h := newHarness(f)

	res := h.orch.Convert()

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "no conversion key")
}

func TestJournalFailureIsSwallowed(t *testing.T) {
	f := newFake()
	f.layout = jaLayout
	f.conv, f.open = 25, 1
	f.applyOpen = true
	h := newHarness(f)
	h.journal.err = errors.New("disk full")

	res := h.orch.Trigger("ja")

	assert.True(t, res.OK)
}

func TestSettleDefaults(t *testing.T) {
	s := Settle{}.withDefaults()
	assert.Equal(t, defaultSettleInterval, s.Interval)
	assert.Equal(t, defaultSettleTimeout, s.Timeout)

	custom := Settle{Interval: time.Millisecond, Timeout: time.Second}.withDefaults()
	assert.Equal(t, time.Millisecond, custom.Interval)
	assert.Equal(t, time.Second, custom.Timeout)
}
