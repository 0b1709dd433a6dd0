package ime

import (
	"imeswitch/internal/locale"
)

// fakePlatform simulates the OS input context for tests. The simulated
// state is (layout, conversion mode, open status); applyConv/applyOpen
// model windows that honor or ignore direct IME requests, comboEffects
// model what a synthesized key combination does to the state, and
// pendingPolls models the delay between a layout request and the OS
// applying it.
type fakePlatform struct {
	layout locale.LayoutID
	conv   int
	open   int

	focusErr   error
	probeErr   error
	requestErr error

	applyConv    bool
	applyOpen    bool
	comboEffects map[string]func(*fakePlatform)

	pendingLayout locale.LayoutID
	pendingPolls  int

	sent     []string
	convSets int
	openSets int
}

func newFake() *fakePlatform {
	return &fakePlatform{comboEffects: make(map[string]func(*fakePlatform))}
}

func (f *fakePlatform) Name() string              { return "fake" }
func (f *fakePlatform) Available() (bool, string) { return true, "" }

func (f *fakePlatform) FocusWindow() (Window, error) {
	if f.focusErr != nil {
		return 0, f.focusErr
	}
	return Window(1), nil
}

func (f *fakePlatform) Layout(Window) (locale.LayoutID, error) {
	if f.pendingLayout != 0 {
		if f.pendingPolls <= 0 {
			f.layout = f.pendingLayout
			f.pendingLayout = 0
		} else {
			f.pendingPolls--
		}
	}
	return f.layout, nil
}

func (f *fakePlatform) RequestLayout(_ Window, id locale.LayoutID) error {
	if f.requestErr != nil {
		return f.requestErr
	}
	f.pendingLayout = id
	return nil
}

func (f *fakePlatform) ConversionMode(Window) (int, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.conv, nil
}

func (f *fakePlatform) OpenStatus(Window) (int, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.open, nil
}

func (f *fakePlatform) SetConversionMode(_ Window, mode int) error {
	f.convSets++
	if f.applyConv {
		f.conv = mode
	}
	return nil
}

func (f *fakePlatform) SetOpenStatus(_ Window, open int) error {
	f.openSets++
	if f.applyOpen {
		f.open = open
	}
	return nil
}

func (f *fakePlatform) SendCombo(c locale.KeyCombo) error {
	f.sent = append(f.sent, c.String())
	if effect, ok := f.comboEffects[c.String()]; ok {
		effect(f)
	}
	return nil
}

const (
	jaLayout locale.LayoutID = 0x04110411
	zhLayout locale.LayoutID = 0x08040804
)

func jaConfig() *locale.Config {
	return &locale.Config{
		ID:            "ja",
		TriggerKey:    locale.MustCombo("alt+j"),
		LayoutID:      jaLayout,
		ModeToggleKey: locale.MustCombo("alt+grave"),
		ConversionKey: locale.MustCombo("alt+kana"),
		Native:        locale.ModeSpec{Conversion: 25, Open: 1},
		Alphanumeric:  locale.ModeSpec{Conversion: 25, Open: 0},
	}
}

func zhConfig() *locale.Config {
	return &locale.Config{
		ID:            "zh_cn",
		TriggerKey:    locale.MustCombo("alt+c"),
		LayoutID:      zhLayout,
		ModeToggleKey: locale.MustCombo("ctrl+space"),
		Native:        locale.ModeSpec{Conversion: 1, Open: 1},
		Alphanumeric:  locale.ModeSpec{Conversion: 0, Open: 0},
		RelaxedNative: true,
	}
}

func testRegistry() *locale.Registry {
	r, err := locale.NewRegistry([]locale.Config{*jaConfig(), *zhConfig()})
	if err != nil {
		panic(err)
	}
	return r
}
