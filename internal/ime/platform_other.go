//go:build !windows && !linux

package ime

import "imeswitch/internal/locale"

// unsupportedPlatform is the stub for platforms without a backend.
type unsupportedPlatform struct{}

func newPlatform(_ *locale.Registry) Platform {
	return unsupportedPlatform{}
}

func (unsupportedPlatform) Name() string { return "unsupported" }

func (unsupportedPlatform) Available() (bool, string) {
	return false, "no IME backend for this platform"
}

func (unsupportedPlatform) FocusWindow() (Window, error) { return 0, ErrUnsupported }

func (unsupportedPlatform) Layout(Window) (locale.LayoutID, error) {
	return 0, ErrUnsupported
}

func (unsupportedPlatform) RequestLayout(Window, locale.LayoutID) error {
	return ErrUnsupported
}

func (unsupportedPlatform) ConversionMode(Window) (int, error) { return 0, ErrUnsupported }

func (unsupportedPlatform) OpenStatus(Window) (int, error) { return 0, ErrUnsupported }

func (unsupportedPlatform) SetConversionMode(Window, int) error { return ErrUnsupported }

func (unsupportedPlatform) SetOpenStatus(Window, int) error { return ErrUnsupported }

func (unsupportedPlatform) SendCombo(locale.KeyCombo) error { return ErrUnsupported }
