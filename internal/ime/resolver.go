package ime

import (
	"imeswitch/internal/locale"
)

// Resolver classifies the live IME state of a window against a locale's
// mode specs. Classification is recomputed on every call and never cached
// across trigger events.
type Resolver struct {
	platform Platform
}

// NewResolver returns a resolver reading through the given platform.
func NewResolver(p Platform) *Resolver {
	return &Resolver{platform: p}
}

// Classify reads (conversion mode, open status) for w and applies the
// canonical cascade:
//
//  1. exact match of the native spec -> ModeNative
//  2. exact match of the alphanumeric spec -> ModeAlphanumeric
//  3. with RelaxedNative, conversion mode alone matching the native
//     spec -> ModeNative
//  4. otherwise -> ModeUnknown
//
// The relaxed step exists because some application classes do not expose
// a usable open-status readback; conversion mode is the steadier signal
// there, but only for locales where that reading was validated, so it is
// gated on the per-locale flag. Probe read failures classify as Unknown.
func (r *Resolver) Classify(w Window, cfg *locale.Config) Mode {
	conv, err := r.platform.ConversionMode(w)
	if err != nil {
		return ModeUnknown
	}
	open, err := r.platform.OpenStatus(w)
	if err != nil {
		return ModeUnknown
	}

	switch {
	case conv == cfg.Native.Conversion && open == cfg.Native.Open:
		return ModeNative
	case conv == cfg.Alphanumeric.Conversion && open == cfg.Alphanumeric.Open:
		return ModeAlphanumeric
	case cfg.RelaxedNative && conv == cfg.Native.Conversion:
		return ModeNative
	default:
		return ModeUnknown
	}
}
