package ime

import (
	"log/slog"

	"imeswitch/internal/locale"
)

// Outcome reports what a switch operation did and where it ended up.
type Outcome struct {
	// Mode is the classification after the operation completed.
	Mode Mode

	// Reached reports whether the requested state was verified.
	Reached bool

	// Attempts is the number of cascade steps attempted.
	Attempts int

	// Strategy names the step that succeeded; empty when none did.
	Strategy string
}

// Switcher drives the OS from the current mode to a requested one. It
// executes a fixed, ordered cascade and performs no retries beyond it;
// user-visible reporting of exhaustion belongs to the caller.
type Switcher struct {
	platform Platform
	resolver *Resolver
	log      *slog.Logger
}

// NewSwitcher returns a switcher over the given platform. A nil logger
// falls back to slog.Default.
func NewSwitcher(p Platform, r *Resolver, log *slog.Logger) *Switcher {
	if log == nil {
		log = slog.Default()
	}
	return &Switcher{platform: p, resolver: r, log: log}
}

type driveStep struct {
	name  string
	apply func() error
}

// DriveTo attempts to put w into the target mode for the given locale.
// The cascade order is fixed: set conversion mode directly, set open
// status directly, synthesize the target spec's switch hotkey when one is
// configured, and finally synthesize the locale's mode toggle key. After
// each step the state is re-classified and the cascade stops at the first
// step that verifies as target. Steps whose request fails still count as
// attempts; the next strategy simply runs.
func (s *Switcher) DriveTo(w Window, target Mode, cfg *locale.Config) Outcome {
	if target == ModeUnknown {
		s.log.Warn("refusing to drive to unknown mode", "locale", cfg.ID)
		return Outcome{Mode: s.resolver.Classify(w, cfg)}
	}

	spec := cfg.Alphanumeric
	if target == ModeNative {
		spec = cfg.Native
	}

	steps := []driveStep{
		{"conversion-mode", func() error { return s.platform.SetConversionMode(w, spec.Conversion) }},
		{"open-status", func() error { return s.platform.SetOpenStatus(w, spec.Open) }},
	}
	if !spec.SwitchHotkey.IsZero() {
		hk := spec.SwitchHotkey
		steps = append(steps, driveStep{"switch-hotkey", func() error { return s.platform.SendCombo(hk) }})
	}
	steps = append(steps, driveStep{"toggle-key", func() error { return s.platform.SendCombo(cfg.ModeToggleKey) }})

	out := Outcome{Mode: ModeUnknown}
	for i, step := range steps {
		out.Attempts = i + 1
		if err := step.apply(); err != nil {
			s.log.Debug("switch strategy request failed",
				"locale", cfg.ID, "strategy", step.name, "error", err)
		}
		out.Mode = s.resolver.Classify(w, cfg)
		if out.Mode == target {
			out.Reached = true
			out.Strategy = step.name
			return out
		}
	}
	return out
}

// Toggle flips between native and alphanumeric mode. When the current
// classification is Unknown there is no complementary target to compute,
// so the locale's mode toggle key is synthesized blind; the IME state for
// such windows often cannot be re-verified either, and an Unknown result
// afterwards is expected.
func (s *Switcher) Toggle(w Window, cfg *locale.Config) Outcome {
	current := s.resolver.Classify(w, cfg)
	if current == ModeUnknown {
		err := s.platform.SendCombo(cfg.ModeToggleKey)
		if err != nil {
			s.log.Debug("blind toggle failed", "locale", cfg.ID, "error", err)
		}
		return Outcome{
			Mode:     s.resolver.Classify(w, cfg),
			Reached:  err == nil,
			Attempts: 1,
			Strategy: "toggle-key",
		}
	}
	return s.DriveTo(w, current.Complement(), cfg)
}
