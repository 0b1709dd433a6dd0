package config

import (
	"fmt"
	"strings"

	"imeswitch/internal/locale"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig performs structural validation of the configuration.
// Registry construction performs its own cross-locale checks (unique
// ids and layouts, distinguishable mode specs) on top of this.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	if len(c.Locales) == 0 {
		errs = append(errs, ValidationError{
			Field:   "locales",
			Message: "at least one locale must be configured",
		})
	}
	for i, lc := range c.Locales {
		errs = append(errs, validateLocale(i, &lc)...)
	}

	if c.Hotkeys.Convert != "" {
		if _, err := locale.ParseCombo(c.Hotkeys.Convert); err != nil {
			errs = append(errs, ValidationError{
				Field:   "hotkeys.convert",
				Message: err.Error(),
			})
		}
	}

	errs = append(errs, validateSettle(&c.Settle)...)
	errs = append(errs, validateJournal(&c.Journal)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLocale(i int, lc *LocaleConfig) ValidationErrors {
	var errs ValidationErrors
	field := func(name string) string {
		return fmt.Sprintf("locales[%d].%s", i, name)
	}

	if lc.ID == "" {
		errs = append(errs, ValidationError{Field: field("id"), Message: "must not be empty"})
	}
	if _, err := ParseLayoutID(lc.Layout); err != nil {
		errs = append(errs, ValidationError{Field: field("layout"), Message: err.Error()})
	}

	for name, combo := range map[string]string{
		"trigger_key":     lc.TriggerKey,
		"mode_toggle_key": lc.ModeToggleKey,
	} {
		if combo == "" {
			errs = append(errs, ValidationError{Field: field(name), Message: "must not be empty"})
			continue
		}
		if _, err := locale.ParseCombo(combo); err != nil {
			errs = append(errs, ValidationError{Field: field(name), Message: err.Error()})
		}
	}
	for name, combo := range map[string]string{
		"conversion_key":          lc.ConversionKey,
		"native.switch_key":       lc.Native.SwitchKey,
		"alphanumeric.switch_key": lc.Alphanumeric.SwitchKey,
	} {
		if combo == "" {
			continue
		}
		if _, err := locale.ParseCombo(combo); err != nil {
			errs = append(errs, ValidationError{Field: field(name), Message: err.Error()})
		}
	}

	for name, spec := range map[string]ModeSpecConfig{
		"native":       lc.Native,
		"alphanumeric": lc.Alphanumeric,
	} {
		if spec.Open != 0 && spec.Open != 1 {
			errs = append(errs, ValidationError{
				Field:   field(name + ".open"),
				Message: fmt.Sprintf("must be 0 or 1, got %d", spec.Open),
			})
		}
		if spec.Conversion < 0 {
			errs = append(errs, ValidationError{
				Field:   field(name + ".conversion"),
				Message: "must not be negative",
			})
		}
	}

	return errs
}

func validateSettle(s *SettleConfig) ValidationErrors {
	var errs ValidationErrors
	if s.IntervalMs < 0 {
		errs = append(errs, ValidationError{Field: "settle.interval_ms", Message: "must not be negative"})
	}
	if s.TimeoutMs < 0 {
		errs = append(errs, ValidationError{Field: "settle.timeout_ms", Message: "must not be negative"})
	}
	if s.IntervalMs > 0 && s.TimeoutMs > 0 && s.IntervalMs > s.TimeoutMs {
		errs = append(errs, ValidationError{
			Field:   "settle.interval_ms",
			Message: fmt.Sprintf("interval %dms exceeds timeout %dms", s.IntervalMs, s.TimeoutMs),
		})
	}
	return errs
}

func validateJournal(j *JournalConfig) ValidationErrors {
	var errs ValidationErrors
	switch j.Backend {
	case "", "none", "file", "sqlite":
	default:
		errs = append(errs, ValidationError{
			Field:   "journal.backend",
			Message: fmt.Sprintf("must be none, file, or sqlite, got %q", j.Backend),
		})
	}
	if (j.Backend == "file" || j.Backend == "sqlite") && j.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "journal.path",
			Message: fmt.Sprintf("required for the %s backend", j.Backend),
		})
	}
	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", l.Level),
		})
	}

	switch strings.ToLower(l.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", l.Format),
		})
	}

	switch strings.ToLower(l.Output) {
	case "", "stdout", "stderr", "file", "both":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("unknown output %q", l.Output),
		})
	}

	if (strings.ToLower(l.Output) == "file" || strings.ToLower(l.Output) == "both") && l.FilePath == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file_path",
			Message: "required when output includes file",
		})
	}

	return errs
}
