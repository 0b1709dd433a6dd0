// Package config handles configuration loading and validation for imeswitchd.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"imeswitch/internal/locale"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete daemon configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Locales is the fixed set of switchable locales. The set is loaded
	// once at startup; editing it requires a restart.
	Locales []LocaleConfig `toml:"locales" json:"locales" yaml:"locales"`

	// Hotkeys holds global key bindings that are not per-locale.
	Hotkeys HotkeysConfig `toml:"hotkeys" json:"hotkeys" yaml:"hotkeys"`

	// Settle bounds the wait for a requested layout change to apply.
	Settle SettleConfig `toml:"settle" json:"settle" yaml:"settle"`

	// Journal configures the switch-outcome journal.
	Journal JournalConfig `toml:"journal" json:"journal" yaml:"journal"`

	// Notify configures transient on-screen notifications.
	Notify NotifyConfig `toml:"notify" json:"notify" yaml:"notify"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// LocaleConfig describes one switchable locale.
type LocaleConfig struct {
	// ID is the symbolic locale name, e.g. "ja" or "zh_cn".
	ID string `toml:"id" json:"id" yaml:"id"`

	// TriggerKey is the global hotkey that activates this locale.
	TriggerKey string `toml:"trigger_key" json:"trigger_key" yaml:"trigger_key"`

	// Layout is the keyboard layout identifier as a hex string,
	// e.g. "0x04110411".
	Layout string `toml:"layout" json:"layout" yaml:"layout"`

	// Engine is the IBus engine name backing this locale on Linux,
	// e.g. "anthy" or "libpinyin". Unused on Windows.
	Engine string `toml:"engine" json:"engine" yaml:"engine"`

	// ModeToggleKey is the key combination that performs a best-effort
	// native/alphanumeric flip when direct IME control is inconclusive.
	ModeToggleKey string `toml:"mode_toggle_key" json:"mode_toggle_key" yaml:"mode_toggle_key"`

	// ConversionKey is the optional locale-specific auxiliary key
	// (e.g. a script-conversion flip) dispatched verbatim.
	ConversionKey string `toml:"conversion_key" json:"conversion_key" yaml:"conversion_key"`

	// Native and Alphanumeric describe the IME state for each mode.
	Native       ModeSpecConfig `toml:"native" json:"native" yaml:"native"`
	Alphanumeric ModeSpecConfig `toml:"alphanumeric" json:"alphanumeric" yaml:"alphanumeric"`

	// RelaxedNative accepts the native conversion mode alone as proof
	// of native state when the exact pair does not match.
	RelaxedNative bool `toml:"relaxed_native" json:"relaxed_native" yaml:"relaxed_native"`
}

// ModeSpecConfig is the observable IME state for one mode.
type ModeSpecConfig struct {
	Conversion int `toml:"conversion" json:"conversion" yaml:"conversion"`
	Open       int `toml:"open" json:"open" yaml:"open"`

	// SwitchKey is an optional dedicated hotkey that moves the IME into
	// this mode, tried before the blind toggle key.
	SwitchKey string `toml:"switch_key" json:"switch_key" yaml:"switch_key"`
}

// HotkeysConfig holds bindings that are not tied to a single locale.
type HotkeysConfig struct {
	// Convert is the dedicated conversion-key binding. Empty disables it.
	Convert string `toml:"convert" json:"convert" yaml:"convert"`
}

// SettleConfig bounds the layout-change settle poll.
type SettleConfig struct {
	IntervalMs int `toml:"interval_ms" json:"interval_ms" yaml:"interval_ms"`
	TimeoutMs  int `toml:"timeout_ms" json:"timeout_ms" yaml:"timeout_ms"`
}

// JournalConfig configures the switch-outcome journal.
type JournalConfig struct {
	// Backend is "none", "file", or "sqlite".
	Backend string `toml:"backend" json:"backend" yaml:"backend"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// NotifyConfig configures transient notifications.
type NotifyConfig struct {
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// TimeoutMs is how long a notification stays on screen.
	TimeoutMs int `toml:"timeout_ms" json:"timeout_ms" yaml:"timeout_ms"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `toml:"level" json:"level" yaml:"level"`
	Format     string `toml:"format" json:"format" yaml:"format"`
	Output     string `toml:"output" json:"output" yaml:"output"`
	FilePath   string `toml:"file_path" json:"file_path" yaml:"file_path"`
	MaxSizeMB  int64  `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads configuration from the specified path. If the file doesn't
// exist, returns default configuration. Supports TOML, JSON, and YAML
// formats based on file extension.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	ext := filepath.Ext(path)
	switch ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		// Try TOML by default
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode config (unknown format): %w", err)
		}
	}

	cfg.ApplyEnvOverrides()

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies environment variable overrides. Variables
// are prefixed with IMESWITCH_ and use underscores.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("IMESWITCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("IMESWITCH_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("IMESWITCH_JOURNAL_PATH"); v != "" {
		c.Journal.Path = v
	}
}

// EnsureDirectories creates the directories the daemon writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Logging.FilePath),
	}
	if c.Journal.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Journal.Path))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Registry builds the immutable locale registry from the parsed config.
func (c *Config) Registry() (*locale.Registry, error) {
	configs := make([]locale.Config, 0, len(c.Locales))
	for _, lc := range c.Locales {
		built, err := lc.build()
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", lc.ID, err)
		}
		configs = append(configs, built)
	}
	return locale.NewRegistry(configs)
}

func (lc LocaleConfig) build() (locale.Config, error) {
	layout, err := ParseLayoutID(lc.Layout)
	if err != nil {
		return locale.Config{}, err
	}

	trigger, err := locale.ParseCombo(lc.TriggerKey)
	if err != nil {
		return locale.Config{}, fmt.Errorf("trigger_key: %w", err)
	}
	toggle, err := locale.ParseCombo(lc.ModeToggleKey)
	if err != nil {
		return locale.Config{}, fmt.Errorf("mode_toggle_key: %w", err)
	}
	conversion, err := locale.ParseCombo(lc.ConversionKey)
	if err != nil {
		return locale.Config{}, fmt.Errorf("conversion_key: %w", err)
	}
	native, err := lc.Native.build()
	if err != nil {
		return locale.Config{}, fmt.Errorf("native: %w", err)
	}
	alpha, err := lc.Alphanumeric.build()
	if err != nil {
		return locale.Config{}, fmt.Errorf("alphanumeric: %w", err)
	}

	return locale.Config{
		ID:            lc.ID,
		TriggerKey:    trigger,
		LayoutID:      layout,
		EngineName:    lc.Engine,
		ModeToggleKey: toggle,
		ConversionKey: conversion,
		Native:        native,
		Alphanumeric:  alpha,
		RelaxedNative: lc.RelaxedNative,
	}, nil
}

func (ms ModeSpecConfig) build() (locale.ModeSpec, error) {
	switchKey, err := locale.ParseCombo(ms.SwitchKey)
	if err != nil {
		return locale.ModeSpec{}, fmt.Errorf("switch_key: %w", err)
	}
	return locale.ModeSpec{
		Conversion:   ms.Conversion,
		Open:         ms.Open,
		SwitchHotkey: switchKey,
	}, nil
}

// ParseLayoutID parses a layout identifier written as a hex string,
// with or without the 0x prefix.
func ParseLayoutID(s string) (locale.LayoutID, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if trimmed == "" {
		return 0, fmt.Errorf("empty layout identifier")
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("layout identifier %q: %w", s, err)
	}
	return locale.LayoutID(v), nil
}

// Save writes the configuration to the given path as TOML.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
