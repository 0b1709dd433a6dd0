package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfig returns the default configuration: Japanese and
// Simplified Chinese locales with the stock Windows IME state values.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Locales: []LocaleConfig{
			{
				ID:            "ja",
				TriggerKey:    "alt+j",
				Layout:        "0x04110411",
				Engine:        "anthy",
				ModeToggleKey: "alt+grave",
				ConversionKey: "alt+kana",
				Native:        ModeSpecConfig{Conversion: 25, Open: 1},
				Alphanumeric:  ModeSpecConfig{Conversion: 25, Open: 0},
			},
			{
				ID:            "zh_cn",
				TriggerKey:    "alt+c",
				Layout:        "0x08040804",
				Engine:        "libpinyin",
				ModeToggleKey: "ctrl+space",
				Native:        ModeSpecConfig{Conversion: 1, Open: 1},
				Alphanumeric:  ModeSpecConfig{Conversion: 0, Open: 0},
				RelaxedNative: true,
			},
		},
		Hotkeys: HotkeysConfig{
			Convert: "alt+k",
		},
		Settle: SettleConfig{
			IntervalMs: 25,
			TimeoutMs:  500,
		},
		Journal: JournalConfig{
			Backend: "sqlite",
			Path:    filepath.Join(DataDir(), "journal.db"),
		},
		Notify: NotifyConfig{
			Enabled:   true,
			TimeoutMs: 1500,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   filepath.Join(LogDir(), "imeswitchd.log"),
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
	}
}

// ConfigDir returns the platform config directory for imeswitchd.
func ConfigDir() string {
	if envDir := os.Getenv("IMESWITCH_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "imeswitchd")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "imeswitchd")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "imeswitchd")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "imeswitchd")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "imeswitchd")
	}
}

// DataDir returns the platform data directory for imeswitchd.
func DataDir() string {
	if envDir := os.Getenv("IMESWITCH_DATA_DIR"); envDir != "" {
		return envDir
	}
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "imeswitchd")
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "imeswitchd")
		}
		return ConfigDir()
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "imeswitchd")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "imeswitchd")
	}
}

// LogDir returns the platform log directory for imeswitchd.
func LogDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Logs", "imeswitchd")
	case "windows":
		return filepath.Join(DataDir(), "logs")
	default:
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, "imeswitchd")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "state", "imeswitchd")
	}
}

// SupportedConfigFormats lists the accepted config file extensions.
func SupportedConfigFormats() []string {
	return []string{".toml", ".json", ".yaml", ".yml"}
}

// FindConfigFile returns the first config file that exists among the
// supported formats in the config directory, or the default TOML path.
func FindConfigFile() string {
	dir := ConfigDir()
	for _, ext := range SupportedConfigFormats() {
		path := filepath.Join(dir, "config"+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ConfigPath()
}
