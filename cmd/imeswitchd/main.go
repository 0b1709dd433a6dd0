// imeswitchd - Locale and input-mode switching daemon
//
//	imeswitchd run              Run the switching daemon
//	imeswitchd init             Write a default configuration file
//	imeswitchd locales          List configured locales
//	imeswitchd status           Show daemon configuration and platform state
//	imeswitchd switch <locale>  Trigger one switch and exit
//	imeswitchd convert          Dispatch the conversion key once and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imeswitch/internal/config"
	"imeswitch/internal/hotkey"
	"imeswitch/internal/ime"
	"imeswitch/internal/journal"
	"imeswitch/internal/locale"
	"imeswitch/internal/logging"
	"imeswitch/internal/notify"
)

// version is set at build time with -ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "run":
		cmdRun()
	case "init":
		cmdInit()
	case "locales":
		cmdLocales()
	case "status":
		cmdStatus()
	case "switch":
		cmdSwitch()
	case "convert":
		cmdConvert()
	case "version", "-v", "--version":
		fmt.Println("imeswitchd", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`imeswitchd - Locale and input-mode switching daemon

USAGE:
    imeswitchd <command> [options]

COMMANDS:
    run                 Run the daemon: register trigger hotkeys and dispatch
    init                Write a default configuration file
    locales             List configured locales
    status              Show configuration and platform state
    switch <locale>     Trigger one switch to the given locale and exit
    convert             Dispatch the conversion key once and exit
    version             Show version
    help                Show this help message

Each configured locale has a trigger hotkey. Pressing it while that
locale's layout is active toggles between native and alphanumeric input;
pressing it from another layout switches the layout and forces native
input. Edit the config file and restart to change the locale set.`)
}

func configPathArg(fs *flag.FlagSet) *string {
	return fs.String("config", "", "path to config file (default: auto-detect)")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}
	if err := config.ValidateSchema(cfg); err != nil {
		fatal("invalid config: %v", err)
	}
	return cfg
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "imeswitchd: "+format+"\n", args...)
	os.Exit(1)
}

func cmdRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := configPathArg(fs)
	fs.Parse(os.Args[2:])

	path := *configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg := loadConfig(path)

	log := newLogger(cfg)
	defer log.Close()
	logging.SetDefault(log)

	if err := cfg.EnsureDirectories(); err != nil {
		fatal("%v", err)
	}

	reg, err := cfg.Registry()
	if err != nil {
		fatal("build locale registry: %v", err)
	}

	platform := ime.NewPlatform(reg)
	if ok, reason := platform.Available(); !ok {
		fatal("platform %s unavailable: %s", platform.Name(), reason)
	}

	rec, err := journal.Open(cfg.Journal.Backend, cfg.Journal.Path)
	if err != nil {
		fatal("open journal: %v", err)
	}
	defer rec.Close()

	notifier := buildNotifier(cfg, log)

	orch := ime.NewOrchestrator(platform, reg, ime.Options{
		Notifier: notifier,
		Journal:  rec,
		Settle: ime.Settle{
			Interval: time.Duration(cfg.Settle.IntervalMs) * time.Millisecond,
			Timeout:  time.Duration(cfg.Settle.TimeoutMs) * time.Millisecond,
		},
		Logger: log.Logger,
	})

	mgr := hotkey.NewManager(log.Logger)
	for _, lc := range reg.Locales() {
		id := lc.ID
		if err := mgr.Bind(lc.TriggerKey, "trigger:"+id, func() { orch.Trigger(id) }); err != nil {
			fatal("%v", err)
		}
	}
	if cfg.Hotkeys.Convert != "" {
		combo, err := locale.ParseCombo(cfg.Hotkeys.Convert)
		if err != nil {
			fatal("hotkeys.convert: %v", err)
		}
		if err := mgr.Bind(combo, "convert", func() { orch.Convert() }); err != nil {
			fatal("%v", err)
		}
	}

	loader := config.NewLoader(path, log.Logger)
	if err := loader.Watch(); err != nil {
		log.Warn("config watch unavailable", "error", err)
	} else {
		defer loader.Close()
	}

	log.Info("imeswitchd starting",
		"version", version, "platform", platform.Name(),
		"locales", reg.Len(), "config", path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mgr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal("hotkey dispatch: %v", err)
	}
	log.Info("imeswitchd stopped")
}

func newLogger(cfg *config.Config) *logging.Logger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fatal("%v", err)
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		fatal("%v", err)
	}
	log, err := logging.New(&logging.Config{
		Level:      level,
		Format:     format,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Component:  "imeswitchd",
	})
	if err != nil {
		fatal("init logging: %v", err)
	}
	return log
}

func buildNotifier(cfg *config.Config, log *logging.Logger) notify.Notifier {
	logNotifier := notify.NewLog(log.Logger)
	if !cfg.Notify.Enabled {
		return logNotifier
	}
	desktop, err := notify.NewDesktop(time.Duration(cfg.Notify.TimeoutMs)*time.Millisecond, log.Logger)
	if err != nil {
		log.Debug("desktop notifications unavailable", "error", err)
		return logNotifier
	}
	return notify.Multi{logNotifier, desktop}
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "overwrite an existing config file")
	fs.Parse(os.Args[2:])

	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !*force {
		fatal("config already exists at %s (use -force to overwrite)", path)
	}

	if err := config.Save(config.DefaultConfig(), path); err != nil {
		fatal("%v", err)
	}
	fmt.Println("Wrote default configuration to", path)
	fmt.Println("Edit the [[locales]] entries, then start with 'imeswitchd run'.")
}

func cmdLocales() {
	fs := flag.NewFlagSet("locales", flag.ExitOnError)
	configPath := configPathArg(fs)
	fs.Parse(os.Args[2:])

	cfg := loadConfig(*configPath)
	reg, err := cfg.Registry()
	if err != nil {
		fatal("build locale registry: %v", err)
	}

	for _, lc := range reg.Locales() {
		relaxed := ""
		if lc.RelaxedNative {
			relaxed = " (relaxed native)"
		}
		fmt.Printf("%-8s layout %s  trigger %s  toggle %s%s\n",
			lc.ID, lc.LayoutID, lc.TriggerKey, lc.ModeToggleKey, relaxed)
	}
}

func cmdStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := configPathArg(fs)
	fs.Parse(os.Args[2:])

	path := *configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg := loadConfig(path)
	reg, err := cfg.Registry()
	if err != nil {
		fatal("build locale registry: %v", err)
	}

	fmt.Println("=== imeswitchd Status ===")
	fmt.Println()
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Config:     %s\n", path)
	fmt.Printf("Locales:    %d\n", reg.Len())
	fmt.Printf("Journal:    %s", cfg.Journal.Backend)
	if cfg.Journal.Path != "" && cfg.Journal.Backend != "none" {
		fmt.Printf(" (%s)", cfg.Journal.Path)
	}
	fmt.Println()

	platform := ime.NewPlatform(reg)
	ok, reason := platform.Available()
	if ok {
		fmt.Printf("Platform:   %s (available)\n", platform.Name())
	} else {
		fmt.Printf("Platform:   %s (unavailable: %s)\n", platform.Name(), reason)
		return
	}

	w, err := platform.FocusWindow()
	if err != nil {
		fmt.Printf("Focus:      unavailable (%v)\n", err)
		return
	}
	layout, err := platform.Layout(w)
	if err != nil {
		fmt.Printf("Layout:     unavailable (%v)\n", err)
		return
	}
	fmt.Printf("Layout:     %s\n", layout)

	if lc, found := reg.ByLayout(layout); found {
		mode := ime.NewResolver(platform).Classify(w, lc)
		fmt.Printf("Locale:     %s\n", lc.ID)
		fmt.Printf("Mode:       %s\n", mode)
	} else {
		fmt.Println("Locale:     not configured for this layout")
	}
}

func cmdSwitch() {
	fs := flag.NewFlagSet("switch", flag.ExitOnError)
	configPath := configPathArg(fs)
	fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fatal("usage: imeswitchd switch <locale>")
	}
	id := fs.Arg(0)

	res := oneShot(*configPath).Trigger(id)
	printResult(res)
}

func cmdConvert() {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	configPath := configPathArg(fs)
	fs.Parse(os.Args[2:])

	res := oneShot(*configPath).Convert()
	printResult(res)
}

// oneShot builds an orchestrator for single-command use: no journal, no
// desktop notifications, default settle policy.
func oneShot(configPath string) *ime.Orchestrator {
	cfg := loadConfig(configPath)
	reg, err := cfg.Registry()
	if err != nil {
		fatal("build locale registry: %v", err)
	}
	platform := ime.NewPlatform(reg)
	if ok, reason := platform.Available(); !ok {
		fatal("platform %s unavailable: %s", platform.Name(), reason)
	}
	return ime.NewOrchestrator(platform, reg, ime.Options{
		Settle: ime.Settle{
			Interval: time.Duration(cfg.Settle.IntervalMs) * time.Millisecond,
			Timeout:  time.Duration(cfg.Settle.TimeoutMs) * time.Millisecond,
		},
	})
}

func printResult(res ime.Result) {
	if res.Err != nil {
		fatal("%s: %v", res.Action, res.Err)
	}
	if !res.OK {
		fmt.Printf("%s: mode switch failed (now %s)\n", res.Action, res.Mode)
		os.Exit(1)
	}
	if res.Action == ime.ActionConvert {
		fmt.Printf("%s: %s\n", res.Action, res.Locale)
		return
	}
	fmt.Printf("%s: %s (%s)\n", res.Action, res.Locale, res.Mode)
}
