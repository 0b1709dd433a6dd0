package ime

import (
	"fmt"
	"log/slog"
	"time"

	"imeswitch/internal/journal"
	"imeswitch/internal/locale"
)

// Notifier surfaces transient, best-effort user messages. Implementations
// must not block the trigger path; failures stay inside the notifier.
type Notifier interface {
	Notify(msg string)
}

// Journal records switch outcomes. It is write-only from the core and
// recording failures are logged, never propagated.
type Journal interface {
	Record(e journal.Entry) error
}

// Settle bounds the poll that waits for a requested layout change to be
// applied by the OS. A single blind sleep races a slow layout switch, so
// the layout is re-read at Interval until it matches or Timeout passes.
type Settle struct {
	Interval time.Duration
	Timeout  time.Duration
}

const (
	defaultSettleInterval = 25 * time.Millisecond
	defaultSettleTimeout  = 500 * time.Millisecond
)

func (s Settle) withDefaults() Settle {
	if s.Interval <= 0 {
		s.Interval = defaultSettleInterval
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultSettleTimeout
	}
	return s
}

// Result is the outcome of one trigger event.
type Result struct {
	Action  string // "toggle", "switch-locale", or "convert"
	Locale  string
	From    locale.LayoutID
	To      locale.LayoutID
	Mode    Mode
	OK      bool
	Err     error
}

// Trigger actions.
const (
	ActionToggle  = "toggle"
	ActionSwitch  = "switch-locale"
	ActionConvert = "convert"
)

// Options configures an Orchestrator. Notifier and Journal may be nil.
type Options struct {
	Notifier Notifier
	Journal  Journal
	Settle   Settle
	Logger   *slog.Logger
}

// Orchestrator is the top-level entry point invoked on trigger events.
// It holds no state between events: the branch between toggling and
// switching locale is taken fresh every time from live OS state, and the
// caller (the hotkey dispatcher) serializes events, so no locking guards
// the OS input context.
type Orchestrator struct {
	platform Platform
	registry *locale.Registry
	resolver *Resolver
	switcher *Switcher
	notifier Notifier
	journal  Journal
	settle   Settle
	log      *slog.Logger
	sleep    func(time.Duration)
}

// NewOrchestrator wires the state machine over the given platform and
// registry.
func NewOrchestrator(p Platform, reg *locale.Registry, opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	resolver := NewResolver(p)
	return &Orchestrator{
		platform: p,
		registry: reg,
		resolver: resolver,
		switcher: NewSwitcher(p, resolver, log),
		notifier: opts.Notifier,
		journal:  opts.Journal,
		settle:   opts.Settle.withDefaults(),
		log:      log,
		sleep:    time.Sleep,
	}
}

// Trigger handles a press of the trigger key for the given locale. When
// that locale's layout is already active the mode is toggled within it;
// otherwise the layout is switched and native mode is forced
// unconditionally, matching the "just switched language, expect native
// input" intent.
func (o *Orchestrator) Trigger(id string) Result {
	cfg, ok := o.registry.ByID(id)
	if !ok {
		return o.fail(ActionToggle, id, 0, 0, fmt.Errorf("locale %q is not configured", id))
	}

	w, err := o.platform.FocusWindow()
	if err != nil {
		return o.fail(ActionToggle, id, 0, cfg.LayoutID, fmt.Errorf("resolve focus: %w", err))
	}
	from, err := o.platform.Layout(w)
	if err != nil {
		return o.fail(ActionToggle, id, 0, cfg.LayoutID, fmt.Errorf("read layout: %w", err))
	}

	var (
		action string
		out    Outcome
	)
	if from == cfg.LayoutID {
		action = ActionToggle
		out = o.switcher.Toggle(w, cfg)
	} else {
		action = ActionSwitch
		if err := o.platform.RequestLayout(w, cfg.LayoutID); err != nil {
			return o.fail(ActionSwitch, id, from, cfg.LayoutID, fmt.Errorf("request layout: %w", err))
		}
		if !o.awaitLayout(w, cfg.LayoutID) {
			o.log.Warn("layout change not observed before timeout",
				"locale", id, "target", cfg.LayoutID.String())
		}
		out = o.switcher.DriveTo(w, ModeNative, cfg)
	}

	res := Result{
		Action: action,
		Locale: cfg.ID,
		From:   from,
		To:     cfg.LayoutID,
		Mode:   out.Mode,
		OK:     out.Reached,
	}
	o.finish(res, out)
	return res
}

// Convert handles the dedicated conversion key: a locale-specific
// auxiliary flip (e.g. a script-conversion toggle) that operates outside
// the native/alphanumeric model and is dispatched without classifying.
// The locale is the one matching the *current* layout; an unconfigured
// layout aborts the event, which is a normal outcome rather than a
// defect.
func (o *Orchestrator) Convert() Result {
	w, err := o.platform.FocusWindow()
	if err != nil {
		return o.fail(ActionConvert, "", 0, 0, fmt.Errorf("resolve focus: %w", err))
	}
	cur, err := o.platform.Layout(w)
	if err != nil {
		return o.fail(ActionConvert, "", 0, 0, fmt.Errorf("read layout: %w", err))
	}

	cfg, ok := o.registry.ByLayout(cur)
	if !ok {
		return o.fail(ActionConvert, "", cur, cur,
			fmt.Errorf("no locale configured for layout %s", cur))
	}
	if cfg.ConversionKey.IsZero() {
		return o.fail(ActionConvert, cfg.ID, cur, cur,
			fmt.Errorf("locale %q has no conversion key", cfg.ID))
	}

	if err := o.platform.SendCombo(cfg.ConversionKey); err != nil {
		return o.fail(ActionConvert, cfg.ID, cur, cur, fmt.Errorf("send conversion key: %w", err))
	}

	res := Result{Action: ActionConvert, Locale: cfg.ID, From: cur, To: cur, OK: true}
	o.finish(res, Outcome{Attempts: 1, Reached: true, Strategy: "conversion-key"})
	return res
}

// awaitLayout polls the layout at settle intervals until it matches the
// target or the timeout passes. The layout is checked before the first
// sleep, so a fast switch costs no wait at all.
func (o *Orchestrator) awaitLayout(w Window, target locale.LayoutID) bool {
	for waited := time.Duration(0); ; waited += o.settle.Interval {
		if l, err := o.platform.Layout(w); err == nil && l == target {
			return true
		}
		if waited >= o.settle.Timeout {
			return false
		}
		o.sleep(o.settle.Interval)
	}
}

func (o *Orchestrator) finish(res Result, out Outcome) {
	o.record(res, out)
	if res.OK {
		o.log.Info("trigger handled",
			"action", res.Action, "locale", res.Locale, "mode", res.Mode.String(),
			"strategy", out.Strategy, "attempts", out.Attempts)
		o.notify(fmt.Sprintf("%s: %s", res.Locale, res.Mode))
		return
	}
	o.log.Warn("switch cascade exhausted",
		"action", res.Action, "locale", res.Locale, "mode", res.Mode.String(),
		"attempts", out.Attempts)
	o.notify(fmt.Sprintf("%s: mode switch failed (now %s)", res.Locale, res.Mode))
}

// fail aborts the current trigger event. Failures are local: the event is
// abandoned, the user is told, and the next trigger starts fresh.
func (o *Orchestrator) fail(action, localeID string, from, to locale.LayoutID, err error) Result {
	res := Result{Action: action, Locale: localeID, From: from, To: to, Err: err}
	o.log.Warn("trigger aborted", "action", action, "locale", localeID, "error", err)
	o.notify(err.Error())
	o.record(res, Outcome{})
	return res
}

func (o *Orchestrator) notify(msg string) {
	if o.notifier != nil {
		o.notifier.Notify(msg)
	}
}

func (o *Orchestrator) record(res Result, out Outcome) {
	if o.journal == nil {
		return
	}
	e := journal.Entry{
		Time:     time.Now(),
		Action:   res.Action,
		Locale:   res.Locale,
		From:     res.From.String(),
		To:       res.To.String(),
		Mode:     res.Mode.String(),
		OK:       res.OK,
		Strategy: out.Strategy,
		Attempts: out.Attempts,
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if err := o.journal.Record(e); err != nil {
		o.log.Debug("journal record failed", "error", err)
	}
}
