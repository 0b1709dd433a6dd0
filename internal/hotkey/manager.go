//go:build windows || linux

// Package hotkey registers global trigger keys and dispatches their
// actions on a single goroutine, so trigger handling never overlaps.
package hotkey

import (
	"context"
	"fmt"
	"log/slog"

	"golang.design/x/hotkey"

	"imeswitch/internal/locale"
)

type binding struct {
	name   string
	action func()
	mods   []hotkey.Modifier
	key    hotkey.Key
	hk     *hotkey.Hotkey
}

// Manager owns the registered hotkeys. Bindings are added up front with
// Bind and armed by Run; the set is fixed for the life of the process.
type Manager struct {
	log      *slog.Logger
	bindings []*binding
}

func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{log: log}
}

// Bind associates a key combination with a named action. The combo is
// validated eagerly so a bad config line fails at startup, not on first
// press.
func (m *Manager) Bind(combo locale.KeyCombo, name string, action func()) error {
	if combo.IsZero() {
		return fmt.Errorf("binding %q: empty key combination", name)
	}
	mods, key, err := mapCombo(combo)
	if err != nil {
		return fmt.Errorf("binding %q: %w", name, err)
	}
	m.bindings = append(m.bindings, &binding{
		name:   name,
		action: action,
		mods:   mods,
		key:    key,
	})
	return nil
}

// Run registers every binding with the OS and blocks dispatching events
// until ctx is cancelled. Keydown events from all hotkeys are funneled
// into one channel and actions run sequentially on this goroutine: a
// press that arrives while an action is still running waits its turn.
func (m *Manager) Run(ctx context.Context) error {
	events := make(chan *binding, 8)

	for _, b := range m.bindings {
		b.hk = hotkey.New(b.mods, b.key)
		if err := b.hk.Register(); err != nil {
			m.unregister()
			return fmt.Errorf("register %q: %w", b.name, err)
		}
		m.log.Info("hotkey registered", "binding", b.name)

		go func(b *binding) {
			for {
				select {
				case <-ctx.Done():
					return
				case <-b.hk.Keydown():
					select {
					case events <- b:
					default:
						// An action is running and one press is already
						// queued; extra presses are dropped rather than
						// replayed late.
						m.log.Debug("hotkey press dropped", "binding", b.name)
					}
				}
			}
		}(b)
	}

	for {
		select {
		case <-ctx.Done():
			m.unregister()
			return ctx.Err()
		case b := <-events:
			m.log.Debug("hotkey pressed", "binding", b.name)
			b.action()
		}
	}
}

func (m *Manager) unregister() {
	for _, b := range m.bindings {
		if b.hk != nil {
			if err := b.hk.Unregister(); err != nil {
				m.log.Warn("hotkey unregister failed", "binding", b.name, "error", err)
			}
			b.hk = nil
		}
	}
}

// mapCombo translates a parsed key combination into the library's
// modifier and key codes.
func mapCombo(c locale.KeyCombo) ([]hotkey.Modifier, hotkey.Key, error) {
	mods := make([]hotkey.Modifier, 0, len(c.Mods))
	for _, m := range c.Mods {
		hm, ok := modifierMap[m]
		if !ok {
			return nil, 0, fmt.Errorf("unsupported modifier %q", m)
		}
		mods = append(mods, hm)
	}
	key, ok := namedKeys[c.Key]
	if !ok {
		return nil, 0, fmt.Errorf("key %q cannot be a global hotkey", c.Key)
	}
	return mods, key, nil
}

var namedKeys = map[string]hotkey.Key{
	"space": hotkey.KeySpace,
	"tab":   hotkey.KeyTab,
	"enter": hotkey.KeyReturn,
	"esc":   hotkey.KeyEscape,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}
