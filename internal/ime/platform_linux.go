//go:build linux

package ime

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"imeswitch/internal/locale"
)

// IBus D-Bus constants.
const (
	ibusService   = "org.freedesktop.IBus"
	ibusPath      = "/org/freedesktop/IBus"
	ibusInterface = "org.freedesktop.IBus"
)

// linuxPlatform maps locales onto IBus global engines. IBus exposes no
// conversion-mode or open-status readback, so the probe reports
// ErrUnsupported and every classification degrades to Unknown; the
// toggle path for Unknown (blind toggle key) cannot be synthesized
// either, which leaves layout switching as the supported surface here.
type linuxPlatform struct {
	mu   sync.Mutex
	conn *dbus.Conn

	engineByLayout map[locale.LayoutID]string
	layoutByEngine map[string]locale.LayoutID
}

func newPlatform(reg *locale.Registry) Platform {
	p := &linuxPlatform{
		engineByLayout: make(map[locale.LayoutID]string),
		layoutByEngine: make(map[string]locale.LayoutID),
	}
	if reg != nil {
		for _, cfg := range reg.Locales() {
			if cfg.EngineName == "" {
				continue
			}
			p.engineByLayout[cfg.LayoutID] = cfg.EngineName
			p.layoutByEngine[cfg.EngineName] = cfg.LayoutID
		}
	}
	return p
}

func (*linuxPlatform) Name() string { return "linux" }

func (p *linuxPlatform) Available() (bool, string) {
	if _, err := p.bus(); err != nil {
		return false, fmt.Sprintf("session bus unavailable: %v", err)
	}
	return true, ""
}

func (p *linuxPlatform) bus() (*dbus.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return p.conn, nil
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("ime: connect session bus: %w", err)
	}
	p.conn = conn
	return conn, nil
}

// FocusWindow returns the global input context; IBus does not scope the
// global engine per window.
func (*linuxPlatform) FocusWindow() (Window, error) {
	return 0, nil
}

// Layout reports the layout mapped to the current IBus global engine. An
// engine outside the registry maps to layout 0, which no configured
// locale uses, so registry lookups miss naturally.
func (p *linuxPlatform) Layout(Window) (locale.LayoutID, error) {
	name, err := p.currentEngine()
	if err != nil {
		return 0, err
	}
	return p.layoutByEngine[name], nil
}

func (p *linuxPlatform) RequestLayout(_ Window, id locale.LayoutID) error {
	engine, ok := p.engineByLayout[id]
	if !ok {
		return fmt.Errorf("ime: no IBus engine configured for layout %s", id)
	}
	conn, err := p.bus()
	if err != nil {
		return err
	}
	obj := conn.Object(ibusService, ibusPath)
	if call := obj.Call(ibusInterface+".SetGlobalEngine", 0, engine); call.Err != nil {
		return fmt.Errorf("ime: set global engine %q: %w", engine, call.Err)
	}
	return nil
}

func (p *linuxPlatform) currentEngine() (string, error) {
	conn, err := p.bus()
	if err != nil {
		return "", err
	}
	obj := conn.Object(ibusService, ibusPath)
	var v dbus.Variant
	if err := obj.Call(ibusInterface+".GetGlobalEngine", 0).Store(&v); err != nil {
		return "", fmt.Errorf("ime: get global engine: %w", err)
	}
	// The reply is an IBusEngineDesc serialization; the engine name is
	// the first string field after the type marker and attachments.
	desc, ok := v.Value().([]interface{})
	if !ok || len(desc) < 3 {
		return "", fmt.Errorf("ime: unexpected engine description %T", v.Value())
	}
	name, ok := desc[2].(string)
	if !ok {
		return "", fmt.Errorf("ime: unexpected engine name field %T", desc[2])
	}
	return name, nil
}

func (*linuxPlatform) ConversionMode(Window) (int, error) { return 0, ErrUnsupported }
func (*linuxPlatform) OpenStatus(Window) (int, error)     { return 0, ErrUnsupported }
func (*linuxPlatform) SetConversionMode(Window, int) error {
	return ErrUnsupported
}
func (*linuxPlatform) SetOpenStatus(Window, int) error {
	return ErrUnsupported
}
func (*linuxPlatform) SendCombo(locale.KeyCombo) error {
	return ErrUnsupported
}
