package locale

import (
	"fmt"
	"sort"
)

// Registry is the immutable locale table. It is constructed once at
// process start; every component reads it by reference.
type Registry struct {
	byID      map[string]*Config
	byLayout  map[LayoutID]*Config
	byTrigger map[string]*Config
	ordered   []*Config
}

// NewRegistry validates the given configs and builds the lookup tables.
// The configs slice is copied; later mutation of the caller's slice does
// not affect the registry.
func NewRegistry(configs []Config) (*Registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("locale registry: no locales configured")
	}

	r := &Registry{
		byID:      make(map[string]*Config, len(configs)),
		byLayout:  make(map[LayoutID]*Config, len(configs)),
		byTrigger: make(map[string]*Config, len(configs)),
	}

	for i := range configs {
		cfg := configs[i]
		if err := validate(&cfg); err != nil {
			return nil, err
		}
		if _, dup := r.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("locale %q: duplicate id", cfg.ID)
		}
		if other, dup := r.byLayout[cfg.LayoutID]; dup {
			return nil, fmt.Errorf("locale %q: layout %s already used by %q", cfg.ID, cfg.LayoutID, other.ID)
		}
		if other, dup := r.byTrigger[cfg.TriggerKey.String()]; dup {
			return nil, fmt.Errorf("locale %q: trigger %s already used by %q", cfg.ID, cfg.TriggerKey, other.ID)
		}
		c := &cfg
		r.byID[c.ID] = c
		r.byLayout[c.LayoutID] = c
		r.byTrigger[c.TriggerKey.String()] = c
		r.ordered = append(r.ordered, c)
	}

	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].ID < r.ordered[j].ID })
	return r, nil
}

func validate(cfg *Config) error {
	if cfg.ID == "" {
		return fmt.Errorf("locale config: empty id")
	}
	if cfg.LayoutID == 0 {
		return fmt.Errorf("locale %q: layout id must be set", cfg.ID)
	}
	if cfg.TriggerKey.IsZero() {
		return fmt.Errorf("locale %q: trigger key must be set", cfg.ID)
	}
	if cfg.ModeToggleKey.IsZero() {
		return fmt.Errorf("locale %q: mode toggle key must be set", cfg.ID)
	}
	if cfg.Native.Conversion == cfg.Alphanumeric.Conversion &&
		cfg.Native.Open == cfg.Alphanumeric.Open {
		return fmt.Errorf("locale %q: native and alphanumeric specs must differ in conversion mode or open status", cfg.ID)
	}
	if cfg.Native.Open != 0 && cfg.Native.Open != 1 {
		return fmt.Errorf("locale %q: native open status must be 0 or 1", cfg.ID)
	}
	if cfg.Alphanumeric.Open != 0 && cfg.Alphanumeric.Open != 1 {
		return fmt.Errorf("locale %q: alphanumeric open status must be 0 or 1", cfg.ID)
	}
	return nil
}

// ByID returns the locale with the given symbolic id.
func (r *Registry) ByID(id string) (*Config, bool) {
	cfg, ok := r.byID[id]
	return cfg, ok
}

// ByLayout returns the locale paired with the given layout. A miss is a
// normal outcome: the user is in a layout this registry does not cover.
func (r *Registry) ByLayout(id LayoutID) (*Config, bool) {
	cfg, ok := r.byLayout[id]
	return cfg, ok
}

// ByTrigger returns the locale bound to the given trigger combination.
func (r *Registry) ByTrigger(combo KeyCombo) (*Config, bool) {
	cfg, ok := r.byTrigger[combo.String()]
	return cfg, ok
}

// Locales returns the configured locales ordered by id.
func (r *Registry) Locales() []*Config {
	out := make([]*Config, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of configured locales.
func (r *Registry) Len() int {
	return len(r.ordered)
}
