//go:build !windows && !linux

package hotkey

import (
	"context"
	"errors"
	"log/slog"

	"imeswitch/internal/locale"
)

var errUnsupported = errors.New("global hotkeys are not supported on this platform")

// Manager is a stub on platforms without global hotkey support.
type Manager struct{}

func NewManager(*slog.Logger) *Manager { return &Manager{} }

func (m *Manager) Bind(locale.KeyCombo, string, func()) error { return errUnsupported }

func (m *Manager) Run(context.Context) error { return errUnsupported }
