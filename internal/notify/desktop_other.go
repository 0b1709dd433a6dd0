//go:build !linux

package notify

import (
	"errors"
	"log/slog"
	"time"
)

// NewDesktop returns the platform desktop notifier. No desktop surface
// is wired on this platform; callers fall back to log notifications.
func NewDesktop(time.Duration, *slog.Logger) (Notifier, error) {
	return nil, errors.New("no desktop notification backend on this platform")
}
