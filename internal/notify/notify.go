// Package notify is the transient notification surface: short messages
// shown long enough to be readable, then auto-dismissed. All delivery is
// best-effort; a notifier never blocks or fails the switching core.
package notify

import "log/slog"

// Notifier delivers one transient message.
type Notifier interface {
	Notify(msg string)
}

// Func adapts a function to the Notifier interface.
type Func func(msg string)

func (f Func) Notify(msg string) { f(msg) }

// LogNotifier surfaces notices through the structured log. It is the
// fallback on platforms without a native notification service.
type LogNotifier struct {
	log *slog.Logger
}

// NewLog returns a notifier writing to the given logger. A nil logger
// falls back to slog.Default.
func NewLog(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(msg string) {
	n.log.Info("notice", "message", msg)
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(msg string) {
	for _, n := range m {
		n.Notify(msg)
	}
}
