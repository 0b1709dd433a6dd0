//go:build linux

package notify

import (
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = "org.freedesktop.Notifications"
)

// DBusNotifier shows desktop notifications through
// org.freedesktop.Notifications with an expiry timeout. Messages are
// handed to a worker goroutine through a small buffer; when the buffer
// is full the message is dropped rather than blocking the trigger path.
type DBusNotifier struct {
	conn    *dbus.Conn
	timeout time.Duration
	queue   chan string
	log     *slog.Logger
}

// NewDBus connects to the session bus and starts the delivery worker.
func NewDBus(timeout time.Duration, log *slog.Logger) (*DBusNotifier, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	n := &DBusNotifier{
		conn:    conn,
		timeout: timeout,
		queue:   make(chan string, 16),
		log:     log,
	}
	go n.deliver()
	return n, nil
}

func (n *DBusNotifier) Notify(msg string) {
	select {
	case n.queue <- msg:
	default:
		// Queue full; drop rather than block.
	}
}

func (n *DBusNotifier) deliver() {
	obj := n.conn.Object(notifyService, notifyPath)
	for msg := range n.queue {
		call := obj.Call(notifyInterface+".Notify", 0,
			"imeswitch",              // app name
			uint32(0),                // no notification to replace
			"",                       // no icon
			"imeswitch",              // summary
			msg,                      // body
			[]string{},               // no actions
			map[string]dbus.Variant{}, // no hints
			int32(n.timeout/time.Millisecond),
		)
		if call.Err != nil {
			n.log.Debug("notification delivery failed", "error", call.Err)
		}
	}
}

// Close stops the delivery worker. Pending messages are dropped.
func (n *DBusNotifier) Close() error {
	close(n.queue)
	return nil
}

// NewDesktop returns the platform desktop notifier.
func NewDesktop(timeout time.Duration, log *slog.Logger) (Notifier, error) {
	return NewDBus(timeout, log)
}
