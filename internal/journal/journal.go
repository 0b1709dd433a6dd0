// Package journal persists an append-only record of switch outcomes.
// The journal is write-only from the switching core: entries are never
// read back, and recording failures must not disturb a trigger event.
package journal

import (
	"fmt"
	"time"
)

// Entry is one timestamped switch outcome.
type Entry struct {
	Time     time.Time
	Action   string
	Locale   string
	From     string
	To       string
	Mode     string
	OK       bool
	Strategy string
	Attempts int
	Error    string
}

// Recorder appends entries to a journal backend.
type Recorder interface {
	Record(e Entry) error
	Close() error
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(Entry) error { return nil }
func (Nop) Close() error       { return nil }

// Backends accepted by Open.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the recorder for the configured backend.
func Open(backend, path string) (Recorder, error) {
	switch backend {
	case "", BackendNone:
		return Nop{}, nil
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("journal: unknown backend %q", backend)
	}
}
