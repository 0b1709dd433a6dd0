package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileJournal appends line records to a plain text file.
type FileJournal struct {
	mu sync.Mutex
	f  *os.File
}

// OpenFile opens or creates the journal file in append mode.
func OpenFile(path string) (*FileJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	return &FileJournal{f: f}, nil
}

// Record writes one timestamped key=value line.
func (j *FileJournal) Record(e Entry) error {
	var b strings.Builder
	b.WriteString(e.Time.Format(time.RFC3339Nano))
	fmt.Fprintf(&b, " action=%s locale=%s from=%s to=%s mode=%s ok=%t",
		e.Action, e.Locale, e.From, e.To, e.Mode, e.OK)
	if e.Strategy != "" {
		fmt.Fprintf(&b, " strategy=%s attempts=%d", e.Strategy, e.Attempts)
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%q", e.Error)
	}
	b.WriteByte('\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.f.WriteString(b.String())
	return err
}

func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}
