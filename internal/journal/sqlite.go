package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS switch_events (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp_ns INTEGER NOT NULL,
    action       TEXT NOT NULL,
    locale       TEXT NOT NULL,
    from_layout  TEXT NOT NULL,
    to_layout    TEXT NOT NULL,
    mode         TEXT NOT NULL,
    ok           INTEGER NOT NULL,
    strategy     TEXT,
    attempts     INTEGER NOT NULL,
    error        TEXT
);

CREATE INDEX IF NOT EXISTS idx_switch_events_time ON switch_events(timestamp_ns);
`

// SQLiteJournal appends entries to a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

// OpenSQLite opens or creates the journal database at the given path.
func OpenSQLite(path string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Record(e Entry) error {
	_, err := j.db.Exec(`
		INSERT INTO switch_events (timestamp_ns, action, locale, from_layout, to_layout, mode, ok, strategy, attempts, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Time.UnixNano(), e.Action, e.Locale, e.From, e.To, e.Mode, e.OK, e.Strategy, e.Attempts, e.Error,
	)
	if err != nil {
		return fmt.Errorf("journal: insert event: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
