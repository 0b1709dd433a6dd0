package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry() Entry {
	return Entry{
		Time:     time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Action:   "switch-locale",
		Locale:   "ja",
		From:     "0x08040804",
		To:       "0x04110411",
		Mode:     "native",
		OK:       true,
		Strategy: "conversion-mode",
		Attempts: 1,
	}
}

func TestFileJournalAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "switch.log")

	j, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(testEntry()))

	failed := testEntry()
	failed.OK = false
	failed.Strategy = ""
	failed.Attempts = 4
	failed.Error = "cascade exhausted"
	require.NoError(t, j.Record(failed))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "action=switch-locale locale=ja from=0x08040804 to=0x04110411 mode=native ok=true")
	assert.Contains(t, s, "strategy=conversion-mode attempts=1")
	assert.Contains(t, s, `ok=false error="cascade exhausted"`)
}

func TestSQLiteJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "switch.db")

	j, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(testEntry()))
	require.NoError(t, j.Close())

	// Write-only from the core; verify persistence directly.
	j2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	var count int
	require.NoError(t, j2.db.QueryRow(`SELECT COUNT(*) FROM switch_events`).Scan(&count))
	assert.Equal(t, 1, count)

	var loc, mode string
	var ok bool
	require.NoError(t, j2.db.QueryRow(
		`SELECT locale, mode, ok FROM switch_events`).Scan(&loc, &mode, &ok))
	assert.Equal(t, "ja", loc)
	assert.Equal(t, "native", mode)
	assert.True(t, ok)
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	r, err := Open(BackendNone, "")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, r)

	r, err = Open(BackendFile, filepath.Join(dir, "j.log"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = Open(BackendSQLite, filepath.Join(dir, "j.db"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = Open("redis", "")
	assert.Error(t, err)
}
