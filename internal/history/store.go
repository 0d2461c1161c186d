package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dafoggo/klinh-admin/internal/logging"
	"github.com/dafoggo/klinh-admin/internal/querystate"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded change of the table location
type Entry struct {
	ID          int
	Mode        querystate.NavigationMode
	URL         string
	FilterState string
	RecordedAt  time.Time
}

// Store persists the navigation history of the table location
type Store struct {
	db *sql.DB
}

// NewStore opens (and creates if needed) the history database at path
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records an entry
func (s *Store) Add(entry Entry) error {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO navigation_history (mode, url, filter_state, recorded_at)
		VALUES (?, ?, ?, ?)`,
		string(entry.Mode),
		entry.URL,
		entry.FilterState,
		entry.RecordedAt.UnixMilli(),
	)
	return err
}

// GetRecent retrieves the most recent entries, newest first
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	return s.query(`
		SELECT id, mode, url, filter_state, recorded_at
		FROM navigation_history
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, limit)
}

// Search finds entries whose filter state mentions text
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	return s.query(`
		SELECT id, mode, url, filter_state, recorded_at
		FROM navigation_history
		WHERE filter_state LIKE ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, "%"+text+"%", limit)
}

// Prune keeps only the newest max entries
func (s *Store) Prune(max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}
	res, err := s.db.Exec(`
		DELETE FROM navigation_history
		WHERE id NOT IN (
			SELECT id FROM navigation_history
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		)`, max)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) query(q string, args ...interface{}) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var mode string
		var recordedAt int64

		if err := rows.Scan(&e.ID, &mode, &e.URL, &e.FilterState, &recordedAt); err != nil {
			return nil, err
		}
		e.Mode = querystate.NavigationMode(mode)
		e.RecordedAt = time.UnixMilli(recordedAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Recorder returns an observer for MemoryLocation that stores every change.
// key is the query parameter carrying the filter state.
func (s *Store) Recorder(key string, maxEntries int, log logging.Logger) func(querystate.Navigation) {
	if log == nil {
		log = logging.NewNop()
	}
	return func(nav querystate.Navigation) {
		entry := Entry{Mode: nav.Mode, URL: nav.URL, RecordedAt: nav.At}
		if u, err := url.Parse(nav.URL); err == nil {
			entry.FilterState = u.Query().Get(key)
		}
		if err := s.Add(entry); err != nil {
			log.Warn("failed to record navigation", "url", nav.URL, "error", err)
			return
		}
		if _, err := s.Prune(maxEntries); err != nil {
			log.Warn("failed to prune navigation history", "error", err)
		}
	}
}

// Describe renders an entry on one line
func (e Entry) Describe() string {
	state := e.FilterState
	if strings.TrimSpace(state) == "" {
		state = "(no filters)"
	}
	return fmt.Sprintf("%s  %-8s %s", e.RecordedAt.Format("2006-01-02 15:04:05"), e.Mode, state)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
