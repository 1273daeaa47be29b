// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

// ErrNotFound is returned when a session record does not exist.
var ErrNotFound = errors.New("session not found")

const defaultListLimit = 20

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store keeps finished session records.
type Store interface {
	Save(ctx context.Context, rec types.SessionRecord) error
	Get(ctx context.Context, id string) (types.SessionRecord, error)
	// List returns up to limit records, most recently started first.
	List(ctx context.Context, limit int) ([]types.SessionRecord, error)
	Close() error
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.SessionRecord
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.SessionRecord)}
}

func (m *MemoryStore) Save(_ context.Context, rec types.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.PapersRead = append([]string(nil), rec.PapersRead...)
	m.records[rec.ID] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (types.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return types.SessionRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]types.SessionRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	m.mu.RLock()
	out := make([]types.SessionRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

// SQLiteStore persists session records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the session database at path and creates the
// schema if it does not exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			status TEXT NOT NULL,
			calls_used INTEGER NOT NULL,
			papers_read TEXT NOT NULL,
			document_url TEXT,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save inserts or replaces the record with rec.ID.
func (s *SQLiteStore) Save(ctx context.Context, rec types.SessionRecord) error {
	papers := rec.PapersRead
	if papers == nil {
		papers = []string{}
	}
	papersJSON, err := json.Marshal(papers)
	if err != nil {
		return fmt.Errorf("encoding papers read: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, query, status, calls_used, papers_read, document_url, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			query=excluded.query, status=excluded.status, calls_used=excluded.calls_used,
			papers_read=excluded.papers_read, document_url=excluded.document_url,
			error=excluded.error, started_at=excluded.started_at, finished_at=excluded.finished_at`,
		rec.ID, rec.Query, rec.Status, rec.CallsUsed, string(papersJSON),
		rec.DocumentURL, rec.Error,
		rec.StartedAt.UTC().Format(timeLayout), rec.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", rec.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, query, status, calls_used, papers_read, document_url, error, started_at, finished_at FROM sessions`

// Get returns the record with the given id, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (types.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.SessionRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List returns up to limit records, most recently started first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]types.SessionRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []types.SessionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (types.SessionRecord, error) {
	var (
		rec                   types.SessionRecord
		papersJSON            string
		docURL, errMsg        sql.NullString
		startedAt, finishedAt string
	)
	if err := row.Scan(&rec.ID, &rec.Query, &rec.Status, &rec.CallsUsed, &papersJSON,
		&docURL, &errMsg, &startedAt, &finishedAt); err != nil {
		return types.SessionRecord{}, err
	}
	if err := json.Unmarshal([]byte(papersJSON), &rec.PapersRead); err != nil {
		return types.SessionRecord{}, fmt.Errorf("decoding papers read for %s: %w", rec.ID, err)
	}
	rec.DocumentURL = docURL.String
	rec.Error = errMsg.String

	var err error
	if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return types.SessionRecord{}, fmt.Errorf("parsing started_at for %s: %w", rec.ID, err)
	}
	if rec.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
		return types.SessionRecord{}, fmt.Errorf("parsing finished_at for %s: %w", rec.ID, err)
	}
	return rec, nil
}
