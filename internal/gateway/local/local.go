// Package local is a single-machine gateway backend: items in a SQLite
// database and photos on the filesystem, both under the data directory.
package local

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pocketlist/pocketlist/internal/gateway"
)

// DBName is the database file inside the data directory.
const DBName = "todos.db"

// DefaultExpiry applies when ReadOptions.Expires is zero.
const DefaultExpiry = 15 * time.Minute

// Backend implements gateway.Gateway and gateway.Notifier.
type Backend struct {
	db      *sql.DB
	dataDir string
	owner   string

	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	debounce time.Duration
}

var (
	_ gateway.Gateway  = (*Backend)(nil)
	_ gateway.Notifier = (*Backend)(nil)
)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithDebounce sets how long Changes waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(b *Backend) { b.debounce = d }
}

// Open opens (creating if needed) the backend rooted at dataDir, scoped to owner.
func Open(dataDir, owner string, opts ...Option) (*Backend, error) {
	if owner == "" {
		return nil, fmt.Errorf("open local backend: owner is required")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(dataDir, DBName))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	b := &Backend{
		db:       db,
		dataDir:  dataDir,
		owner:    owner,
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			owner TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos(owner, seq);`,
	}
	for _, q := range queries {
		if _, err := b.db.Exec(q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Owner returns the principal the backend is scoped to.
func (b *Backend) Owner() string {
	return b.owner
}
