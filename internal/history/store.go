// Package history keeps a SQLite log of EEPROM operations run by the CLI.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Operation status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Operation is one recorded command.
type Operation struct {
	ID        string
	Kind      string // read, write, verify, erase, selftest
	Bridge    string
	Part      string
	Address   uint8
	Start     int
	Length    int
	Digest    string
	Status    string
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Finish sets the status, error and duration from err and the start time.
func (o *Operation) Finish(err error) {
	o.Duration = time.Since(o.StartedAt)
	if err != nil {
		o.Status = StatusFailed
		o.Error = err.Error()
		return
	}
	o.Status = StatusOK
}

// Store provides SQLite persistence for operations.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens the database at dbPath, creating the schema as needed.
// Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		bridge TEXT NOT NULL,
		part TEXT NOT NULL,
		address INTEGER NOT NULL,
		start INTEGER NOT NULL DEFAULT 0,
		length INTEGER NOT NULL DEFAULT 0,
		digest TEXT,
		status TEXT NOT NULL,
		error TEXT,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_operations_started_at ON operations(started_at);
	CREATE INDEX IF NOT EXISTS idx_operations_part ON operations(part);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts op. An empty ID is replaced by a new UUID.
func (s *Store) Record(op *Operation) error {
	if op.ID == "" {
		op.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO operations (id, kind, bridge, part, address, start, length,
		                        digest, status, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, op.ID, op.Kind, op.Bridge, op.Part, int(op.Address), op.Start, op.Length,
		nullString(op.Digest), op.Status, nullString(op.Error),
		op.StartedAt.UTC(), op.Duration.Milliseconds())
	return err
}

// Get retrieves an operation by ID. It returns nil when none exists.
func (s *Store) Get(id string) (*Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, err := scanOperation(s.db.QueryRow(selectOperations+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return op, err
}

// List returns operations, most recent first. A non-empty part restricts
// the result to that part.
func (s *Store) List(part string, limit, offset int) ([]Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(selectOperations+`
		WHERE (? = '' OR part = ?)
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`, part, part, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, *op)
	}
	return ops, rows.Err()
}

// DeleteBefore removes operations started before t and returns how many
// were removed.
func (s *Store) DeleteBefore(t time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM operations WHERE started_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const selectOperations = `
	SELECT id, kind, bridge, part, address, start, length, digest, status,
	       error, started_at, duration_ms
	FROM operations`

type scanner interface {
	Scan(dest ...any) error
}

func scanOperation(row scanner) (*Operation, error) {
	var op Operation
	var address int
	var digest, errMsg sql.NullString
	var durationMS int64

	if err := row.Scan(
		&op.ID, &op.Kind, &op.Bridge, &op.Part, &address, &op.Start, &op.Length,
		&digest, &op.Status, &errMsg, &op.StartedAt, &durationMS,
	); err != nil {
		return nil, err
	}

	op.Address = uint8(address)
	op.Digest = digest.String
	op.Error = errMsg.String
	op.Duration = time.Duration(durationMS) * time.Millisecond
	return &op, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
