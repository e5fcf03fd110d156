package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/viant/btuid/internal/clock"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/dao"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// Service stores state records as JSON documents in a SQLite table, one row
// per id. The primary key gives Create its exclusive semantics.
type Service struct {
	db *sql.DB
}

var _ dao.Service[string, model.Record] = (*Service)(nil)

// Open opens or creates a state database at the given path.
func Open(path string) (*Service, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Service{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS allocator_state (
			id      TEXT PRIMARY KEY,
			data    TEXT NOT NULL,
			updated TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Load retrieves a state record by id.
func (s *Service) Load(ctx context.Context, id string) (*model.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM allocator_state WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dao.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading state %s: %w", id, err)
	}
	record, err := model.DecodeRecord([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dao.ErrMalformed, id, err)
	}
	return record, nil
}

// Create inserts a state record unless the id is taken.
func (s *Service) Create(ctx context.Context, id string, record *model.Record) error {
	data, err := encode(id, record)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO allocator_state (id, data, updated) VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, string(data), clock.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting state %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting state %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", dao.ErrAlreadyExists, id)
	}
	return nil
}

// Save inserts or replaces a state record.
func (s *Service) Save(ctx context.Context, id string, record *model.Record) error {
	data, err := encode(id, record)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO allocator_state (id, data, updated) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated = excluded.updated
	`, id, string(data), clock.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving state %s: %w", id, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.db.Close()
}

func encode(id string, record *model.Record) ([]byte, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	if record == nil {
		return nil, dao.ErrNilEntity
	}
	return record.Encode()
}
