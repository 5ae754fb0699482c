package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/migration"
	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/migrations"
)

// SQLiteStore keeps the document in the documents table of a SQLite file.
type SQLiteStore struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
		now:  time.Now,
	}
}

func (s *SQLiteStore) Init() error {
	if err := initDocument(s, s.now()); err != nil {
		if errors.Is(err, ErrAlreadyInitialized) {
			return fmt.Errorf("%w at %s", err, s.path)
		}
		return err
	}
	return nil
}

func (s *SQLiteStore) Load() (*models.State, error) {
	return loadDocument(s, s.now())
}

func (s *SQLiteStore) Save(state *models.State) error {
	return saveDocument(s, state)
}

func (s *SQLiteStore) Reset() error {
	return resetDocument(s)
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB exposes the underlying handle for diagnostics.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) prepare() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	runner, err := migration.NewRunner(db, migrations.SQLite(), migration.DriverSQLite)
	if err != nil {
		db.Close()
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg, "backend", "sqlite")
	}); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) readDoc() ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM documents WHERE key = ?", constants.StorageKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *SQLiteStore) writeDoc(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, constants.StorageKey, string(data), s.now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) deleteDoc() error {
	_, err := s.db.Exec("DELETE FROM documents WHERE key = ?", constants.StorageKey)
	return err
}
