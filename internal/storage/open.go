package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/selfrpg/internal/keyring"
)

// KeyringRef is the --config value that reads the PostgreSQL connection
// string from the OS keyring.
const KeyringRef = "keyring"

// Options selects a storage backend.
type Options struct {
	// Config is a file path, a PostgreSQL URL without password, or KeyringRef.
	Config string
	// DBConnection overrides Config with a full PostgreSQL connection
	// string. It may carry a password since it never touches disk.
	DBConnection string
}

// Open picks the Provider for opts. Paths ending in .json use JSONStore,
// PostgreSQL connection strings use PostgresStore, everything else is a
// SQLite file.
func Open(opts Options) (Provider, error) {
	if opts.DBConnection != "" {
		return NewPostgresStore(opts.DBConnection), nil
	}

	cfg := strings.TrimSpace(opts.Config)
	switch {
	case cfg == KeyringRef:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("%w: run 'selfrpg keyring set' first", err)
			}
			return nil, err
		}
		return NewPostgresStore(connStr), nil
	case IsPostgresConnString(cfg):
		if err := ValidateConnString(cfg); err != nil {
			return nil, err
		}
		return NewPostgresStore(cfg), nil
	}

	path, err := ExpandPath(cfg)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path), nil
	}
	return NewSQLiteStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("config path cannot be empty")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// ConfigDir returns the directory that holds logs, backups and the lock for
// a provider. PostgreSQL setups fall back to the default local directory.
func ConfigDir(p Provider, fallback string) string {
	if _, ok := p.(*PostgresStore); ok {
		return fallback
	}
	return filepath.Dir(p.GetConfigPath())
}
