package storage

import (
	"errors"

	"github.com/julianstephens/selfrpg/internal/models"
)

var ErrAlreadyInitialized = errors.New("storage already initialized")

// Provider persists the single selfrpg document.
type Provider interface {
	// Init prepares the backend and writes the default document. It fails
	// with ErrAlreadyInitialized when a document is already stored.
	Init() error
	// Load returns the stored document. A missing document is replaced by
	// the default one, and so is a document that no longer parses.
	Load() (*models.State, error)
	Save(*models.State) error
	// Reset removes the stored document. The next Load bootstraps defaults.
	Reset() error
	Close() error

	GetConfigPath() string
}
