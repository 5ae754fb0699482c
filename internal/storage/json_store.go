package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/selfrpg/internal/models"
)

// JSONStore keeps the document as a pretty-printed JSON file.
type JSONStore struct {
	path string
	now  func() time.Time
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
		now:  time.Now,
	}
}

func (s *JSONStore) Init() error {
	if err := initDocument(s, s.now()); err != nil {
		if errors.Is(err, ErrAlreadyInitialized) {
			return fmt.Errorf("%w at %s", err, s.path)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Load() (*models.State, error) {
	return loadDocument(s, s.now())
}

func (s *JSONStore) Save(state *models.State) error {
	return saveDocument(s, state)
}

func (s *JSONStore) Reset() error {
	return resetDocument(s)
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) prepare() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

func (s *JSONStore) readDoc() ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// writeDoc replaces the file atomically: a temp file in the same directory
// is renamed over the target.
func (s *JSONStore) writeDoc(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

func (s *JSONStore) deleteDoc() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
