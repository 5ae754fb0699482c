package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
)

// backend is the raw key/value surface each Provider is built on. Every
// backend stores exactly one document.
type backend interface {
	prepare() error
	readDoc() ([]byte, bool, error)
	writeDoc([]byte) error
	deleteDoc() error
}

var errNullDocument = errors.New("document is null")

func encodeState(state *models.State) ([]byte, error) {
	doc := state.Clone()
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*models.State, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, errNullDocument
	}
	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	state.Normalize()
	return &state, nil
}

func initDocument(b backend, now time.Time) error {
	if err := b.prepare(); err != nil {
		return err
	}
	_, found, err := b.readDoc()
	if err != nil {
		return err
	}
	if found {
		return ErrAlreadyInitialized
	}
	return saveDocument(b, models.DefaultState(now))
}

func loadDocument(b backend, now time.Time) (*models.State, error) {
	if err := b.prepare(); err != nil {
		return nil, err
	}

	data, found, err := b.readDoc()
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if found {
		state, err := decodeState(data)
		if err == nil {
			return state, nil
		}
		logger.Warn("Stored document is corrupt, regenerating defaults", "error", err)
	} else {
		logger.Debug("No stored document, bootstrapping defaults")
	}

	state := models.DefaultState(now)
	if err := saveDocument(b, state); err != nil {
		return nil, err
	}
	return state, nil
}

func saveDocument(b backend, state *models.State) error {
	if state == nil {
		return errors.New("cannot save nil state")
	}
	if err := b.prepare(); err != nil {
		return err
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := b.writeDoc(data); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func resetDocument(b backend) error {
	if err := b.prepare(); err != nil {
		return err
	}
	if err := b.deleteDoc(); err != nil {
		return fmt.Errorf("failed to reset storage: %w", err)
	}
	return nil
}
