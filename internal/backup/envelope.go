package backup

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/models"
)

var (
	ErrEmptyImport     = errors.New("nothing to import")
	ErrMissingPayload  = errors.New("backup payload not found")
	ErrInvalidEnvelope = errors.New("invalid backup structure")
	ErrInvalidDocument = errors.New("invalid JSON structure: attributes and actions are required")
)

// Envelope is the JSON payload carried inside an RPG_BACKUP message.
type Envelope struct {
	V         int           `json:"v"`
	UpdatedAt int64         `json:"updatedAt"`
	State     *models.State `json:"state"`
}

// Encode builds the two-line "RPG_BACKUP v1" message for state.
func Encode(state *models.State, now time.Time) (string, error) {
	doc := state.Clone()
	doc.Normalize()

	payload, err := json.Marshal(Envelope{
		V:         constants.EnvelopeVersion,
		UpdatedAt: now.UnixMilli(),
		State:     doc,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	return constants.EnvelopeHeader + "\n" + base64.StdEncoding.EncodeToString(payload), nil
}

// ParseImport accepts either an RPG_BACKUP message or a plain JSON
// document and returns the state it carries. Beyond the presence checks no
// schema validation is done.
func ParseImport(raw string) (*models.State, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyImport
	}
	if strings.HasPrefix(raw, constants.EnvelopePrefix) {
		return parseEnvelope(raw)
	}
	return parseDocument([]byte(raw))
}

func parseEnvelope(raw string) (*models.State, error) {
	var payload string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == constants.EnvelopeHeader || strings.HasPrefix(line, "(") {
			continue
		}
		payload = line
		break
	}
	if payload == "" {
		return nil, ErrMissingPayload
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: payload is not base64: %v", ErrInvalidEnvelope, err)
		}
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if env.State == nil {
		return nil, fmt.Errorf("%w: missing state", ErrInvalidEnvelope)
	}
	env.State.Normalize()
	return env.State, nil
}

func parseDocument(data []byte) (*models.State, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for _, k := range []string{"attributes", "actions"} {
		v, ok := keys[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, ErrInvalidDocument
		}
	}

	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	state.Normalize()
	return &state, nil
}
