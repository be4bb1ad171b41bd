package file

import (
	"context"
	"path/filepath"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Store implements ports.SessionStore using the local filesystem.
// It stores sessions as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".scribe/sessions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".scribe", "sessions")
	}
	return &Store{BasePath: basePath}
}

// Save persists the session to a JSON file atomically.
func (s *Store) Save(_ context.Context, sessionID string, session *domain.Session) error {
	if err := validID("session", sessionID); err != nil {
		return err
	}
	return writeJSON(s.BasePath, sessionID+".json", session)
}

// Load retrieves the session from its JSON file.
func (s *Store) Load(_ context.Context, sessionID string) (*domain.Session, error) {
	if err := validID("session", sessionID); err != nil {
		return nil, err
	}
	var session domain.Session
	if err := readJSON(s.BasePath, sessionID+".json", &session, domain.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes the session file. Missing files are not an error.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	if err := validID("session", sessionID); err != nil {
		return err
	}
	return removeFile(s.BasePath, sessionID+".json")
}

// List returns all stored session IDs.
func (s *Store) List(_ context.Context) ([]string, error) {
	return listIDs(s.BasePath)
}
