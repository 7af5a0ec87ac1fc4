package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileStore keeps the session slot in a single JSON file. It is the
// default backend and the closest analog of the browser's localStorage.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(_ context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) Load(_ context.Context) (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// unreadable slot counts as empty
		return nil, nil
	}
	if s.ExpirationDate.IsZero() {
		return nil, nil
	}

	return &s, nil
}

func (f *FileStore) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
