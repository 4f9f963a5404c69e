package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a small persisted key/value store for the anonymous identity,
// playing the role a browser's local storage does for the web client. A missing or
// corrupt file is treated as empty; identity resolution never fails on it.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

func NewFileStore(path string) *FileStore {
	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return s
	}
	// a file holding the literal null unmarshals to a nil map
	if values != nil {
		s.values = values
	}

	return s
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}
