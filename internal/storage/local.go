package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps attachment objects as files under a single directory.
// Objects are addressed by an opaque key so original file names never touch
// the filesystem.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes data under a fresh key and returns it. The original file
// name only contributes its extension.
func (s *LocalStore) Save(fileName string, data []byte) (string, error) {
	key := uuid.NewString() + filepath.Ext(fileName)
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return key, nil
}

func (s *LocalStore) Read(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, key))
}

// Path returns the absolute location of the stored object.
func (s *LocalStore) Path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *LocalStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
