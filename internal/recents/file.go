package recents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1broseidon/panehost/internal/window"
)

func stateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "panehost", "state"), nil
}

// DefaultFilePath returns ~/.config/panehost/state/lastOpenedWindows.json.
func DefaultFilePath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Key+".json"), nil
}

// DefaultSQLitePath returns ~/.config/panehost/state/panehost.db.
func DefaultSQLitePath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "panehost.db"), nil
}

// FileStore persists the list as a JSON array in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the list. A missing file is an empty list.
func (f *FileStore) Load() ([]window.Config, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []window.Config{}, nil
		}
		return nil, fmt.Errorf("failed to read recents %q: %w", f.path, err)
	}
	return Decode(data), nil
}

// Save writes the list atomically.
func (f *FileStore) Save(items []window.Config) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := Encode(items)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write recents %q: %w", f.path, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace recents %q: %w", f.path, err)
	}
	return nil
}
