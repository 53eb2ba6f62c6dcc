package selection

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ppiankov/specmatrix/internal/model"
)

const keyPrefix = "compare_mem_"

// StorageKey returns the persisted key of a category's comparison set
func StorageKey(category model.Category) string {
	return keyPrefix + string(category)
}

// categoryFromKey inverts StorageKey
func categoryFromKey(key string) (model.Category, bool) {
	if !strings.HasPrefix(key, keyPrefix) {
		return "", false
	}
	cat, err := model.ParseCategory(strings.TrimPrefix(key, keyPrefix))
	if err != nil {
		return "", false
	}
	return cat, true
}

// Backend is the string key-value store selections persist to
type Backend interface {
	Load(key string) (value string, found bool, err error)
	Save(key, value string) error
}

// MemoryBackend keeps selections in a map
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

// Load returns the value stored under key
func (b *MemoryBackend) Load(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok, nil
}

// Save stores value under key
func (b *MemoryBackend) Save(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

// FileBackend stores one plain-text file per key, shared between processes
type FileBackend struct {
	dir string
}

const fileExt = ".list"

// NewFileBackend creates a backend rooted at dir
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Dir returns the directory holding the selection files
func (b *FileBackend) Dir() string {
	return b.dir
}

// Load reads the file for key; a missing file is an empty selection
func (b *FileBackend) Load(key string) (string, bool, error) {
	path, err := b.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read selection: %w", err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Save writes the file for key atomically
func (b *FileBackend) Save(key, value string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create selection dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write selection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close selection: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename selection: %w", err)
	}
	return nil
}

func (b *FileBackend) path(key string) (string, error) {
	if key == "" || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid selection key %q", key)
	}
	return filepath.Join(b.dir, key+fileExt), nil
}

// keyFromPath maps a file written by FileBackend back to its key
func keyFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return strings.TrimSuffix(name, fileExt), true
}
