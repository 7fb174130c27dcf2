package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// File stores every key as a JSON document under <root>/kv.
type File struct {
	root string
	mu   sync.RWMutex
}

type fileEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFile creates a file store rooted at root, which may carry a file:// prefix.
func NewFile(root string) (*File, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)
	if cleanRoot == "" {
		return nil, errors.New("file store root is empty")
	}

	if err := os.MkdirAll(filepath.Join(cleanRoot, "kv"), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &File{root: cleanRoot}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.root, "kv", url.PathEscape(key)+".json")
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	if err := checkKey("get", key); err != nil {
		return "", err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", &StoreError{Op: "get", Key: key, Err: ErrNotFound}
	}

	if err != nil {
		return "", &StoreError{Op: "get", Key: key, Err: err}
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", &StoreError{Op: "get", Key: key, Err: fmt.Errorf("corrupt entry: %w", err)}
	}

	return entry.Value, nil
}

// Set writes through a temporary file and rename so readers never see a partial document.
func (f *File) Set(_ context.Context, key, value string) error {
	if err := checkKey("set", key); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return &StoreError{Op: "set", Key: key, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return &StoreError{Op: "set", Key: key, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return &StoreError{Op: "set", Key: key, Err: err}
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return &StoreError{Op: "set", Key: key, Err: err}
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())

		return &StoreError{Op: "set", Key: key, Err: err}
	}

	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}

	return nil
}

// HealthCheck checks the store directory still exists.
func (f *File) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(filepath.Join(f.root, "kv")); err != nil {
		return fmt.Errorf("file store unavailable: %w", err)
	}

	return nil
}

func (f *File) Close() error {
	return nil
}
