package kvstore

import (
	"context"
	"sync"
)

// Memory keeps values in process memory. Used by tests and the CLI when no store is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	if err := checkKey("get", key); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", &StoreError{Op: "get", Key: key, Err: ErrNotFound}
	}

	return value, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	if err := checkKey("set", key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

func (m *Memory) HealthCheck(_ context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}
