// Package kvstore provides the string key-value persistence used for credentials, templates and
// saved workflows.
package kvstore

import (
	"context"
	"strings"
)

// Well-known keys.
const (
	KeyAPIKey    = "ai-api-key"
	KeyTemplates = "ai-templates"
	KeyWorkflows = "ai-workflows"
)

// Store is a string key-value store. Get returns ErrNotFound for absent keys and Delete is a
// no-op for them. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	HealthCheck(ctx context.Context) error
	Close() error
}

func checkKey(op, key string) error {
	if strings.TrimSpace(key) == "" {
		return &StoreError{Op: op, Key: key, Err: ErrEmptyKey}
	}

	return nil
}
