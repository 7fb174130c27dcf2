package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/kvstore"
)

// Settings stores the completion API key under kvstore.KeyAPIKey and serves it as a
// completion.CredentialSource.
type Settings struct {
	store kvstore.Store
}

var _ completion.CredentialSource = (*Settings)(nil)

func NewSettings(store kvstore.Store) *Settings {
	return &Settings{store: store}
}

// SetAPIKey saves key. A blank key removes the stored one.
func (s *Settings) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.store.Delete(ctx, kvstore.KeyAPIKey)
	}

	return s.store.Set(ctx, kvstore.KeyAPIKey, key)
}

// APIKey returns the stored key, or "" when none is saved.
func (s *Settings) APIKey(ctx context.Context) (string, error) {
	key, err := s.store.Get(ctx, kvstore.KeyAPIKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}

	return key, err
}

func (s *Settings) HasAPIKey(ctx context.Context) (bool, error) {
	key, err := s.APIKey(ctx)

	return key != "", err
}

// Credentials prefers a key fixed at startup and falls back to the stored one.
func Credentials(static string, settings *Settings) completion.CredentialSource {
	if strings.TrimSpace(static) != "" {
		return completion.StaticKey(static)
	}

	return settings
}
