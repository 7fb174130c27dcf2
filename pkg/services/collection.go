package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukex/scribe/pkg/kvstore"
)

// loadList decodes the JSON array stored under key. An absent key is an empty list.
func loadList[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []T{}, nil
	}

	if err != nil {
		return nil, err
	}

	if raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, key, err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

func saveList[T any](ctx context.Context, store kvstore.Store, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return store.Set(ctx, key, string(data))
}
