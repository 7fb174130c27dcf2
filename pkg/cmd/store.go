package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/scribe/pkg/kvstore"
)

// NewStore opens the key-value store described by storeURL. Supported schemes are redis://,
// rediss://, postgres://, postgresql://, file:// and memory://. A bare path is a file store.
func NewStore(ctx context.Context, logger *slog.Logger, storeURL string) (kvstore.Store, error) {
	switch parseStoreProvider(storeURL) {
	case "redis", "rediss":
		return kvstore.NewRedis(ctx, logger, storeURL)
	case "postgres", "postgresql":
		return kvstore.NewPostgres(ctx, logger, storeURL)
	case "memory":
		return kvstore.NewMemory(), nil
	case "file":
		return kvstore.NewFile(storeURL)
	default:
		return nil, fmt.Errorf("%w: %s", kvstore.ErrUnsupportedScheme, storeURL)
	}
}

func parseStoreProvider(storeURL string) string {
	scheme, _, found := strings.Cut(storeURL, "://")
	if !found {
		return "file"
	}

	return strings.ToLower(scheme)
}
