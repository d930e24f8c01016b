// Package cmd provides shared wiring helpers for the service entrypoints.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tradeflow-io/tradeflow/pkg/catalog"
	"github.com/tradeflow-io/tradeflow/pkg/catalog/file"
	"github.com/tradeflow-io/tradeflow/pkg/catalog/postgresql"
)

// NewCatalog selects a catalog backend from the URL scheme. file:// paths
// load JSON documents; postgres:// URLs open the hosted database.
func NewCatalog(ctx context.Context, logger *slog.Logger, catalogURL string) (catalog.Catalog, error) {
	switch parseCatalogProvider(catalogURL) {
	case "postgres", "postgresql":
		cat, err := postgresql.NewCatalog(ctx, logger, catalogURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgresql catalog: %w", err)
		}

		return cat, nil
	default:
		cat, err := file.NewCatalog(catalogURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load file catalog: %w", err)
		}

		return cat, nil
	}
}

func parseCatalogProvider(catalogURL string) string {
	provider, _, found := strings.Cut(catalogURL, "://")
	if !found {
		return "file"
	}

	return provider
}
