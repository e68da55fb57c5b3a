package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/adapter/source/tmdb"
	"github.com/mmcdole/moviehub/internal/domain"
)

// CatalogConfig contains the configuration needed to create a catalog
type CatalogConfig struct {
	BaseURL string
	APIKey  string
	Options tmdb.Options
}

// NewCatalog creates the catalog repository.
// This factory keeps callers independent of the concrete provider.
func NewCatalog(cfg *CatalogConfig, logger *slog.Logger) (domain.CatalogRepository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog config is nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("catalog API key is required (set catalog.api_key or MOVIEHUB_CATALOG_API_KEY)")
	}

	return tmdb.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Options, logger), nil
}

// NewCatalogFromConfig creates a catalog repository from the application config
func NewCatalogFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.CatalogRepository, error) {
	return NewCatalog(&CatalogConfig{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Options: tmdb.Options{
			Timeout:           cfg.Catalog.Timeout,
			RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
			Attempts:          cfg.Catalog.Attempts,
		},
	}, logger)
}
