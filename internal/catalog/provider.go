package catalog

import (
	"fmt"
	"time"

	"github.com/semg6/personal-library/internal/config"
)

// openLibraryInterval keeps us within Open Library's request etiquette.
const openLibraryInterval = time.Second

// New builds the client selected by CATALOG_PROVIDER.
func New(cfg config.Catalog) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGoogleBooks, "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultGoogleBooksURL
		}
		return NewGoogleBooksClient(baseURL, cfg.APIKey, cfg.Timeout), nil
	case config.ProviderOpenLibrary:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOpenLibraryURL
		}
		return NewOpenLibraryClient(baseURL, cfg.Timeout, openLibraryInterval), nil
	default:
		return nil, fmt.Errorf("unknown catalog provider %q", cfg.Provider)
	}
}
