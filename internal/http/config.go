package http

import (
	"github.com/semg6/personal-library/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Library  Library
	Database *database.Database

	// Stored catalog records served under /results
	Records RecordLocator

	// Cover caching (optional)
	CoverCache CoverFetcher

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Reader shown when the request does not pick one
	DefaultUserID uint

	// CSRF protection for form posts; disabled when the secret is empty
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}
