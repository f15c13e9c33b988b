package covers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "PersonalLibrary/1.0"

// Cache handles local caching of book cover images.
type Cache struct {
	cacheDir   string
	httpClient *resty.Client
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string, timeout time.Duration) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir:   cacheDir,
		httpClient: newHTTPClient(timeout),
	}, nil
}

func newHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
}

// GetCover returns the cached cover for a book, or fetches and caches it if not present.
// Returns the file path to the cached cover, or empty string if unavailable.
func (c *Cache) GetCover(ctx context.Context, bookID uint, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}

	cachePath := filepath.Join(c.cacheDir, c.coverFilename(bookID, coverURL))

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := download(ctx, c.httpClient, coverURL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

// InvalidateCover removes the cached cover for a book.
func (c *Cache) InvalidateCover(bookID uint) error {
	pattern := filepath.Join(c.cacheDir, fmt.Sprintf("cover_%d_*", bookID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// coverFilename generates a unique filename based on book ID and URL hash.
func (c *Cache) coverFilename(bookID uint, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("cover_%d_%x.jpg", bookID, hash[:8])
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// download fetches url into dest through a temp file in the same directory,
// so dest either holds the whole image or does not exist.
func download(ctx context.Context, client *resty.Client, url, dest string) error {
	res, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return err
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("failed to fetch cover: status %d", res.StatusCode())
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := io.Copy(tmpFile, body); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, dest)
}
