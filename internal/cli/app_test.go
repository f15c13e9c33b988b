package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const volumesResponse = `{
  "totalItems": 1,
  "items": [{
    "volumeInfo": {
      "title": "The Pragmatic Programmer",
      "authors": ["David Thomas", "Andrew Hunt"],
      "industryIdentifiers": [
        {"type": "ISBN_10", "identifier": "0135957052"},
        {"type": "ISBN_13", "identifier": "9780135957059"}
      ],
      "imageLinks": {"thumbnail": "%s/cover.jpg"}
    }
  }]
}`

// setupEnv points configuration at a temp directory and a fake catalog.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/cover.jpg":
			_, _ = w.Write([]byte("jpeg"))
		case r.URL.Query().Get("q") == "isbn:9780135957059":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(fmt.Sprintf(volumesResponse, server.URL)))
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"totalItems": 0}`))
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "library.db"))
	t.Setenv("DATABASE_CONNECT_ATTEMPTS", "1")
	t.Setenv("RESULTS_DIR", filepath.Join(dir, "results"))
	t.Setenv("IMAGES_DIR", filepath.Join(dir, "img"))
	t.Setenv("COVERS_DIR", filepath.Join(dir, "covers"))
	t.Setenv("CATALOG_PROVIDER", "google")
	t.Setenv("CATALOG_BASE_URL", server.URL)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp("test")
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"personal-library"}, args...))
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, "lookup", "978-0-13-595705-9")
	require.NoError(t, err)
	assert.Contains(t, out, "Book added successfully")
	assert.Contains(t, out, `"The Pragmatic Programmer"`)

	_, err = os.Stat(filepath.Join(dir, "results", "9780135957059.json"))
	assert.NoError(t, err, "catalog record kept")

	out, err = run(t, "lookup", "9780135957059", "0000000000")
	require.NoError(t, err)
	assert.Contains(t, out, "This book is already in your library")
	assert.Contains(t, out, "0000000000: Book not found with that ISBN.")

	t.Run("requires an ISBN", func(t *testing.T) {
		_, err := run(t, "lookup")
		assert.Error(t, err)
	})
}

func TestDownloadCoversCommand(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, "lookup", "9780135957059")
	require.NoError(t, err)

	out, err := run(t, "download-covers")
	require.NoError(t, err)
	assert.Contains(t, out, "Downloaded: 1")

	data, err := os.ReadFile(filepath.Join(dir, "img", "The Pragmatic Programmer.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	out, err = run(t, "download-covers")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped (already exists): 1")
}

func TestUsersCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "users", "add", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Contains(t, out, "Added reader 2: Ada Lovelace")

	out, err = run(t, "users", "list")
	require.NoError(t, err)
	assert.Equal(t, "1\tReader\n2\tAda Lovelace\n", out)
}

func TestInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := run(t, "users", "list")
	assert.ErrorContains(t, err, "invalid configuration")
}
