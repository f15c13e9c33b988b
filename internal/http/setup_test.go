package http

import (
	"context"
	"html/template"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/semg6/personal-library/internal/catalog"
	"github.com/semg6/personal-library/internal/config"
	"github.com/semg6/personal-library/internal/database"
	"github.com/semg6/personal-library/internal/readingstate"
	"github.com/semg6/personal-library/internal/results"
	"github.com/semg6/personal-library/internal/services"
)

// testPage renders just enough of the library page to assert on.
const testPage = `{{define "index"}}` +
	`message={{.Message}};type={{.MessageType}};user={{.UserID}};all={{.ShowAll}};` +
	`lookup={{.LookupSuccessful}};{{with .Added}}record={{.RecordFile}};{{end}}` +
	`{{.CSRFField}}` +
	`{{range .Books}}[{{.Title}}|{{.Authors}}|{{with .State}}{{.Status}}{{with .CurrentPage}}@{{.}}{{end}}{{else}}-{{end}}]{{end}}` +
	`{{end}}`

type stubCatalog struct {
	mu      sync.Mutex
	records map[string]*catalog.VolumeRecord
	err     error
}

func (s *stubCatalog) Lookup(_ context.Context, isbn string) (*catalog.VolumeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	record, ok := s.records[isbn]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return record, nil
}

type testEnv struct {
	db      *database.Database
	library *services.LibraryService
	catalog *stubCatalog
	records *results.Store
}

func sampleRecord() *catalog.VolumeRecord {
	pages := 448
	return &catalog.VolumeRecord{
		Title:      "Refactoring",
		Authors:    []string{"Martin Fowler", "Kent Beck"},
		PageCount:  &pages,
		Categories: []string{"Computers"},
		IndustryIdentifiers: []catalog.IndustryIdentifier{
			{Type: catalog.IdentifierISBN13, Identifier: "9780134757599"},
			{Type: catalog.IdentifierISBN10, Identifier: "0134757599"},
		},
		ImageLinks: &catalog.ImageLinks{Thumbnail: "http://books.example/refactoring.jpg"},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.NewDatabase(config.Database{
		Type:            config.DatabaseSQLite,
		Path:            filepath.Join(dir, "library.db"),
		ConnectAttempts: 1,
	}, database.Options{DefaultUserName: "Reader"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stub := &stubCatalog{records: map[string]*catalog.VolumeRecord{
		"9780134757599": sampleRecord(),
		"0134757599":    sampleRecord(),
	}}
	records := results.NewStore(filepath.Join(dir, "results"))

	return &testEnv{
		db:      db,
		library: services.NewDatabaseLibrary(db, stub, records),
		catalog: stub,
		records: records,
	}
}

func (e *testEnv) routerConfig() RouterConfig {
	return RouterConfig{
		Library:       e.library,
		Database:      e.db,
		Records:       e.records,
		DefaultUserID: 1,
		Version:       "test",
	}
}

func newTestRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(TemplateFuncs()).Parse(testPage)))
	registerRoutes(router, cfg)
	return router
}

// addSampleBook ingests the sample record and returns its id.
func (e *testEnv) addSampleBook(t *testing.T) uint {
	t.Helper()
	result := e.library.AddByISBN(context.Background(), "9780134757599")
	require.Equal(t, services.AddAdded, result.Kind, result.Message)
	return result.BookID
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func patchOf(status *string, page *int) readingstate.Patch {
	return readingstate.Patch{Status: status, CurrentPage: page}
}
