package services

import (
	"github.com/semg6/personal-library/internal/catalog"
	"github.com/semg6/personal-library/internal/database"
	"github.com/semg6/personal-library/internal/database/users"
	"github.com/semg6/personal-library/internal/ingest"
	"github.com/semg6/personal-library/internal/listing"
	"github.com/semg6/personal-library/internal/readingstate"
)

// NewDatabaseLibrary builds a LibraryService backed by db. records may be nil
// to skip keeping raw catalog records.
func NewDatabaseLibrary(db *database.Database, client catalog.Client, records RecordWriter) *LibraryService {
	return NewLibraryService(LibraryServiceConfig{
		Catalog:    client,
		Records:    records,
		Ingester:   ingest.NewEngine(database.NewIngestUnitOfWork(db)),
		Reconciler: readingstate.NewReconciler(database.NewReadingStateUnitOfWork(db)),
		Lister:     listing.NewLister(database.NewLibraryReader(db)),
		Users:      users.NewRepository(db.DB),
	})
}

var _ UserStore = (*users.Repository)(nil)
