package services

import (
	"context"

	"github.com/semg6/personal-library/internal/catalog"
	"github.com/semg6/personal-library/internal/entities"
	"github.com/semg6/personal-library/internal/ingest"
	"github.com/semg6/personal-library/internal/listing"
	"github.com/semg6/personal-library/internal/readingstate"
)

// RecordWriter persists the raw catalog record of a lookup.
type RecordWriter interface {
	Save(isbn string, record *catalog.VolumeRecord) (string, error)
}

// BookIngester stores normalized metadata.
// Use this interface when you need to add books.
type BookIngester interface {
	Ingest(ctx context.Context, m ingest.Metadata) (ingest.Result, error)
}

// StateReconciler applies reading-state patches.
type StateReconciler interface {
	Reconcile(ctx context.Context, userID, bookID uint, patch readingstate.Patch) (readingstate.Outcome, error)
}

// BookLister provides read-only access to the library.
// Use this interface when you only need to query books.
type BookLister interface {
	ListForUser(ctx context.Context, userID uint) ([]listing.BookView, error)
	ListUnfiltered(ctx context.Context) ([]listing.BookView, error)
	Get(ctx context.Context, bookID uint) (*listing.BookView, error)
}

// UserStore manages readers.
type UserStore interface {
	CreateUser(ctx context.Context, name string) (*entities.User, error)
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
}
