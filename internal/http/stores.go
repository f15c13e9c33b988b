package http

import (
	"context"

	"github.com/semg6/personal-library/internal/entities"
	"github.com/semg6/personal-library/internal/listing"
	"github.com/semg6/personal-library/internal/readingstate"
	"github.com/semg6/personal-library/internal/services"
)

// This file consolidates the interfaces HTTP controllers depend on.
// *services.LibraryService satisfies all of them.

// BookAdder adds books by ISBN.
type BookAdder interface {
	AddByISBN(ctx context.Context, isbn string) services.AddResult
}

// StateUpdater applies reading-state patches.
type StateUpdater interface {
	UpdateReadingState(ctx context.Context, userID, bookID uint, patch readingstate.Patch) services.StateResult
}

// BookReader lists the library.
type BookReader interface {
	ListForUser(ctx context.Context, userID uint) ([]listing.BookView, error)
	ListUnfiltered(ctx context.Context) ([]listing.BookView, error)
	GetBook(ctx context.Context, bookID uint) (*listing.BookView, error)
}

// UserLister lists readers for the reader picker.
type UserLister interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
}

// Library combines everything the UI and API controllers need.
type Library interface {
	BookAdder
	StateUpdater
	BookReader
	UserLister
}

// RecordLocator resolves stored catalog records by file name.
type RecordLocator interface {
	Path(name string) (string, error)
	CheckWritable() error
}

// CoverFetcher returns a local path for a book cover.
type CoverFetcher interface {
	GetCover(ctx context.Context, bookID uint, coverURL string) (string, error)
}

var _ Library = (*services.LibraryService)(nil)
