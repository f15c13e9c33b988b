package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/semg6/personal-library/internal/database/books"
	"github.com/semg6/personal-library/internal/database/userbooks"
	"github.com/semg6/personal-library/internal/entities"
	"github.com/semg6/personal-library/internal/listing"
)

// LibraryReader implements listing.Store on the shared connection pool.
type LibraryReader struct {
	books  *books.Repository
	states *userbooks.Repository
}

// NewLibraryReader creates a LibraryReader on the given database.
func NewLibraryReader(db *Database) *LibraryReader {
	return &LibraryReader{
		books:  books.NewRepository(db.DB),
		states: userbooks.NewRepository(db.DB),
	}
}

func (r *LibraryReader) ListBooks(ctx context.Context) ([]entities.Book, error) {
	return r.books.List(ctx)
}

func (r *LibraryReader) GetBook(ctx context.Context, bookID uint) (*entities.Book, error) {
	book, err := r.books.GetByID(ctx, bookID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return book, err
}

func (r *LibraryReader) AuthorNames(ctx context.Context, bookIDs []uint) (map[uint][]string, error) {
	links, err := r.books.AuthorLinks(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uint][]string, len(bookIDs))
	for _, link := range links {
		names[link.BookID] = append(names[link.BookID], link.Name)
	}
	return names, nil
}

func (r *LibraryReader) StatesForUser(ctx context.Context, userID uint) ([]entities.UserBook, error) {
	return r.states.ListForUser(ctx, userID)
}

var _ listing.Store = (*LibraryReader)(nil)
