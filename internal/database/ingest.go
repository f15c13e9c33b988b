package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/semg6/personal-library/internal/database/books"
	"github.com/semg6/personal-library/internal/entities"
	"github.com/semg6/personal-library/internal/ingest"
)

// IngestUnitOfWork implements ingest.UnitOfWork with one gorm transaction per
// call.
type IngestUnitOfWork struct {
	db *Database
}

// NewIngestUnitOfWork creates an IngestUnitOfWork on the given database.
func NewIngestUnitOfWork(db *Database) *IngestUnitOfWork {
	return &IngestUnitOfWork{db: db}
}

// Do runs fn with a store bound to a fresh transaction.
func (u *IngestUnitOfWork) Do(ctx context.Context, fn func(ingest.Store) error) error {
	return u.db.transaction(ctx, func(tx *gorm.DB) error {
		return fn(&ingestStore{repo: books.NewRepository(tx)})
	})
}

// ingestStore adapts books.Repository to ingest.Store and classifies driver
// errors at the storage boundary.
type ingestStore struct {
	repo *books.Repository
}

func (s *ingestStore) FindBookByISBN(ctx context.Context, isbn13, isbn10 *string) (*entities.Book, error) {
	book, err := s.repo.FindByISBN(ctx, isbn13, isbn10)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, Classify(err)
	}
	return book, nil
}

func (s *ingestStore) ResolveCategory(ctx context.Context, name string) (uint, error) {
	id, err := s.repo.InsertCategoryIfMissing(ctx, name)
	return id, Classify(err)
}

func (s *ingestStore) CreateBook(ctx context.Context, book *entities.Book) error {
	err := s.repo.Create(ctx, book)
	if IsDuplicate(err) {
		return errors.Join(ingest.ErrBookExists, err)
	}
	return Classify(err)
}

func (s *ingestStore) ResolveAuthor(ctx context.Context, name string) (uint, error) {
	id, err := s.repo.InsertAuthorIfMissing(ctx, name)
	return id, Classify(err)
}

func (s *ingestStore) LinkAuthor(ctx context.Context, bookID, authorID uint, position int) (bool, error) {
	linked, err := s.repo.LinkAuthor(ctx, bookID, authorID, position)
	if IsDuplicate(err) {
		return false, nil
	}
	return linked, Classify(err)
}

var _ ingest.UnitOfWork = (*IngestUnitOfWork)(nil)
