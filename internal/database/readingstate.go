package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/semg6/personal-library/internal/database/books"
	"github.com/semg6/personal-library/internal/database/userbooks"
	"github.com/semg6/personal-library/internal/database/users"
	"github.com/semg6/personal-library/internal/entities"
	"github.com/semg6/personal-library/internal/readingstate"
)

// ReadingStateUnitOfWork implements readingstate.UnitOfWork with one gorm
// transaction per call.
type ReadingStateUnitOfWork struct {
	db *Database
}

// NewReadingStateUnitOfWork creates a ReadingStateUnitOfWork on the given
// database.
func NewReadingStateUnitOfWork(db *Database) *ReadingStateUnitOfWork {
	return &ReadingStateUnitOfWork{db: db}
}

// Do runs fn with a store bound to a fresh transaction.
func (u *ReadingStateUnitOfWork) Do(ctx context.Context, fn func(readingstate.Store) error) error {
	return u.db.transaction(ctx, func(tx *gorm.DB) error {
		return fn(&readingStateStore{
			users:  users.NewRepository(tx),
			books:  books.NewRepository(tx),
			states: userbooks.NewRepository(tx),
		})
	})
}

type readingStateStore struct {
	users  *users.Repository
	books  *books.Repository
	states *userbooks.Repository
}

func (s *readingStateStore) UserExists(ctx context.Context, userID uint) (bool, error) {
	return s.users.Exists(ctx, userID)
}

func (s *readingStateStore) BookExists(ctx context.Context, bookID uint) (bool, error) {
	return s.books.Exists(ctx, bookID)
}

func (s *readingStateStore) Find(ctx context.Context, userID, bookID uint) (*entities.UserBook, error) {
	state, err := s.states.Find(ctx, userID, bookID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return state, Classify(err)
}

func (s *readingStateStore) Create(ctx context.Context, state *entities.UserBook) error {
	err := s.states.Create(ctx, state)
	if IsDuplicate(err) {
		return errors.Join(readingstate.ErrStateExists, err)
	}
	return Classify(err)
}

func (s *readingStateStore) Update(ctx context.Context, userID, bookID uint, patch readingstate.Patch) error {
	return Classify(s.states.Update(ctx, userID, bookID, patch.Columns()))
}

var _ readingstate.UnitOfWork = (*ReadingStateUnitOfWork)(nil)
