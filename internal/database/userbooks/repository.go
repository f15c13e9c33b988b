// Package userbooks provides database operations for per-reader book state
// (the user_books table).
//
// # Usage
//
//	repo := userbooks.NewRepository(db)
//	state, err := repo.Find(ctx, userID, bookID)
package userbooks

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/semg6/personal-library/internal/entities"
)

// Repository handles all user_books database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new user_books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find returns the state row for the pair, or gorm.ErrRecordNotFound.
func (r *Repository) Find(ctx context.Context, userID, bookID uint) (*entities.UserBook, error) {
	var state entities.UserBook
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Create inserts a state row. A second row for the same pair fails with the
// driver's unique violation.
func (r *Repository) Create(ctx context.Context, state *entities.UserBook) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(state).Error
}

// Update writes only the given columns of the pair's row.
func (r *Repository) Update(ctx context.Context, userID, bookID uint, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entities.UserBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Updates(columns).Error
}

// ListForUser returns every state row of a reader.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]entities.UserBook, error) {
	var states []entities.UserBook
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("book_id ASC").
		Find(&states).Error
	return states, err
}
