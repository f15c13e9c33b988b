// Package users provides database operations for library readers.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.CreateUser(ctx, "Ada")
package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/semg6/personal-library/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new reader.
func (r *Repository) CreateUser(ctx context.Context, name string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("user name is required")
	}

	user := &entities.User{Name: name}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user with the given id is stored.
func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("user_id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListUsers returns every user ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	err := r.db.WithContext(ctx).Order("user_id ASC").Find(&users).Error
	return users, err
}
