// Package books provides database operations for books and the catalog
// tables hanging off them (categories, authors, book_authors).
//
// Write methods are meant to run inside a transaction: construct the
// repository with the transaction handle.
//
// # Usage
//
//	err := db.Transaction(func(tx *gorm.DB) error {
//		repo := books.NewRepository(tx)
//		categoryID, err := repo.InsertCategoryIfMissing(ctx, "Fiction")
//		...
//	})
package books

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/semg6/personal-library/internal/entities"
)

// Repository handles book, category and author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AuthorLink is an author name attached to a book at a position.
type AuthorLink struct {
	BookID   uint
	Name     string
	Position int
}

// FindByISBN returns the first book whose isbn_13 or isbn_10 matches one of
// the given values. Nil values are ignored. Returns gorm.ErrRecordNotFound
// when nothing matches.
func (r *Repository) FindByISBN(ctx context.Context, isbn13, isbn10 *string) (*entities.Book, error) {
	query := r.db.WithContext(ctx).Model(&entities.Book{})
	switch {
	case isbn13 != nil && isbn10 != nil:
		query = query.Where("isbn_13 = ? OR isbn_10 = ?", *isbn13, *isbn10)
	case isbn13 != nil:
		query = query.Where("isbn_13 = ?", *isbn13)
	case isbn10 != nil:
		query = query.Where("isbn_10 = ?", *isbn10)
	default:
		return nil, gorm.ErrRecordNotFound
	}

	var book entities.Book
	if err := query.Order("book_id ASC").First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// InsertCategoryIfMissing returns the id of the category with the given
// name, creating it when absent.
func (r *Repository) InsertCategoryIfMissing(ctx context.Context, name string) (uint, error) {
	category := entities.Category{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "category_name"}}, DoNothing: true}).
		Create(&category).Error
	if err != nil {
		return 0, fmt.Errorf("failed to insert category %q: %w", name, err)
	}

	var existing entities.Category
	err = r.db.WithContext(ctx).
		Where("category_name = ?", name).
		First(&existing).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read category %q: %w", name, err)
	}
	return existing.ID, nil
}

// InsertAuthorIfMissing returns the id of the author with the given name,
// creating it when absent.
func (r *Repository) InsertAuthorIfMissing(ctx context.Context, name string) (uint, error) {
	author := entities.Author{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&author).Error
	if err != nil {
		return 0, fmt.Errorf("failed to insert author %q: %w", name, err)
	}

	var existing entities.Author
	err = r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&existing).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read author %q: %w", name, err)
	}
	return existing.ID, nil
}

// Create inserts a new book. Unique violations are returned as-is.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(book).Error
}

// LinkAuthor attaches an author to a book. An existing link is left alone
// and reported as linked=false.
func (r *Repository) LinkAuthor(ctx context.Context, bookID, authorID uint, position int) (bool, error) {
	link := entities.BookAuthor{BookID: bookID, AuthorID: authorID, Position: position}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByID retrieves a book with its category.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).Preload("Category").First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Exists reports whether a book with the given id is stored.
func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("book_id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns every book with its category, oldest first.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Preload("Category").Order("book_id ASC").Find(&books).Error
	return books, err
}

// AuthorLinks returns the author names of the given books ordered by book
// and position.
func (r *Repository) AuthorLinks(ctx context.Context, bookIDs []uint) ([]AuthorLink, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}

	var links []AuthorLink
	err := r.db.WithContext(ctx).
		Table("book_authors").
		Select("book_authors.book_id AS book_id, authors.name AS name, book_authors.position AS position").
		Joins("JOIN authors ON authors.author_id = book_authors.author_id").
		Where("book_authors.book_id IN ?", bookIDs).
		Order("book_authors.book_id ASC, book_authors.position ASC, authors.author_id ASC").
		Scan(&links).Error
	return links, err
}
