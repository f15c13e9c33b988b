package entities

import (
	"time"
)

// Reading statuses used by the UI. Status is stored as free text, so other
// values are accepted as-is.
const (
	StatusOwned    = "owned"
	StatusReading  = "reading"
	StatusFinished = "finished"
)

// DefaultStatus is applied when a reading state is created without a status.
const DefaultStatus = StatusOwned

type Category struct {
	ID   uint   `gorm:"column:category_id;primaryKey" json:"category_id"`
	Name string `gorm:"column:category_name;uniqueIndex;size:255;not null" json:"category_name"`
}

type Author struct {
	ID   uint   `gorm:"column:author_id;primaryKey" json:"author_id"`
	Name string `gorm:"column:name;uniqueIndex;size:255;not null" json:"name"`
}

type Book struct {
	ID            uint      `gorm:"column:book_id;primaryKey" json:"book_id"`
	ISBN13        *string   `gorm:"column:isbn_13;uniqueIndex;size:13" json:"isbn_13,omitempty"`
	ISBN10        *string   `gorm:"column:isbn_10;uniqueIndex;size:10" json:"isbn_10,omitempty"`
	Title         string    `gorm:"column:title;size:512;not null" json:"title"`
	Subtitle      *string   `gorm:"column:subtitle;size:512" json:"subtitle,omitempty"`
	Publisher     *string   `gorm:"column:publisher;size:255" json:"publisher,omitempty"`
	PublishedDate *string   `gorm:"column:published_date;size:32" json:"published_date,omitempty"` // free text, e.g. "2004" or "2004-05-01"
	Description   *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	PageCount     *int      `gorm:"column:page_count" json:"page_count,omitempty"`
	AverageRating *float64  `gorm:"column:average_rating" json:"average_rating,omitempty"`
	Thumbnail     *string   `gorm:"column:thumbnail;size:2048" json:"thumbnail,omitempty"`
	CategoryID    *uint     `gorm:"column:category_id;index" json:"category_id,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
}

// BookAuthor links a book to one of its authors. Position keeps the order in
// which the catalog listed the authors.
type BookAuthor struct {
	BookID   uint   `gorm:"column:book_id;primaryKey;autoIncrement:false" json:"book_id"`
	AuthorID uint   `gorm:"column:author_id;primaryKey;autoIncrement:false;index" json:"author_id"`
	Position int    `gorm:"column:position;not null;default:0" json:"position"`
	Book     Book   `gorm:"foreignKey:BookID;references:ID" json:"-"`
	Author   Author `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
}

type User struct {
	ID   uint   `gorm:"column:user_id;primaryKey" json:"user_id"`
	Name string `gorm:"column:name;size:100;not null" json:"name"`
}

// UserBook is the reading state of one user for one book.
type UserBook struct {
	UserID      uint       `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	BookID      uint       `gorm:"column:book_id;primaryKey;autoIncrement:false;index" json:"book_id"`
	Status      string     `gorm:"column:status;size:32;not null;default:'owned'" json:"status"`
	CurrentPage *int       `gorm:"column:current_page" json:"current_page,omitempty"`
	UserRating  *int       `gorm:"column:user_rating" json:"user_rating,omitempty"`
	Notes       *string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	StartedDate *time.Time `gorm:"column:started_date" json:"started_date,omitempty"`
	ReadDate    *time.Time `gorm:"column:read_date" json:"read_date,omitempty"`
	AddedOn     time.Time  `gorm:"column:added_on;autoCreateTime" json:"added_on"`
	User        User       `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Book        Book       `gorm:"foreignKey:BookID;references:ID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

func (Author) TableName() string {
	return "authors"
}

func (Book) TableName() string {
	return "books"
}

func (BookAuthor) TableName() string {
	return "book_authors"
}

func (User) TableName() string {
	return "users"
}

func (UserBook) TableName() string {
	return "user_books"
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
