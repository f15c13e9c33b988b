// Package catalog looks books up in external catalogs by ISBN.
//
// Every provider returns the Google Books "volumeInfo" shape (VolumeRecord)
// so the rest of the application only deals with one record format.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Identifier type tags used in VolumeRecord.IndustryIdentifiers.
const (
	IdentifierISBN13 = "ISBN_13"
	IdentifierISBN10 = "ISBN_10"
)

var (
	// ErrNotFound means the catalog answered but has no record for the ISBN.
	ErrNotFound = errors.New("book not found in catalog")
	// ErrInvalidISBN means the input is not a 10 or 13 character ISBN.
	ErrInvalidISBN = errors.New("invalid ISBN")
)

// TransportError wraps network failures and unreadable responses.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s lookup failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client looks up a single book by ISBN.
type Client interface {
	Lookup(ctx context.Context, isbn string) (*VolumeRecord, error)
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// VolumeRecord is a catalog record in the Google Books volumeInfo layout.
// Absent fields stay nil so they are stored as NULL rather than zero values.
type VolumeRecord struct {
	Title               string               `json:"title"`
	Subtitle            *string              `json:"subtitle,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           *string              `json:"publisher,omitempty"`
	PublishedDate       *string              `json:"publishedDate,omitempty"`
	Description         *string              `json:"description,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	PageCount           *int                 `json:"pageCount,omitempty"`
	AverageRating       *float64             `json:"averageRating,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
}

// NormalizeISBN strips hyphens and spaces and uppercases a trailing check
// character. Returns ErrInvalidISBN unless the result is a 10 or 13
// character ISBN.
func NormalizeISBN(isbn string) (string, error) {
	isbn = strings.TrimSpace(isbn)
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.ToUpper(isbn)

	switch len(isbn) {
	case 10:
		if !allDigits(isbn[:9]) || !(isDigit(isbn[9]) || isbn[9] == 'X') {
			return "", ErrInvalidISBN
		}
	case 13:
		if !allDigits(isbn) {
			return "", ErrInvalidISBN
		}
	default:
		return "", ErrInvalidISBN
	}
	return isbn, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
