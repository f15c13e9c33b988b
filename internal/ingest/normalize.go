package ingest

import (
	"strings"

	"github.com/semg6/personal-library/internal/catalog"
)

// Metadata is a catalog record reduced to the values the library stores.
// Nil means the catalog did not supply the value.
type Metadata struct {
	ISBN13        *string
	ISBN10        *string
	Title         string
	Subtitle      *string
	Authors       []string // in catalog order, never empty strings
	Publisher     *string
	PublishedDate *string
	Description   *string
	PageCount     *int
	AverageRating *float64
	Category      *string // first catalog category only
	Thumbnail     *string
}

// Normalize maps a catalog record onto Metadata. Identifiers are picked by
// their type tag, never by position.
func Normalize(record catalog.VolumeRecord) Metadata {
	m := Metadata{
		Title:         strings.TrimSpace(record.Title),
		Subtitle:      trimmed(record.Subtitle),
		Publisher:     trimmed(record.Publisher),
		PublishedDate: trimmed(record.PublishedDate),
		Description:   record.Description,
		PageCount:     record.PageCount,
		AverageRating: record.AverageRating,
	}

	for _, id := range record.IndustryIdentifiers {
		value := strings.TrimSpace(id.Identifier)
		if value == "" {
			continue
		}
		switch id.Type {
		case catalog.IdentifierISBN13:
			if m.ISBN13 == nil {
				m.ISBN13 = &value
			}
		case catalog.IdentifierISBN10:
			if m.ISBN10 == nil {
				m.ISBN10 = &value
			}
		}
	}

	if len(record.Categories) > 0 {
		m.Category = trimmed(&record.Categories[0])
	}

	for _, name := range record.Authors {
		if name = strings.TrimSpace(name); name != "" {
			m.Authors = append(m.Authors, name)
		}
	}

	if links := record.ImageLinks; links != nil {
		if links.Thumbnail != "" {
			m.Thumbnail = trimmed(&links.Thumbnail)
		} else if links.SmallThumbnail != "" {
			m.Thumbnail = trimmed(&links.SmallThumbnail)
		}
	}

	return m
}

// WithSubmittedISBN fills the identifier slot matching the submitted ISBN's
// length when the catalog record left it empty.
func (m Metadata) WithSubmittedISBN(isbn string) Metadata {
	isbn = strings.TrimSpace(isbn)
	switch len(isbn) {
	case 13:
		if m.ISBN13 == nil {
			m.ISBN13 = &isbn
		}
	case 10:
		if m.ISBN10 == nil {
			m.ISBN10 = &isbn
		}
	}
	return m
}

// ISBN returns the identifier used for logging and messages.
func (m Metadata) ISBN() string {
	if m.ISBN13 != nil {
		return *m.ISBN13
	}
	if m.ISBN10 != nil {
		return *m.ISBN10
	}
	return ""
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
