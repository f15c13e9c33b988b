package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semg6/personal-library/internal/catalog"
)

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	t.Run("identifiers are selected by type, not position", func(t *testing.T) {
		m := Normalize(catalog.VolumeRecord{
			Title: "Domain-Driven Design",
			IndustryIdentifiers: []catalog.IndustryIdentifier{
				{Type: catalog.IdentifierISBN10, Identifier: "0321125215"},
				{Type: catalog.IdentifierISBN13, Identifier: "9780321125217"},
			},
		})

		require.NotNil(t, m.ISBN13)
		require.NotNil(t, m.ISBN10)
		assert.Equal(t, "9780321125217", *m.ISBN13)
		assert.Equal(t, "0321125215", *m.ISBN10)
	})

	t.Run("isbn-10 only record leaves isbn-13 empty", func(t *testing.T) {
		m := Normalize(catalog.VolumeRecord{
			Title:               "Old Book",
			IndustryIdentifiers: []catalog.IndustryIdentifier{{Type: catalog.IdentifierISBN10, Identifier: "0000000000"}},
		})

		assert.Nil(t, m.ISBN13)
		require.NotNil(t, m.ISBN10)
		assert.Equal(t, "0000000000", *m.ISBN10)
	})

	t.Run("other identifier types are ignored", func(t *testing.T) {
		m := Normalize(catalog.VolumeRecord{
			Title:               "Unlisted",
			IndustryIdentifiers: []catalog.IndustryIdentifier{{Type: "OTHER", Identifier: "UOM:39015"}},
		})

		assert.Nil(t, m.ISBN13)
		assert.Nil(t, m.ISBN10)
		assert.Equal(t, "", m.ISBN())
	})

	t.Run("only the first category is kept", func(t *testing.T) {
		m := Normalize(catalog.VolumeRecord{Title: "T", Categories: []string{"Computers", "Software"}})

		require.NotNil(t, m.Category)
		assert.Equal(t, "Computers", *m.Category)
	})

	t.Run("absent optional fields stay absent", func(t *testing.T) {
		m := Normalize(catalog.VolumeRecord{Title: "Bare"})

		assert.Nil(t, m.Subtitle)
		assert.Nil(t, m.Publisher)
		assert.Nil(t, m.PublishedDate)
		assert.Nil(t, m.Description)
		assert.Nil(t, m.PageCount)
		assert.Nil(t, m.AverageRating)
		assert.Nil(t, m.Category)
		assert.Nil(t, m.Thumbnail)
		assert.Empty(t, m.Authors)
	})

	t.Run("zero values supplied by the catalog are kept", func(t *testing.T) {
		pages := 0
		rating := 0.0
		m := Normalize(catalog.VolumeRecord{Title: "Zero", PageCount: &pages, AverageRating: &rating})

		require.NotNil(t, m.PageCount)
		assert.Equal(t, 0, *m.PageCount)
		require.NotNil(t, m.AverageRating)
	})

	t.Run("authors keep order and drop blanks", func(t *testing.T) {
		m := Normalize(catalog.VolumeRecord{Title: "T", Authors: []string{" Gamma ", "", "Helm", "  "}})

		assert.Equal(t, []string{"Gamma", "Helm"}, m.Authors)
	})

	t.Run("thumbnail falls back to small thumbnail", func(t *testing.T) {
		m := Normalize(catalog.VolumeRecord{Title: "T", ImageLinks: &catalog.ImageLinks{SmallThumbnail: "http://s"}})
		require.NotNil(t, m.Thumbnail)
		assert.Equal(t, "http://s", *m.Thumbnail)

		m = Normalize(catalog.VolumeRecord{Title: "T", ImageLinks: &catalog.ImageLinks{SmallThumbnail: "http://s", Thumbnail: "http://t"}})
		assert.Equal(t, "http://t", *m.Thumbnail)
	})
}

func TestMetadata_WithSubmittedISBN(t *testing.T) {
	t.Run("fills the empty slot by length", func(t *testing.T) {
		m := Metadata{Title: "T"}.WithSubmittedISBN("9780321125217")
		require.NotNil(t, m.ISBN13)
		assert.Equal(t, "9780321125217", *m.ISBN13)
		assert.Nil(t, m.ISBN10)

		m = Metadata{Title: "T"}.WithSubmittedISBN("0321125215")
		require.NotNil(t, m.ISBN10)
		assert.Nil(t, m.ISBN13)
	})

	t.Run("catalog identifiers win", func(t *testing.T) {
		m := Metadata{Title: "T", ISBN13: strPtr("9780321125217")}.WithSubmittedISBN("9781111111111")
		assert.Equal(t, "9780321125217", *m.ISBN13)
	})
}
