package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/listing"
)

// CoversController handles book cover requests.
type CoversController struct {
	cache  CoverFetcher
	reader BookReader
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache CoverFetcher, reader BookReader) *CoversController {
	return &CoversController{
		cache:  cache,
		reader: reader,
	}
}

// GetCover serves a cached book cover image.
// GET /books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	book, err := cc.reader.GetBook(ctx, id)
	if err != nil {
		if !errors.Is(err, listing.ErrBookNotFound) {
			log.Ctx(ctx).Error().Err(err).Uint("book_id", id).Msg("Failed to load book for cover")
		}
		c.Status(http.StatusNotFound)
		return
	}

	if book.Thumbnail == nil || *book.Thumbnail == "" {
		c.Status(http.StatusNotFound)
		return
	}
	coverURL := *book.Thumbnail

	cachePath, err := cc.cache.GetCover(ctx, id, coverURL)
	if err != nil || cachePath == "" {
		log.Ctx(ctx).Debug().Err(err).Uint("book_id", id).Msg("Cover cache miss, redirecting")
		c.Redirect(http.StatusTemporaryRedirect, coverURL)
		return
	}

	c.File(cachePath)
}
