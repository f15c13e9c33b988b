package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/semg6/personal-library/internal/results"
)

// ResultsController serves stored catalog records.
type ResultsController struct {
	records RecordLocator
}

func NewResultsController(records RecordLocator) *ResultsController {
	return &ResultsController{records: records}
}

// GetRecord serves one stored record inline.
// GET /results/*filename
func (rc *ResultsController) GetRecord(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")

	path, err := rc.records.Path(name)
	switch {
	case errors.Is(err, results.ErrInvalidName), errors.Is(err, results.ErrNotFound):
		c.String(http.StatusNotFound, "Not found")
		return
	case err != nil:
		respondInternalError(c, err, "open stored record")
		return
	}

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.File(path)
}
