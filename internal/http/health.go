package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/semg6/personal-library/internal/database"
)

const (
	healthHealthy   = "healthy"
	healthDegraded  = "degraded"
	healthUnhealthy = "unhealthy"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports whether the library can serve and store books.
// A database failure makes the service unhealthy. An unwritable results
// directory only degrades it, since lookups still ingest without a record.
type HealthController struct {
	db      *database.Database
	records RecordLocator
	version string
}

func NewHealthController(db *database.Database, records RecordLocator, version string) *HealthController {
	return &HealthController{
		db:      db,
		records: records,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := healthHealthy

	if h.db == nil {
		checks["database"] = "not configured"
	} else if err := h.db.Ping(c.Request.Context()); err != nil {
		checks["database"] = "error: " + err.Error()
		status = healthUnhealthy
	} else {
		checks["database"] = "ok"
	}

	if h.records == nil {
		checks["results"] = "not configured"
	} else if err := h.records.CheckWritable(); err != nil {
		checks["results"] = "error: " + err.Error()
		if status == healthHealthy {
			status = healthDegraded
		}
	} else {
		checks["results"] = "ok"
	}

	statusCode := http.StatusOK
	if status == healthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
