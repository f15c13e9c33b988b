package http

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/semg6/personal-library/internal/logger"
)

// TemplateFuncs are the functions available to page templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(dateLayout)
		},
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinMiddleware())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	tmpl := template.Must(template.New("").Funcs(TemplateFuncs()).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.Static("/static", cfg.StaticPath)

	registerRoutes(router, cfg)
	return router
}

// registerRoutes wires controllers onto router. Split from NewRouter so tests
// can supply their own templates.
func registerRoutes(router *gin.Engine, cfg RouterConfig) {
	health := NewHealthController(cfg.Database, cfg.Records, cfg.Version)
	uiController := NewUIController(cfg.Library, cfg.DefaultUserID)
	booksController := NewBooksController(cfg.Library, cfg.DefaultUserID)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	// UI routes
	router.GET("/", uiController.LibraryPage)
	router.POST("/", uiController.AddBook)
	router.POST("/books/:id/state", uiController.UpdateState)

	// Stored catalog records
	if cfg.Records != nil {
		resultsController := NewResultsController(cfg.Records)
		router.GET("/results/*filename", resultsController.GetRecord)
	}

	// Book cover endpoint
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Library)
		router.GET("/books/:id/cover", coversController.GetCover)
	}

	// Books API endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.AddBook)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PATCH("/api/users/:userId/books/:bookId/state", booksController.UpdateState)
}
