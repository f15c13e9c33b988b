package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/catalog"
	"github.com/semg6/personal-library/internal/config"
	"github.com/semg6/personal-library/internal/covers"
	"github.com/semg6/personal-library/internal/database"
	http_controllers "github.com/semg6/personal-library/internal/http"
	"github.com/semg6/personal-library/internal/logger"
	"github.com/semg6/personal-library/internal/results"
	"github.com/semg6/personal-library/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the long-lived collaborators shared by the server and the CLI
// commands.
type App struct {
	Config  *config.Config
	DB      *database.Database
	Records *results.Store
	Library *services.LibraryService
}

// SetupLogging configures the global logger from cfg.
func SetupLogging(cfg *config.Config) {
	logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: logger.ParseLogFormat(cfg.Log.Format),
	})
	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
}

// NewApp opens the database and builds the library service.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database, database.Options{
		DefaultUserName: cfg.Library.DefaultUserName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	client, err := catalog.New(cfg.Catalog)
	if err != nil {
		db.Close()
		return nil, err
	}

	records := results.NewStore(cfg.Results.Dir)

	return &App{
		Config:  cfg,
		DB:      db,
		Records: records,
		Library: services.NewDatabaseLibrary(db, client, records),
	}, nil
}

func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
}

// Router builds the HTTP router for the app.
func (a *App) Router(version string) *gin.Engine {
	cfg := a.Config

	routerCfg := http_controllers.RouterConfig{
		Library:       a.Library,
		Database:      a.DB,
		Records:       a.Records,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		DefaultUserID: cfg.Library.DefaultUserID,
		SecureCookies: cfg.Security.SecureCookies,
		Version:       version,
	}

	coverCache, err := covers.NewCache(cfg.Covers.Dir, cfg.Covers.Timeout)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize cover cache, covers will be hot-linked")
	} else {
		log.Info().Str("dir", coverCache.CacheDir()).Msg("Cover cache initialized")
		routerCfg.CoverCache = coverCache
	}

	if cfg.Security.CSRFSecret != "" {
		routerCfg.CSRFSecret = []byte(cfg.Security.CSRFSecret)
	} else {
		log.Warn().Msg("CSRF_SECRET is not set, form posts are not CSRF protected")
	}

	return http_controllers.NewRouter(routerCfg)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, router http.Handler, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}

// Run starts the web application and blocks until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	log.Info().Str("version", version).Msg("Starting Personal Library")

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, app.Router(version), cfg, nil)
}
