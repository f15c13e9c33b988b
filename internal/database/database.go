package database

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/semg6/personal-library/internal/config"
	"github.com/semg6/personal-library/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// Options tweaks NewDatabase beyond what config.Database carries.
type Options struct {
	// DefaultUserName names the user seeded into an empty users table.
	// Seeding is skipped when empty.
	DefaultUserName string
}

func NewDatabase(cfg config.Database, opts Options) (*Database, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormLogLevel := logger.Silent
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gormLogLevel = logger.Info
	}

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	var db *gorm.DB
	err = retry.Do(
		func() error {
			conn, openErr := gorm.Open(d, &gorm.Config{
				Logger:         logger.Default.LogMode(gormLogLevel),
				TranslateError: true,
			})
			if openErr != nil {
				return openErr
			}
			sqlDB, openErr := conn.DB()
			if openErr != nil {
				return openErr
			}
			if openErr = sqlDB.Ping(); openErr != nil {
				_ = sqlDB.Close()
				return openErr
			}
			db = conn
			return nil
		},
		retry.Attempts(attempts),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("type", string(cfg.Type)).Msg("Database not ready, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entities.Category{},
		&entities.Author{},
		&entities.Book{},
		&entities.BookAuthor{},
		&entities.User{},
		&entities.UserBook{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if opts.DefaultUserName != "" {
		if err := database.seedDefaultUser(opts.DefaultUserName); err != nil {
			return nil, fmt.Errorf("failed to seed default user: %w", err)
		}
	}

	log.Info().Str("type", string(cfg.Type)).Msg("Database initialized successfully")

	return database, nil
}

func configurePool(db *gorm.DB, cfg config.Database) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// SQLite allows a single writer. One connection serializes every unit
	// of work instead of surfacing "database is locked".
	if cfg.Type == config.DatabaseSQLite || cfg.Type == "" {
		sqlDB.SetMaxOpenConns(1)
		return nil
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return nil
}

func (d *Database) seedDefaultUser(name string) error {
	var count int64
	if err := d.DB.Model(&entities.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	user := entities.User{Name: name}
	if err := d.DB.Create(&user).Error; err != nil {
		return err
	}
	log.Info().Uint("user_id", user.ID).Str("name", name).Msg("Created default user")
	return nil
}

// Ping checks that the database answers within the context deadline.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// transaction runs fn inside one gorm transaction. Returning an error rolls
// back; a nil return commits.
func (d *Database) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := d.DB.WithContext(ctx).Transaction(fn)
	log.Ctx(ctx).Trace().Dur("duration", time.Since(start)).Err(err).Msg("Unit of work finished")
	return err
}
