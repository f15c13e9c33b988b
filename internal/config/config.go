package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseType string

const (
	DatabaseSQLite   DatabaseType = "sqlite"   // Single file database (default)
	DatabaseMySQL    DatabaseType = "mysql"    // The original deployment target
	DatabasePostgres DatabaseType = "postgres" // PostgreSQL via pgx
)

type CatalogProvider string

const (
	ProviderGoogleBooks CatalogProvider = "google"
	ProviderOpenLibrary CatalogProvider = "openlibrary"
)

type (
	Config struct {
		HTTP     `mapstructure:"http"`
		Global   `mapstructure:"global"`
		Database `mapstructure:"database"`
		Catalog  `mapstructure:"catalog"`
		Results  `mapstructure:"results"`
		Covers   `mapstructure:"covers"`
		UI       `mapstructure:"ui"`
		Log      `mapstructure:"log"`
		Security `mapstructure:"security"`
		Library  `mapstructure:"library"`
	}

	HTTP struct {
		Port int32  `mapstructure:"port" validate:"min=1,max=65535"`
		Host string `mapstructure:"host"`
	}

	Global struct {
		ShutdownTimeoutInSeconds int `mapstructure:"shutdown_timeout_in_seconds" validate:"min=0"`
	}

	Database struct {
		Type     DatabaseType `mapstructure:"database_type" validate:"oneof=sqlite mysql postgres"`
		Path     string       `mapstructure:"database_path" validate:"required_if=Type sqlite"`
		Host     string       `mapstructure:"db_host" validate:"required_unless=Type sqlite"`
		Port     int          `mapstructure:"db_port" validate:"min=0,max=65535"`
		Name     string       `mapstructure:"db_name" validate:"required_unless=Type sqlite"`
		User     string       `mapstructure:"db_user" validate:"required_unless=Type sqlite"`
		Password string       `mapstructure:"db_password"`

		MaxOpenConns    int           `mapstructure:"database_max_open_conns" validate:"min=0"`
		MaxIdleConns    int           `mapstructure:"database_max_idle_conns" validate:"min=0"`
		ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`

		// Start-up retries, the database container may come up after the app.
		ConnectAttempts uint          `mapstructure:"database_connect_attempts" validate:"min=1"`
		ConnectDelay    time.Duration `mapstructure:"database_connect_delay"`
	}

	Catalog struct {
		Provider CatalogProvider `mapstructure:"catalog_provider" validate:"oneof=google openlibrary"`
		BaseURL  string          `mapstructure:"catalog_base_url" validate:"omitempty,url"`
		APIKey   string          `mapstructure:"catalog_api_key"`
		Timeout  time.Duration   `mapstructure:"catalog_timeout"`
	}

	Results struct {
		Dir string `mapstructure:"results_dir" validate:"required"`
	}

	Covers struct {
		Dir       string        `mapstructure:"covers_dir" validate:"required"`
		ImagesDir string        `mapstructure:"images_dir" validate:"required"`
		Timeout   time.Duration `mapstructure:"covers_timeout"`
	}

	UI struct {
		TemplatesPath string `mapstructure:"templates_path" validate:"required"`
		StaticPath    string `mapstructure:"static_path"`
	}

	Log struct {
		Level  string `mapstructure:"log_level" validate:"oneof=trace debug info warn error fatal panic"`
		Format string `mapstructure:"log_format" validate:"oneof=json console"`
	}

	Security struct {
		CSRFSecret    string `mapstructure:"csrf_secret" validate:"omitempty,min=32"`
		SecureCookies bool   `mapstructure:"secure_cookies"` // Set to false for local dev without HTTPS
	}

	Library struct {
		DefaultUserID   uint   `mapstructure:"default_user_id" validate:"min=1"`
		DefaultUserName string `mapstructure:"default_user_name" validate:"required"`
	}
)

func NewConfig() *Config {
	// Values already present in the environment take precedence over .env.
	_ = godotenv.Load(DefaultEnvFile)

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_type", string(DatabaseSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 0)
	v.SetDefault("db_name", "personal_library")
	v.SetDefault("db_user", "librarian")
	v.SetDefault("db_password", "")
	v.SetDefault("database_max_open_conns", 10)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", time.Hour)
	v.SetDefault("database_connect_attempts", 5)
	v.SetDefault("database_connect_delay", 2*time.Second)

	v.SetDefault("catalog_provider", string(ProviderGoogleBooks))
	v.SetDefault("catalog_base_url", "")
	v.SetDefault("catalog_api_key", "")
	v.SetDefault("catalog_timeout", 10*time.Second)

	v.SetDefault("results_dir", "./results")
	v.SetDefault("covers_dir", "./covers")
	v.SetDefault("images_dir", "./img")
	v.SetDefault("covers_timeout", 10*time.Second)

	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("csrf_secret", "")
	v.SetDefault("secure_cookies", true)

	v.SetDefault("default_user_id", 1)
	v.SetDefault("default_user_name", "Reader")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
		Database: Database{
			Type:            DatabaseType(v.GetString("database_type")),
			Path:            v.GetString("database_path"),
			Host:            v.GetString("db_host"),
			Port:            v.GetInt("db_port"),
			Name:            v.GetString("db_name"),
			User:            v.GetString("db_user"),
			Password:        v.GetString("db_password"),
			MaxOpenConns:    v.GetInt("database_max_open_conns"),
			MaxIdleConns:    v.GetInt("database_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database_conn_max_lifetime"),
			ConnectAttempts: v.GetUint("database_connect_attempts"),
			ConnectDelay:    v.GetDuration("database_connect_delay"),
		},
		Catalog: Catalog{
			Provider: CatalogProvider(v.GetString("catalog_provider")),
			BaseURL:  v.GetString("catalog_base_url"),
			APIKey:   v.GetString("catalog_api_key"),
			Timeout:  v.GetDuration("catalog_timeout"),
		},
		Results: Results{
			Dir: v.GetString("results_dir"),
		},
		Covers: Covers{
			Dir:       v.GetString("covers_dir"),
			ImagesDir: v.GetString("images_dir"),
			Timeout:   v.GetDuration("covers_timeout"),
		},
		UI: UI{
			TemplatesPath: v.GetString("templates_path"),
			StaticPath:    v.GetString("static_path"),
		},
		Log: Log{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Security: Security{
			CSRFSecret:    v.GetString("csrf_secret"),
			SecureCookies: v.GetBool("secure_cookies"),
		},
		Library: Library{
			DefaultUserID:   v.GetUint("default_user_id"),
			DefaultUserName: v.GetString("default_user_name"),
		},
	}
}
