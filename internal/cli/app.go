// Package cli defines the command-line interface of the library.
//
// Running the binary without a command starts the web server.
package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/semg6/personal-library/internal/config"
	"github.com/semg6/personal-library/internal/entrypoint"
)

const configKey = "config"

// NewApp builds the CLI application.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "personal-library",
		Usage:   "Look up books by ISBN and track your reading",
		Version: version,
		Before:  loadConfig,
		Action:  serve(version),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server (default if no command given)",
				Action: serve(version),
			},
			lookupCommand(),
			downloadCoversCommand(),
			usersCommand(),
		},
	}
}

// loadConfig reads and validates configuration once, before any command runs.
func loadConfig(c *cli.Context) error {
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	entrypoint.SetupLogging(cfg)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]interface{})
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// withApp opens the application for the duration of fn.
func withApp(c *cli.Context, fn func(app *entrypoint.App) error) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}

	app, err := entrypoint.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}

func serve(version string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := configFrom(c)
		if err != nil {
			return err
		}
		return entrypoint.Run(cfg, version)
	}
}
