package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	app := cli.NewApp(Version + " (" + Commit + ")")
	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("Error running application")
		os.Exit(1)
	}
}
