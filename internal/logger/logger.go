package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFormat defines the available log formats
type LogFormat string

const (
	FormatJSON    LogFormat = "json"
	FormatConsole LogFormat = "console"
)

// ParseLogFormat parses a string into a LogFormat, defaulting to JSON
func ParseLogFormat(format string) LogFormat {
	switch strings.ToLower(format) {
	case "console":
		return FormatConsole
	default:
		return FormatJSON
	}
}

type Config struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic)
	Level string
	// Format is the log format (json, console)
	Format LogFormat
	// Output is the output writer (default: os.Stdout)
	Output io.Writer
}

// Setup configures the global zerolog logger used through
// github.com/rs/zerolog/log and returns it.
func Setup(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var l zerolog.Logger
	switch cfg.Format {
	case FormatConsole:
		l = zerolog.New(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339})
	default:
		l = zerolog.New(output)
	}
	l = l.Level(level).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(level)
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger

	return l
}
