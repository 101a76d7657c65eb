package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger for the given environment.
// Development gets a human-readable console writer at debug level; everything else
// gets JSON lines at info level.
// POST: log.Logger and the zerolog global level are replaced
func Setup(env string, verbose bool) zerolog.Logger {
	return SetupWriter(os.Stdout, env, verbose)
}

// SetupWriter is Setup with an explicit output, used by tests.
func SetupWriter(w io.Writer, env string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "development" || verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
