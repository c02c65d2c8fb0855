package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var root = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init configures the process logger with the given level and format.
// If w is nil, os.Stderr is used. Format must be "text" or "json".
func Init(level string, format string, w ...io.Writer) {
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format != "json" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly, NoColor: true}
	}

	root = zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

// New returns a logger with a "component" field for package-scoped logging.
func New(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}
