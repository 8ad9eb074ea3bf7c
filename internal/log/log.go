// Package log provides the process-wide diagnostic logger.
//
// User-facing output goes to stdout via the command layer; this logger is
// for diagnostics only and stays quiet unless --verbose raises the level.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(io.Discard)

// Init configures diagnostic logging to stderr.
// Verbose enables debug level; the default shows warnings and errors only.
func Init(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return logger.Debug() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return logger.Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return logger.Error() }
