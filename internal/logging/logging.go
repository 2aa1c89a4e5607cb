// Package logging builds the process-wide zerolog.Logger used throughout
// flowcore. Grounded on the teacher's ConsoleLogger
// (internal/infrastructure/monitoring/console_logger.go): a single
// configurable writer, a prefix, and a verbosity switch — reimplemented
// directly on zerolog's console writer (a direct teacher dependency the
// monitoring package itself predates) plus go-colorable/go-isatty for TTY
// color detection, exactly as those two teacher indirect dependencies
// exist to support.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config configures the process-wide logger.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to info.
	Level string
	// Prefix is attached to every log line under the "component" field.
	Prefix string
	// Writer overrides the destination (defaults to a color-aware stdout).
	Writer io.Writer
}

// New builds a zerolog.Logger per Config. On a TTY it uses zerolog's
// human-readable console writer through go-colorable; otherwise (e.g.
// piped to a file or a log collector) it emits structured JSON lines.
func New(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)

	writer := cfg.Writer
	useConsole := false
	if writer == nil {
		writer = colorable.NewColorableStdout()
		useConsole = isatty.IsTerminal(os.Stdout.Fd())
	} else if f, ok := writer.(*os.File); ok {
		useConsole = isatty.IsTerminal(f.Fd())
	}

	var out io.Writer = writer
	if useConsole {
		out = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).With().Timestamp().Logger().Level(level)
	if cfg.Prefix != "" {
		logger = logger.With().Str("component", cfg.Prefix).Logger()
	}
	return logger
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
