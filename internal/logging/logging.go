package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"insights/internal/config"

	"github.com/charmbracelet/log"
)

// New builds a leveled logger writing to stderr from the logging configuration
func New(cfg config.LoggingConfig) *log.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter builds a logger writing to w
func NewWithWriter(w io.Writer, cfg config.LoggingConfig) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Formatter:       formatter(cfg.Format),
	})
	if err != nil {
		logger.Warn("invalid LOG_LEVEL, using info", "value", cfg.Level)
	}
	return logger
}

// ReportConfigWarnings logs the environment values config.Load ignored
func ReportConfigWarnings(logger *log.Logger, warnings []string) {
	for _, w := range warnings {
		logger.Warn("config: " + w)
	}
}

// Discard returns a logger that drops everything, for tests and quiet CLIs
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func formatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
