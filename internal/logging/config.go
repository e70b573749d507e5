package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logger options.
type Config struct {
	// Level is the minimum level written: trace, debug, info, warn or error.
	Level string

	// Format is json, console or auto. Auto picks console on a terminal.
	Format string

	// Output receives the log lines. Nil means stderr.
	Output io.Writer

	NoColor bool
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT and NO_COLOR. DEBUG set to
// anything turns on debug output when LOG_LEVEL is unset.
func ConfigFromEnv() Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" && os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	return Config{
		Level:   level,
		Format:  os.Getenv("LOG_FORMAT"),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewFromConfig builds a logger from cfg.
func NewFromConfig(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level := ParseLevel(cfg.Level)

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			format = "console"
		}
	}
	if format == "console" || format == "pretty" {
		return NewConsole(out, level, cfg.NoColor)
	}
	return New(out, level)
}

// ParseLevel maps a level name to a zerolog level. Blank or unknown names
// are warn, which keeps an interactive session quiet.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled", "none":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
