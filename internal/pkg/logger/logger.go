package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a zerolog level name as written in configuration
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	// Disabled silences everything; the CLI runs this way unless --verbose is set
	Disabled LogLevel = "disabled"
)

// Config represents logger configuration
type Config struct {
	Level  LogLevel
	Pretty bool      // console output instead of JSON lines
	Output io.Writer // os.Stdout when nil
}

var defaultLogger zerolog.Logger

// ParseFormat reports whether a configured format name asks for console output
func ParseFormat(format string) bool {
	switch strings.ToLower(format) {
	case "text", "console", "pretty":
		return true
	}
	return false
}

// Configure installs the process-wide logger (also zerolog's log.Logger) and
// returns it. Unknown or empty levels fall back to info.
func Configure(config Config) zerolog.Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	if config.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(string(config.Level)))
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	defaultLogger = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = defaultLogger
	return defaultLogger
}

// Component returns a child logger tagged with the component name
func Component(name string) zerolog.Logger {
	return defaultLogger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event { return defaultLogger.Debug() }
func Info() *zerolog.Event  { return defaultLogger.Info() }
func Warn() *zerolog.Event  { return defaultLogger.Warn() }
func Error() *zerolog.Event { return defaultLogger.Error() }

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stderr})
}
