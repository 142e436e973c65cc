// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps the CLI quiet unless something goes wrong.
const DefaultLevel = "warn"

// Formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to w. An empty level means DefaultLevel.
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var out io.Writer
	switch strings.ToLower(format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	case FormatJSON:
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q: must be %q or %q", format, FormatConsole, FormatJSON)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(out).With().Timestamp().Logger().Level(lvl), nil
}
