// Package logging builds the zerolog logger shared by the commands and the
// server.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/text"
)

// Formats understood by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a logger writing to w at the given level. An unknown level
// falls back to info. Format "console" writes human-readable lines, anything
// else writes JSON. A nil w writes to stderr.
func New(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// Install hands l to the packages that report malformed posts.
func Install(l zerolog.Logger) {
	content.SetLogger(l)
	text.SetLogger(l)
	preview.SetLogger(l)
}
