package content

import "github.com/rs/zerolog"

// logger reports malformed content. Processing always continues past the
// offending part.
var logger = zerolog.Nop()

// SetLogger sets the logger used to report malformed content. It is meant to
// be called once during startup.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "content").Logger()
}

// Logger returns the logger used to report malformed content.
func Logger() *zerolog.Logger {
	return &logger
}
