package text

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger sets the logger used to report parts that cannot be rendered.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "text").Logger()
}
