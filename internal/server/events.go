package server

import (
	"errors"
	"io/fs"

	"github.com/google/uuid"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

// Event is pushed to websocket clients when a watched post changes.
type Event struct {
	ID      uuid.UUID       `json:"id"`
	Path    string          `json:"path"`
	Removed bool            `json:"removed,omitempty"`
	Error   string          `json:"error,omitempty"`
	Preview content.Content `json:"preview,omitempty"`
	Fits    bool            `json:"fits,omitempty"`
	Quote   string          `json:"quote,omitempty"`
	Text    string          `json:"text,omitempty"`
}

// reload re-reads the changed paths, updates the store and broadcasts one
// event per path.
func (s *Server) reload(paths []string) {
	gen, err := preview.New(s.cfg.PreviewOptions())
	if err != nil {
		s.log.Error().Err(err).Msg("invalid preview options")
		return
	}
	for _, path := range paths {
		if !post.IsPostFile(path) {
			continue
		}
		if err := s.hub.Publish(s.eventFor(path, gen)); err != nil {
			s.log.Error().Err(err).Msg("publishing event")
		}
	}
}

func (s *Server) eventFor(path string, gen *preview.Generator) Event {
	ev := Event{ID: uuid.New(), Path: path}
	doc, err := post.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.store.remove(path)
		ev.Removed = true
		return ev
	case err != nil:
		s.log.Warn().Err(err).Str("path", path).Msg("reloading post")
		ev.Error = err.Error()
		return ev
	}
	s.store.put(doc)

	ev.Preview = gen.Generate(doc.Post)
	ev.Fits = ev.Preview == nil
	ev.Quote = quote.Generate(doc.Post, s.cfg.QuoteOptions())
	ev.Text = text.GetPostText(doc.Post, s.cfg.TextOptions())
	return ev
}
