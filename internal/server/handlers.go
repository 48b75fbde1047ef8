package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aellingwood/excerpt/internal/cache"
	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/feed"
	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/search"
	"github.com/aellingwood/excerpt/internal/seo"
	"github.com/aellingwood/excerpt/internal/text"
)

// request is the body of the generation endpoints. Options are laid over
// the configured defaults; fields left out keep their configured value.
type request struct {
	Post    *content.Post   `json:"post"`
	Options json.RawMessage `json:"options,omitempty"`
}

type previewResponse struct {
	// Preview is null when the post fits as is.
	Preview content.Content `json:"preview"`
	Fits    bool            `json:"fits"`
}

type quoteResponse struct {
	Quote                               string `json:"quote"`
	CanGenerateIgnoringNestedPostQuotes bool   `json:"canGenerateIgnoringNestedPostQuotes"`
}

type textResponse struct {
	Text string `json:"text"`
}

type countResponse struct {
	Characters int `json:"characters"`
	Points     int `json:"points"`
	Lines      int `json:"lines"`
}

type postSummary struct {
	Path  string    `json:"path"`
	Slug  string    `json:"slug"`
	Date  time.Time `json:"date"`
	Title string    `json:"title,omitempty"`
	Quote string    `json:"quote"`
}

var errBadRequest = errors.New("bad request")

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := s.cfg.PreviewOptions()
	if err := overlay(req.Options, &opts); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	gen, err := preview.New(opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.serveCached(w, r, "preview", req.Post, opts, func() (any, error) {
		p := gen.Generate(req.Post)
		return previewResponse{Preview: p, Fits: p == nil}, nil
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := s.cfg.QuoteOptions()
	if err := overlay(req.Options, &opts); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if opts.MaxLength <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: maxLength must be positive", errBadRequest))
		return
	}
	if err := opts.TrimOptions().Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key := struct {
		Options  quote.Options     `json:"options"`
		Messages *content.Messages `json:"messages"`
	}{opts, opts.Messages}
	s.serveCached(w, r, "quote", req.Post, key, func() (any, error) {
		return quoteResponse{
			Quote:                               quote.Generate(req.Post, opts),
			CanGenerateIgnoringNestedPostQuotes: quote.CanGenerateIgnoringNestedPostQuotes(req.Post, opts),
		}, nil
	})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := s.cfg.TextOptions()
	if err := overlay(req.Options, &opts); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key := struct {
		Options  text.Options      `json:"options"`
		Messages *content.Messages `json:"messages"`
	}{opts, opts.Messages}
	s.serveCached(w, r, "text", req.Post, key, func() (any, error) {
		return textResponse{Text: text.GetPostText(req.Post, opts)}, nil
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := content.CountOptions{
		MinimizeGeneratedPostLinkBlockQuotes: s.cfg.Preview.MinimizeGeneratedPostLinkBlockQuotes,
	}
	writeJSON(w, http.StatusOK, countResponse{
		Characters: content.CountPost(req.Post, content.Characters, opts),
		Points:     content.CountPost(req.Post, content.Points, opts),
		Lines:      content.CountPost(req.Post, content.Lines, opts),
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, _ *http.Request) {
	opts := s.cfg.QuoteOptions()
	docs := s.store.list()
	out := make([]postSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, postSummary{
			Path:  d.Path,
			Slug:  d.Slug,
			Date:  d.Date,
			Title: d.Post.Title,
			Quote: quote.Generate(d.Post, opts),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	fc := s.cfg.Feed
	items := feed.ItemsFromDocuments(s.store.list(), feed.ItemOptions{
		BaseLink: fc.Link,
		Quote:    s.cfg.QuoteOptions(),
		Text:     s.cfg.TextOptions(),
	})
	opts := feed.FeedOptions{
		Title:       fc.Title,
		Description: fc.Description,
		Link:        fc.Link,
		Language:    fc.Language,
		MaxItems:    fc.Limit,
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "rss":
		data, err = feed.GenerateRSS(items, opts)
		contentType = "application/rss+xml; charset=utf-8"
	case "atom":
		data, err = feed.GenerateAtom(items, opts)
		contentType = "application/atom+xml; charset=utf-8"
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: unknown feed format %q", errBadRequest, format))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePostMeta(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	doc, ok := s.store.find(slug)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("post %q not found", slug))
		return
	}
	meta := seo.FromDocument(doc, seo.Options{
		BaseLink: s.cfg.Feed.Link,
		SiteName: s.cfg.Feed.Title,
		Language: s.cfg.Feed.Language,
		Quote:    s.cfg.QuoteOptions(),
	})
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, meta)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, seo.Tags(meta)+"\n")
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries := search.Build(s.store.list(), search.Options{
		BaseLink: s.cfg.Feed.Link,
		Quote:    s.cfg.QuoteOptions(),
		Text:     s.cfg.TextOptions(),
	})
	matches := search.Match(entries, q.Get("q"))
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []search.Entry{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleSitemap(w http.ResponseWriter, _ *http.Request) {
	data, err := seo.GenerateSitemap(seo.SitemapFromDocuments(s.store.list(), s.cfg.Feed.Link))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// serveCached writes the JSON result of compute, consulting the cache under
// a key derived from kind, the post and keyOpts.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, kind string, p *content.Post, keyOpts any, compute func() (any, error)) {
	postJSON, err := json.Marshal(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key, err := cache.Key(kind, postJSON, keyOpts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	data, hit, err := cache.GetOrCompute(r.Context(), s.cache, key, s.cfg.Cache.TTL, s.log, func() ([]byte, error) {
		start := time.Now()
		v, err := compute()
		s.metrics.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if hit {
		s.metrics.cacheHits.Inc()
	} else {
		s.metrics.cacheMisses.Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*request, error) {
	var req request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", errBadRequest, err)
	}
	if req.Post == nil {
		return nil, fmt.Errorf("%w: missing post", errBadRequest)
	}
	return &req, nil
}

func overlay(raw json.RawMessage, opts any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, opts); err != nil {
		return fmt.Errorf("%w: decoding options: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
