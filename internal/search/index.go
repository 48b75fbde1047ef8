// Package search builds a JSON search index of posts and answers simple
// term queries against it.
package search

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

// Entry represents a single post in the search index.
type Entry struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title,omitempty"`
	URL     string    `json:"url"`
	Date    time.Time `json:"date,omitzero"`
	Quote   string    `json:"quote,omitempty"`
	Content string    `json:"content,omitempty"`
}

// Options configure Build.
type Options struct {
	// BaseLink prefixes entry URLs: BaseLink + "/" + slug + "/".
	BaseLink string
	Quote    quote.Options
	Text     text.Options
	// MaxContentLength cuts entry content at a word end when positive.
	MaxContentLength int
}

// Build turns loaded posts into index entries in the order given.
func Build(docs []*post.Document, opts Options) []Entry {
	base := strings.TrimRight(opts.BaseLink, "/")
	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		body := collapseWhitespace(text.GetPostText(doc.Post, opts.Text))
		if opts.MaxContentLength > 0 {
			body = quote.TrimText(body, opts.MaxContentLength, quote.TrimOptions{
				MinFitFactor: 0.8,
				TrimPoint:    quote.TrimAtSentenceOrWordEnd,
			})
		}
		entries = append(entries, Entry{
			Slug:    doc.Slug,
			Title:   doc.Post.Title,
			URL:     base + "/" + doc.Slug + "/",
			Date:    doc.Date,
			Quote:   quote.Generate(doc.Post, opts.Quote),
			Content: body,
		})
	}
	return entries
}

// GenerateIndex serializes entries as an indented JSON array.
func GenerateIndex(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Match returns the entries whose title or content contains every term of
// query, ignoring case. Entries with more occurrences come first; ties keep
// their order. An empty query matches nothing.
func Match(entries []Entry, query string) []Entry {
	fold := cases.Fold()
	terms := strings.Fields(fold.String(query))
	if len(terms) == 0 {
		return nil
	}

	type hit struct {
		entry Entry
		score int
	}
	var hits []hit
	for _, e := range entries {
		haystack := fold.String(e.Title + " " + e.Content)
		score := 0
		for _, term := range terms {
			n := strings.Count(haystack, term)
			if n == 0 {
				score = 0
				break
			}
			score += n
		}
		if score > 0 {
			hits = append(hits, hit{e, score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// collapseWhitespace replaces runs of whitespace (spaces, tabs, newlines) with
// a single space and trims leading/trailing whitespace.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, ch := range s {
		switch ch {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		default:
			b.WriteRune(ch)
			inSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}
