package search

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/quote"
)

func testDocs() []*post.Document {
	return []*post.Document{
		{
			Path: "first.json",
			Slug: "first",
			Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Post: &content.Post{
				Title: "First Post",
				Content: content.Content{
					content.Text("Go is fun."),
					content.Text("Testing in Go is also fun."),
				},
			},
		},
		{
			Path: "second.json",
			Slug: "second",
			Post: &content.Post{Content: content.Content{content.Text("Rust has a borrow checker.")}},
		},
	}
}

func TestBuild(t *testing.T) {
	entries := Build(testDocs(), Options{
		BaseLink: "https://example.com/",
		Quote:    quote.DefaultOptions(300),
	})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.URL != "https://example.com/first/" {
		t.Errorf("expected URL 'https://example.com/first/', got %q", first.URL)
	}
	if first.Content != "Go is fun. Testing in Go is also fun." {
		t.Errorf("expected collapsed content, got %q", first.Content)
	}
	if first.Quote != "First Post\nGo is fun.\nTesting in Go is also fun." {
		t.Errorf("unexpected quote %q", first.Quote)
	}
	if entries[1].Title != "" || entries[1].Slug != "second" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestBuild_MaxContentLength(t *testing.T) {
	entries := Build(testDocs(), Options{MaxContentLength: 12})
	if got := entries[0].Content; got != "Go is fun." {
		t.Errorf("expected content cut at the sentence end, got %q", got)
	}
	if got := entries[1].Content; got == "Rust has a borrow checker." {
		t.Errorf("expected content to be cut, got %q", got)
	}
}

func TestGenerateIndex(t *testing.T) {
	data, err := GenerateIndex(Build(testDocs(), Options{}))
	if err != nil {
		t.Fatalf("GenerateIndex returned error: %v", err)
	}

	var result []Entry
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(result) != 2 || result[0].Slug != "first" || result[1].Slug != "second" {
		t.Errorf("unexpected index: %+v", result)
	}
	if !result[0].Date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", result[0].Date)
	}
}

func TestGenerateIndex_Empty(t *testing.T) {
	data, err := GenerateIndex(nil)
	if err != nil {
		t.Fatalf("GenerateIndex returned error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected '[]', got %q", data)
	}
}

func TestMatch(t *testing.T) {
	entries := Build(testDocs(), Options{})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single term", "rust", []string{"second"}},
		{"case is ignored", "GO", []string{"first"}},
		{"every term must match", "go rust", nil},
		{"title matches", "post", []string{"first"}},
		{"empty query", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(entries, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Match(%q) returned %d entries, want %d", tt.query, len(got), len(tt.want))
			}
			for i, e := range got {
				if e.Slug != tt.want[i] {
					t.Errorf("Match(%q)[%d] = %q, want %q", tt.query, i, e.Slug, tt.want[i])
				}
			}
		})
	}
}

func TestMatch_Ranking(t *testing.T) {
	entries := []Entry{
		{Slug: "once", Content: "fun"},
		{Slug: "twice", Content: "fun and more fun"},
	}
	got := Match(entries, "fun")
	if len(got) != 2 || got[0].Slug != "twice" {
		t.Errorf("expected the entry with more matches first, got %+v", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a  b", "a b"},
		{"\n\na\n\nb\t", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := collapseWhitespace(tt.in); got != tt.want {
			t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
