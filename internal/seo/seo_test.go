package seo

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/quote"
)

func TestFromDocument(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	doc := &post.Document{
		Slug: "launch",
		Date: date,
		Post: &content.Post{
			Title: "Launch day",
			Content: content.Content{
				content.Text("We shipped it."),
				content.Text("Thanks, everyone."),
				&content.AttachmentBlock{AttachmentID: 2},
			},
			Attachments: []*content.Attachment{
				{ID: 1, Type: content.AttachmentPicture, Picture: &content.Picture{URL: "https://cdn.example.com/1.png"}},
				{ID: 2, Type: content.AttachmentPicture, Picture: &content.Picture{URL: "https://cdn.example.com/2.png"}},
			},
		},
	}

	meta := FromDocument(doc, Options{
		BaseLink: "https://example.com/",
		SiteName: "Example",
		Quote:    quote.DefaultOptions(300),
	})

	if meta.Title != "Launch day" {
		t.Errorf("Title = %q, want %q", meta.Title, "Launch day")
	}
	if meta.Description != "Launch day We shipped it. Thanks, everyone." {
		t.Errorf("Description = %q", meta.Description)
	}
	if meta.URL != "https://example.com/launch/" {
		t.Errorf("URL = %q", meta.URL)
	}
	if meta.Image != "https://cdn.example.com/2.png" {
		t.Errorf("Image = %q, want the embedded picture", meta.Image)
	}
	if !meta.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", meta.Date, date)
	}
}

func TestFromDocument_Untitled(t *testing.T) {
	doc := &post.Document{
		Slug: "note",
		Post: &content.Post{Content: content.Content{
			content.Text("A short note about something that happened today at work."),
		}},
	}
	meta := FromDocument(doc, Options{Quote: quote.DefaultOptions(300), TitleLength: 20})
	if meta.Title == "" || len([]rune(meta.Title)) > 22 {
		t.Errorf("expected a short title made from the text, got %q", meta.Title)
	}
	if !strings.HasPrefix(meta.Title, "A short note") {
		t.Errorf("expected the title to start with the text, got %q", meta.Title)
	}
	if meta.URL != "/note/" {
		t.Errorf("URL = %q, want %q", meta.URL, "/note/")
	}
}

func TestFirstPictureURL(t *testing.T) {
	tests := []struct {
		name string
		post *content.Post
		want string
	}{
		{
			name: "no attachments",
			post: &content.Post{},
			want: "",
		},
		{
			name: "spoiler pictures are skipped",
			post: &content.Post{Attachments: []*content.Attachment{
				{ID: 1, Type: content.AttachmentPicture, Spoiler: true, Picture: &content.Picture{URL: "hidden.png"}},
				{ID: 2, Type: content.AttachmentPicture, Picture: &content.Picture{URL: "shown.png"}},
			}},
			want: "shown.png",
		},
		{
			name: "video cover",
			post: &content.Post{Attachments: []*content.Attachment{
				{ID: 1, Type: content.AttachmentVideo, Video: &content.Video{Picture: &content.Picture{URL: "cover.png"}}},
			}},
			want: "cover.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstPictureURL(tt.post); got != tt.want {
				t.Errorf("firstPictureURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateSitemap(t *testing.T) {
	docs := []*post.Document{
		{Slug: "first", Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Post: &content.Post{}},
		{Slug: "second", Post: &content.Post{}},
	}

	data, err := GenerateSitemap(SitemapFromDocuments(docs, "https://example.com/"))
	if err != nil {
		t.Fatalf("GenerateSitemap returned error: %v", err)
	}

	result := string(data)
	if !strings.HasPrefix(result, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("sitemap should start with XML declaration")
	}
	if !strings.Contains(result, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("sitemap should contain sitemaps.org xmlns")
	}

	var parsed sitemapURLSet
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(parsed.URLs))
	}
	if parsed.URLs[0].Loc != "https://example.com/first/" || parsed.URLs[0].Lastmod != "2025-06-15" {
		t.Errorf("unexpected first URL: %+v", parsed.URLs[0])
	}
	if parsed.URLs[1].Lastmod != "" {
		t.Errorf("expected no lastmod for a zero date, got %q", parsed.URLs[1].Lastmod)
	}
}

func TestOpenGraphMeta(t *testing.T) {
	meta := PostMeta{
		Title:       `Quotes "and" <tags>`,
		Description: "A post",
		URL:         "https://example.com/p/",
		Image:       "https://example.com/p.png",
	}
	got := OpenGraphMeta(meta)

	for _, want := range []string{
		`<meta property="og:title" content="Quotes &#34;and&#34; &lt;tags&gt;">`,
		`<meta property="og:type" content="article">`,
		`<meta property="og:image" content="https://example.com/p.png">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("OpenGraphMeta missing %s in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "og:site_name") || strings.Contains(got, "og:locale") {
		t.Errorf("expected empty site name and locale to be left out:\n%s", got)
	}
}

func TestTwitterCardMeta(t *testing.T) {
	t.Run("without image", func(t *testing.T) {
		got := TwitterCardMeta(PostMeta{Title: "T", Description: "D"})
		if !strings.Contains(got, `<meta name="twitter:card" content="summary">`) {
			t.Errorf("expected summary card:\n%s", got)
		}
	})
	t.Run("with image", func(t *testing.T) {
		got := TwitterCardMeta(PostMeta{Title: "T", Description: "D", Image: "i.png"})
		if !strings.Contains(got, `<meta name="twitter:card" content="summary_large_image">`) {
			t.Errorf("expected large image card:\n%s", got)
		}
		if !strings.Contains(got, `<meta name="twitter:image" content="i.png">`) {
			t.Errorf("expected image tag:\n%s", got)
		}
	})
}

func TestJSONLDArticle(t *testing.T) {
	got := JSONLDArticle(PostMeta{
		Title:       "Launch",
		Description: "We shipped it.",
		URL:         "https://example.com/launch/",
		Date:        time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	})

	const prefix = `<script type="application/ld+json">`
	const suffix = `</script>`
	if !strings.HasPrefix(got, prefix) || !strings.HasSuffix(got, suffix) {
		t.Fatalf("unexpected wrapper: %s", got)
	}

	var article jsonLDArticle
	if err := json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(got, prefix), suffix)), &article); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if article.Type != "Article" || article.Headline != "Launch" || article.DatePublished != "2025-06-15T12:00:00Z" {
		t.Errorf("unexpected article: %+v", article)
	}
	if article.Image != "" {
		t.Errorf("expected no image, got %q", article.Image)
	}
}

func TestTags(t *testing.T) {
	got := Tags(PostMeta{Title: "T", Description: "D", URL: "https://example.com/t/"})
	for _, want := range []string{
		`<link rel="canonical" href="https://example.com/t/">`,
		`<meta name="description" content="D">`,
		"og:title",
		"twitter:card",
		"application/ld+json",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Tags missing %s in:\n%s", want, got)
		}
	}
}
