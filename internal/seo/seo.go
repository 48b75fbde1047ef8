// Package seo generates the link preview markup of posts: Open Graph and
// Twitter card meta tags and schema.org JSON-LD described by the post quote,
// plus a sitemap of all posts.
package seo

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/quote"
)

// DefaultTitleLength is the length of titles made from post text.
const DefaultTitleLength = 70

// SitemapEntry represents a post in the sitemap.
type SitemapEntry struct {
	URL     string
	Lastmod time.Time
}

// PostMeta holds metadata needed for meta tag generation.
type PostMeta struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"` // full URL like https://example.com/post/
	SiteName    string    `json:"siteName,omitempty"`
	Language    string    `json:"language,omitempty"`
	Date        time.Time `json:"date,omitzero"`
	Image       string    `json:"image,omitempty"` // URL of the first picture
}

// Options configure FromDocument.
type Options struct {
	BaseLink    string
	SiteName    string
	Language    string
	Quote       quote.Options
	TitleLength int
}

// FromDocument describes doc by its quote flattened to a single line. Posts
// without a title are titled by the start of the quote.
func FromDocument(doc *post.Document, opts Options) PostMeta {
	if opts.TitleLength <= 0 {
		opts.TitleLength = DefaultTitleLength
	}
	q := quote.Generate(doc.Post, opts.Quote)

	title := doc.Post.Title
	if title == "" {
		line, _, _ := strings.Cut(q, "\n")
		title = quote.TrimText(line, opts.TitleLength, quote.TrimOptions{
			MinFitFactor: 0.7,
			TrimPoint:    quote.TrimAtSentenceOrWordEnd,
		})
	}

	return PostMeta{
		Title:       title,
		Description: strings.Join(strings.Fields(q), " "),
		URL:         strings.TrimRight(opts.BaseLink, "/") + "/" + doc.Slug + "/",
		SiteName:    opts.SiteName,
		Language:    opts.Language,
		Date:        doc.Date,
		Image:       firstPictureURL(doc.Post),
	}
}

// firstPictureURL returns the URL of the first embedded picture, or of the
// first picture attachment, or the cover of the first video.
func firstPictureURL(p *content.Post) string {
	embedded := content.VisitParts(p.Content, content.TypeAttachment, func(el content.Element) (*content.Attachment, bool) {
		ab, ok := el.(*content.AttachmentBlock)
		if !ok {
			return nil, false
		}
		a := content.ResolveAttachment(ab, p.Attachments)
		return a, a != nil
	})
	for _, list := range [][]*content.Attachment{embedded, p.Attachments} {
		for _, a := range list {
			if u := pictureURL(a); u != "" {
				return u
			}
		}
	}
	return ""
}

func pictureURL(a *content.Attachment) string {
	switch {
	case a == nil || a.Spoiler:
		return ""
	case a.Picture != nil:
		return a.Picture.URL
	case a.Video != nil && a.Video.Picture != nil:
		return a.Video.Picture.URL
	}
	return ""
}

// sitemapURLSet is the root element of a sitemap XML document.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapURL represents a single URL entry in the sitemap.
type sitemapURL struct {
	Loc     string `xml:"loc"`
	Lastmod string `xml:"lastmod,omitempty"`
}

// SitemapFromDocuments lists the posts under baseLink.
func SitemapFromDocuments(docs []*post.Document, baseLink string) []SitemapEntry {
	base := strings.TrimRight(baseLink, "/")
	entries := make([]SitemapEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, SitemapEntry{URL: base + "/" + d.Slug + "/", Lastmod: d.Date})
	}
	return entries
}

// GenerateSitemap produces an XML sitemap per the sitemaps.org protocol.
// The <lastmod> element (date only) is included when the time is non-zero.
func GenerateSitemap(entries []SitemapEntry) ([]byte, error) {
	urlset := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(entries)),
	}

	for _, e := range entries {
		u := sitemapURL{Loc: e.URL}
		if !e.Lastmod.IsZero() {
			u.Lastmod = e.Lastmod.Format("2006-01-02")
		}
		urlset.URLs = append(urlset.URLs, u)
	}

	output, err := xml.MarshalIndent(urlset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("seo: marshaling sitemap: %w", err)
	}

	result := []byte(xml.Header)
	result = append(result, output...)
	result = append(result, '\n')
	return result, nil
}

// Tags returns every meta tag of a post: the canonical link, the plain
// description, Open Graph, Twitter card and JSON-LD.
func Tags(meta PostMeta) string {
	return strings.Join([]string{
		CanonicalURL(meta.URL),
		fmt.Sprintf(`<meta name="description" content="%s">`, html.EscapeString(meta.Description)),
		OpenGraphMeta(meta),
		TwitterCardMeta(meta),
		JSONLDArticle(meta),
	}, "\n")
}

// OpenGraphMeta generates HTML meta tags for the Open Graph protocol.
func OpenGraphMeta(meta PostMeta) string {
	var tags []string

	tags = append(tags, ogTag("og:title", meta.Title))
	tags = append(tags, ogTag("og:description", meta.Description))
	tags = append(tags, ogTag("og:url", meta.URL))
	tags = append(tags, ogTag("og:type", "article"))

	if meta.SiteName != "" {
		tags = append(tags, ogTag("og:site_name", meta.SiteName))
	}
	if meta.Image != "" {
		tags = append(tags, ogTag("og:image", meta.Image))
	}
	if meta.Language != "" {
		tags = append(tags, ogTag("og:locale", meta.Language))
	}

	return strings.Join(tags, "\n")
}

// ogTag generates a single Open Graph meta tag.
func ogTag(property, content string) string {
	return fmt.Sprintf(`<meta property="%s" content="%s">`, property, html.EscapeString(content))
}

// TwitterCardMeta generates Twitter card meta tags. If a picture is present,
// the card type is "summary_large_image"; otherwise it is "summary".
func TwitterCardMeta(meta PostMeta) string {
	var tags []string

	cardType := "summary"
	if meta.Image != "" {
		cardType = "summary_large_image"
	}

	tags = append(tags, twitterTag("twitter:card", cardType))
	tags = append(tags, twitterTag("twitter:title", meta.Title))
	tags = append(tags, twitterTag("twitter:description", meta.Description))

	if meta.Image != "" {
		tags = append(tags, twitterTag("twitter:image", meta.Image))
	}

	return strings.Join(tags, "\n")
}

// twitterTag generates a single Twitter card meta tag.
func twitterTag(name, content string) string {
	return fmt.Sprintf(`<meta name="%s" content="%s">`, name, html.EscapeString(content))
}

// jsonLDArticle is the structure for schema.org Article JSON-LD.
type jsonLDArticle struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	DatePublished string `json:"datePublished,omitempty"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Image         string `json:"image,omitempty"`
}

// JSONLDArticle generates a <script type="application/ld+json"> block with
// schema.org Article markup.
func JSONLDArticle(meta PostMeta) string {
	article := jsonLDArticle{
		Context:     "https://schema.org",
		Type:        "Article",
		Headline:    meta.Title,
		Description: meta.Description,
		URL:         meta.URL,
		Image:       meta.Image,
	}
	if !meta.Date.IsZero() {
		article.DatePublished = meta.Date.Format(time.RFC3339)
	}

	data, err := json.Marshal(article)
	if err != nil {
		return ""
	}

	return fmt.Sprintf(`<script type="application/ld+json">%s</script>`, string(data))
}

// CanonicalURL returns a <link rel="canonical"> tag for the given permalink.
func CanonicalURL(permalink string) string {
	return fmt.Sprintf(`<link rel="canonical" href="%s">`, html.EscapeString(permalink))
}
