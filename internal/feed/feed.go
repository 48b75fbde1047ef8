// Package feed builds RSS 2.0 and Atom 1.0 feeds of posts. Each item is
// described by the post's quote, or by its full text on request.
package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

// DefaultTitleLength is the length of item titles made from post text.
const DefaultTitleLength = 60

// FeedOptions configures feed generation.
type FeedOptions struct {
	Title       string
	Description string
	Link        string // site URL e.g. "https://example.com"
	FeedLink    string // feed URL e.g. "https://example.com/index.xml"
	Language    string
	MaxItems    int  // 0 means no limit
	FullText    bool // describe items by their full text instead of the quote
}

// FeedItem represents a single item in a feed.
type FeedItem struct {
	Title       string
	Link        string // full permalink
	GUID        string
	Description string // the post quote
	Text        string // the full post text
	PubDate     time.Time
}

// ItemOptions configure ItemsFromDocuments.
type ItemOptions struct {
	// BaseLink prefixes item permalinks: BaseLink + "/" + slug + "/".
	BaseLink    string
	Quote       quote.Options
	Text        text.Options
	TitleLength int
}

// ItemsFromDocuments turns loaded posts into feed items. Posts that yield no
// quote are left out.
func ItemsFromDocuments(docs []*post.Document, opts ItemOptions) []FeedItem {
	if opts.TitleLength <= 0 {
		opts.TitleLength = DefaultTitleLength
	}
	base := strings.TrimRight(opts.BaseLink, "/")

	items := make([]FeedItem, 0, len(docs))
	for _, doc := range docs {
		desc := quote.Generate(doc.Post, opts.Quote)
		if desc == "" {
			continue
		}
		link := base + "/" + doc.Slug + "/"
		items = append(items, FeedItem{
			Title:       itemTitle(doc, desc, opts.TitleLength),
			Link:        link,
			GUID:        "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String(),
			Description: desc,
			Text:        text.GetPostText(doc.Post, opts.Text),
			PubDate:     doc.Date,
		})
	}
	return items
}

// itemTitle is the post title, or else the first line of its quote cut at a
// word end.
func itemTitle(doc *post.Document, desc string, length int) string {
	if doc.Post.Title != "" {
		return doc.Post.Title
	}
	line, _, _ := strings.Cut(desc, "\n")
	return quote.TrimText(line, length, quote.TrimOptions{
		MinFitFactor: 0.7,
		TrimPoint:    quote.TrimAtSentenceOrWordEnd,
	})
}

// newest returns a copy of items sorted by PubDate descending and cut to
// maxItems when that is positive.
func newest(items []FeedItem, maxItems int) []FeedItem {
	sorted := make([]FeedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PubDate.After(sorted[j].PubDate)
	})
	if maxItems > 0 && len(sorted) > maxItems {
		sorted = sorted[:maxItems]
	}
	return sorted
}

func (o FeedOptions) describe(item FeedItem) string {
	if o.FullText && item.Text != "" {
		return item.Text
	}
	return item.Description
}
