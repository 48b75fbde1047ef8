package feed

import (
	"encoding/xml"
	"time"
)

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	Xmlns    string      `xml:"xmlns,attr"`
	Lang     string      `xml:"xml:lang,attr,omitempty"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Links    []atomLink  `xml:"link"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type atomEntry struct {
	Title     string       `xml:"title"`
	Link      atomLink     `xml:"link"`
	ID        string       `xml:"id"`
	Published string       `xml:"published"`
	Updated   string       `xml:"updated"`
	Summary   *atomContent `xml:"summary,omitempty"`
	Content   *atomContent `xml:"content,omitempty"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// GenerateAtom generates an Atom 1.0 XML feed. Every entry carries the quote
// as its summary; with opts.FullText the full text is added as content.
func GenerateAtom(items []FeedItem, opts FeedOptions) ([]byte, error) {
	sorted := newest(items, opts.MaxItems)

	updated := time.Now().UTC()
	if len(sorted) > 0 {
		updated = sorted[0].PubDate
	}

	entries := make([]atomEntry, 0, len(sorted))
	for _, item := range sorted {
		entry := atomEntry{
			Title:     item.Title,
			Link:      atomLink{Href: item.Link, Rel: "alternate"},
			ID:        item.GUID,
			Published: item.PubDate.Format(time.RFC3339),
			Updated:   item.PubDate.Format(time.RFC3339),
			Summary:   &atomContent{Type: "text", Body: item.Description},
		}
		if opts.FullText && item.Text != "" {
			entry.Content = &atomContent{Type: "text", Body: item.Text}
		}
		entries = append(entries, entry)
	}

	feed := atomFeed{
		Xmlns:    "http://www.w3.org/2005/Atom",
		Lang:     opts.Language,
		Title:    opts.Title,
		Subtitle: opts.Description,
		Links: []atomLink{
			{Href: opts.Link, Rel: "alternate"},
			{Href: opts.FeedLink, Rel: "self"},
		},
		ID:      opts.Link + "/",
		Updated: updated.Format(time.RFC3339),
		Entries: entries,
	}
	return marshalXML(feed)
}
