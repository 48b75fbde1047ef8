package feed

import (
	"encoding/xml"
	"time"
)

// CDATA wraps text in a CDATA section when marshaled to XML.
type CDATA struct {
	Text string `xml:",cdata"`
}

// rssFeed is the top-level RSS 2.0 XML structure.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	Description string      `xml:"description"`
	Language    string      `xml:"language,omitempty"`
	AtomLink    rssAtomLink `xml:"atom:link"`
	Items       []rssItem   `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
	Description CDATA   `xml:"description"`
}

// GenerateRSS generates an RSS 2.0 XML feed from the given items and options.
// Items are sorted by PubDate descending and cut to opts.MaxItems.
func GenerateRSS(items []FeedItem, opts FeedOptions) ([]byte, error) {
	sorted := newest(items, opts.MaxItems)

	rssItems := make([]rssItem, 0, len(sorted))
	for _, item := range sorted {
		rssItems = append(rssItems, rssItem{
			Title:       item.Title,
			Link:        item.Link,
			PubDate:     item.PubDate.Format(time.RFC1123Z),
			GUID:        rssGUID{Value: item.GUID},
			Description: CDATA{Text: opts.describe(item)},
		})
	}

	feed := rssFeed{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       opts.Title,
			Link:        opts.Link,
			Description: opts.Description,
			Language:    opts.Language,
			AtomLink: rssAtomLink{
				Href: opts.FeedLink,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: rssItems,
		},
	}
	return marshalXML(feed)
}

func marshalXML(v any) ([]byte, error) {
	output, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	result := make([]byte, 0, len(xml.Header)+len(output))
	result = append(result, xml.Header...)
	return append(result, output...), nil
}
