package mcpserver

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

func (es *ExcerptServer) registerResources() {
	es.server.AddResource(&mcp.Resource{
		URI:         "excerpt://config",
		Name:        "Configuration",
		Description: "Resolved preview, quote and text options",
		MIMEType:    "application/json",
	}, es.handleConfigResource)

	es.server.AddResource(&mcp.Resource{
		URI:         postsURI,
		Name:        "Posts",
		Description: "All posts in the posts directory with their quotes, newest first",
		MIMEType:    "application/json",
	}, es.handlePostsResource)

	es.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "excerpt://posts/{slug}",
		Name:        "Post Detail",
		Description: "A single post with its preview, quote and plain text",
		MIMEType:    "application/json",
	}, es.handlePostDetailResource)
}

func jsonResource(uri, data string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: data},
		},
	}
}

func marshalResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, string(b)), nil
}

func (es *ExcerptServer) handleConfigResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return marshalResource(req.Params.URI, map[string]any{
		"preview":  es.cfg.PreviewOptions(),
		"quote":    es.cfg.QuoteOptions(),
		"text":     es.cfg.TextOptions(),
		"messages": es.cfg.Messages,
		"postsDir": es.posts.dir,
	})
}

func (es *ExcerptServer) handlePostsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return marshalResource(req.Params.URI, map[string]any{
		"posts":    es.postBriefs(),
		"problems": es.posts.Problems(),
	})
}

func (es *ExcerptServer) handlePostDetailResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	slug := strings.TrimPrefix(req.Params.URI, postsURI+"/")
	doc, ok := es.posts.Find(slug)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	gen, err := preview.New(es.cfg.PreviewOptions())
	if err != nil {
		return nil, err
	}
	detail := PostDetail{
		PostBrief: es.brief(doc),
		Post:      doc.Post,
		Text:      text.GetPostText(doc.Post, es.cfg.TextOptions()),
	}
	if p := gen.Generate(doc.Post); p != nil {
		detail.Preview = p
	}
	return marshalResource(req.Params.URI, detail)
}

func (es *ExcerptServer) postBriefs() []PostBrief {
	docs := es.posts.Load()
	briefs := make([]PostBrief, 0, len(docs))
	for _, d := range docs {
		briefs = append(briefs, es.brief(d))
	}
	sortBriefs(briefs)
	return briefs
}

func (es *ExcerptServer) brief(d *post.Document) PostBrief {
	return PostBrief{
		Path:       d.Path,
		Slug:       d.Slug,
		Date:       d.Date,
		Title:      d.Post.Title,
		Quote:      quote.Generate(d.Post, es.cfg.QuoteOptions()),
		Characters: content.CountPost(d.Post, content.Characters, content.CountOptions{}),
	}
}

// sortBriefs orders posts newest first, then by path.
func sortBriefs(briefs []PostBrief) {
	sort.Slice(briefs, func(i, j int) bool {
		if !briefs[i].Date.Equal(briefs[j].Date) {
			return briefs[i].Date.After(briefs[j].Date)
		}
		return briefs[i].Path < briefs[j].Path
	})
}
