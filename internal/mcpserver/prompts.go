package mcpserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

func (es *ExcerptServer) registerPrompts() {
	es.server.AddPrompt(&mcp.Prompt{
		Name:        "summarize_post",
		Description: "Write a summary of a post that fits where its generated quote would be shown",
		Arguments: []*mcp.PromptArgument{
			{Name: "slug", Description: "Slug of the post to summarize", Required: true},
			{Name: "maxLength", Description: "Summary length in characters (defaults to the quote length)"},
		},
	}, es.handleSummarizePrompt)

	es.server.AddPrompt(&mcp.Prompt{
		Name:        "review_preview",
		Description: "Review where the generated preview of a post cuts it",
		Arguments: []*mcp.PromptArgument{
			{Name: "slug", Description: "Slug of the post to review", Required: true},
		},
	}, es.handleReviewPreviewPrompt)
}

func (es *ExcerptServer) handleSummarizePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	doc, ok := es.posts.Find(args["slug"])
	if !ok {
		return nil, fmt.Errorf("post not found: %s", args["slug"])
	}

	opts := es.cfg.QuoteOptions()
	if s := args["maxLength"]; s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid maxLength %q", s)
		}
		opts.MaxLength = n
	}

	msg := fmt.Sprintf(`Summarize the post below in at most %d characters of plain text.

The automatically generated quote of this post is:
%s

Write a summary that is more informative than the quote while keeping to the length. Do not add information that is not in the post.

Post text:
%s`, opts.MaxLength, quote.Generate(doc.Post, opts), text.GetPostText(doc.Post, es.cfg.TextOptions()))

	return &mcp.GetPromptResult{
		Description: "Summary of " + doc.Slug,
		Messages: []*mcp.PromptMessage{
			{Role: mcp.Role("user"), Content: &mcp.TextContent{Text: msg}},
		},
	}, nil
}

func (es *ExcerptServer) handleReviewPreviewPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	slug := req.Params.Arguments["slug"]
	doc, ok := es.posts.Find(slug)
	if !ok {
		return nil, fmt.Errorf("post not found: %s", slug)
	}
	gen, err := preview.New(es.cfg.PreviewOptions())
	if err != nil {
		return nil, err
	}

	full := text.GetPostText(doc.Post, es.cfg.TextOptions())
	var msg string
	if p := gen.Generate(doc.Post); p == nil {
		msg = fmt.Sprintf("The post %q is shown in full, without a preview. Check whether it is too long to be shown in a feed uncut.\n\nPost text:\n%s", slug, full)
	} else {
		shortened := *doc.Post
		shortened.Content = p
		msg = fmt.Sprintf(`The post %q is shown in a feed as the preview below, followed by a "read more" link.

Check whether the preview stops at a natural point and keeps the parts a reader needs to decide whether to read on. Suggest where a better cut would be, if any.

Preview:
%s

Full post:
%s`, slug, text.GetPostText(&shortened, es.cfg.TextOptions()), full)
	}

	return &mcp.GetPromptResult{
		Description: "Preview review of " + slug,
		Messages: []*mcp.PromptMessage{
			{Role: mcp.Role("user"), Content: &mcp.TextContent{Text: msg}},
		},
	}, nil
}
