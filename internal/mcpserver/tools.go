package mcpserver

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

func (es *ExcerptServer) registerTools() {
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: ptr(false)}
	annotate := func(title string) *mcp.ToolAnnotations {
		a := *readOnly
		a.Title = title
		return &a
	}

	mcp.AddTool(es.server, &mcp.Tool{
		Name:        "generate_preview",
		Description: "Shorten a post to a preview of about maxLength points. Text costs a point per character; line breaks, paragraphs and attachments cost more. Returns the shortened content tree, or null with fits=true when the post is short enough to show in full.",
		Annotations: annotate("Generate Preview"),
	}, es.handleGeneratePreview)

	mcp.AddTool(es.server, &mcp.Tool{
		Name:        "generate_quote",
		Description: "Generate a short plain-text quote of a post, as shown next to a reply that links it. Quotes of linked posts are left out unless the post has no other text.",
		Annotations: annotate("Generate Quote"),
	}, es.handleGenerateQuote)

	mcp.AddTool(es.server, &mcp.Tool{
		Name:        "get_post_text",
		Description: "Render a post as plain text. Blocks are separated by a blank line, quotes are wrapped in guillemets and spoilers are masked.",
		Annotations: annotate("Get Post Text"),
	}, es.handleGetPostText)

	mcp.AddTool(es.server, &mcp.Tool{
		Name:        "count_post",
		Description: "Measure a post in characters, points and estimated lines.",
		Annotations: annotate("Count Post"),
	}, es.handleCountPost)

	mcp.AddTool(es.server, &mcp.Tool{
		Name:        "trim_text",
		Description: "Trim plain text to about maxLength characters, preferring to end at a sentence, then a word. A trim mark is appended when the text is cut.",
		Annotations: annotate("Trim Text"),
	}, es.handleTrimText)

	mcp.AddTool(es.server, &mcp.Tool{
		Name:        "validate_post",
		Description: "Check a post for content the generators ignore: unknown element types, attachment blocks that reference missing attachments and empty posts.",
		Annotations: annotate("Validate Post"),
	}, es.handleValidatePost)

	mcp.AddTool(es.server, &mcp.Tool{
		Name:        "list_posts",
		Description: "List the posts in the posts directory, newest first, with their quotes.",
		Annotations: annotate("List Posts"),
	}, es.handleListPosts)
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: msg}}}
}

var errNoPost = errors.New("one of post, source, path or slug is required")

// resolvePost returns the post selected by in.
func (es *ExcerptServer) resolvePost(in PostInput) (*content.Post, error) {
	switch {
	case in.Post != nil:
		raw, err := json.Marshal(in.Post)
		if err != nil {
			return nil, err
		}
		return post.Decode(raw, post.FormatJSON)
	case in.Source != "":
		return post.Decode([]byte(in.Source), post.Format(cmp.Or(in.Format, string(post.FormatMarkdown))))
	case in.Path != "":
		return post.Load(in.Path)
	case in.Slug != "":
		doc, ok := es.posts.Find(in.Slug)
		if !ok {
			return nil, fmt.Errorf("post not found: %s", in.Slug)
		}
		return doc.Post, nil
	}
	return nil, errNoPost
}

func (es *ExcerptServer) handleGeneratePreview(ctx context.Context, req *mcp.CallToolRequest, input PreviewInput) (*mcp.CallToolResult, PreviewOutput, error) {
	p, err := es.resolvePost(input.PostInput)
	if err != nil {
		return toolError(err.Error()), PreviewOutput{}, nil
	}

	opts := es.cfg.PreviewOptions()
	opts.MaxLength = cmp.Or(input.MaxLength, opts.MaxLength)
	opts.MinFitFactor = cmp.Or(input.MinFitFactor, opts.MinFitFactor)
	opts.MaxFitFactor = cmp.Or(input.MaxFitFactor, opts.MaxFitFactor)
	opts.MinimizeGeneratedPostLinkBlockQuotes = opts.MinimizeGeneratedPostLinkBlockQuotes || input.MinimizeGeneratedPostLinkBlockQuotes

	gen, err := preview.New(opts)
	if err != nil {
		return toolError(err.Error()), PreviewOutput{}, nil
	}
	c := gen.Generate(p)
	if c == nil {
		return nil, PreviewOutput{Fits: true, Text: text.GetPostText(p, es.cfg.TextOptions())}, nil
	}
	shortened := &content.Post{Content: c, Attachments: p.Attachments}
	return nil, PreviewOutput{
		Preview: c,
		Text:    text.GetPostText(shortened, es.cfg.TextOptions()),
	}, nil
}

func (es *ExcerptServer) handleGenerateQuote(ctx context.Context, req *mcp.CallToolRequest, input QuoteInput) (*mcp.CallToolResult, QuoteOutput, error) {
	p, err := es.resolvePost(input.PostInput)
	if err != nil {
		return toolError(err.Error()), QuoteOutput{}, nil
	}

	opts := es.cfg.QuoteOptions()
	opts.MaxLength = cmp.Or(input.MaxLength, opts.MaxLength)
	opts.MinFitFactor = cmp.Or(input.MinFitFactor, opts.MinFitFactor)
	opts.MaxFitFactor = cmp.Or(input.MaxFitFactor, opts.MaxFitFactor)
	opts.SkipPostQuoteBlocks = opts.SkipPostQuoteBlocks || input.SkipPostQuoteBlocks
	if input.TrimPoint != "" {
		tp, err := quote.ParseTrimPoint(input.TrimPoint)
		if err != nil {
			return toolError(err.Error()), QuoteOutput{}, nil
		}
		opts.TrimPoint = tp
	}
	if err := opts.TrimOptions().Validate(); err != nil {
		return toolError(err.Error()), QuoteOutput{}, nil
	}

	var out QuoteOutput
	opts.OnUntitledAttachment = func(a *content.Attachment) {
		out.UntitledAttachments = append(out.UntitledAttachments, a.ID)
	}
	out.Quote = quote.Generate(p, opts)
	opts.OnUntitledAttachment = nil
	out.CanGenerateIgnoringNestedPostQuotes = quote.CanGenerateIgnoringNestedPostQuotes(p, opts)
	return nil, out, nil
}

func (es *ExcerptServer) handleGetPostText(ctx context.Context, req *mcp.CallToolRequest, input TextInput) (*mcp.CallToolResult, TextOutput, error) {
	p, err := es.resolvePost(input.PostInput)
	if err != nil {
		return toolError(err.Error()), TextOutput{}, nil
	}
	opts := es.cfg.TextOptions()
	opts.SoftLimit = cmp.Or(input.SoftLimit, opts.SoftLimit)
	opts.SkipPostQuoteBlocks = opts.SkipPostQuoteBlocks || input.SkipPostQuoteBlocks
	opts.SkipAttachments = opts.SkipAttachments || input.SkipAttachments
	opts.KeepFullCodeBlocks = opts.KeepFullCodeBlocks || input.KeepFullCodeBlocks
	opts.StopOnNewLine = opts.StopOnNewLine || input.StopOnNewLine
	return nil, TextOutput{Text: text.GetPostText(p, opts)}, nil
}

func (es *ExcerptServer) handleCountPost(ctx context.Context, req *mcp.CallToolRequest, input CountInput) (*mcp.CallToolResult, CountOutput, error) {
	p, err := es.resolvePost(input.PostInput)
	if err != nil {
		return toolError(err.Error()), CountOutput{}, nil
	}
	opts := content.CountOptions{
		MinimizeGeneratedPostLinkBlockQuotes: es.cfg.Preview.MinimizeGeneratedPostLinkBlockQuotes || input.MinimizeGeneratedPostLinkBlockQuotes,
	}
	return nil, CountOutput{
		Characters: content.CountPost(p, content.Characters, opts),
		Points:     content.CountPost(p, content.Points, opts),
		Lines:      content.CountPost(p, content.Lines, opts),
		Blocks:     len(p.Content),
	}, nil
}

func (es *ExcerptServer) handleTrimText(ctx context.Context, req *mcp.CallToolRequest, input TrimInput) (*mcp.CallToolResult, TrimOutput, error) {
	if input.MaxLength < 0 {
		return toolError("maxLength must not be negative"), TrimOutput{}, nil
	}
	tp, err := quote.ParseTrimPoint(input.TrimPoint)
	if err != nil {
		return toolError(err.Error()), TrimOutput{}, nil
	}
	opts := quote.TrimOptions{
		MinFitFactor: input.MinFitFactor,
		MaxFitFactor: input.MaxFitFactor,
		TrimPoint:    tp,
	}
	if input.LineBreakPenalty > 0 {
		opts.LineBreakPenalty = quote.ConstantLineBreakPenalty(input.LineBreakPenalty)
	}
	if err := opts.Validate(); err != nil {
		return toolError(err.Error()), TrimOutput{}, nil
	}
	trimmed := quote.TrimText(input.Text, input.MaxLength, opts)
	return nil, TrimOutput{Text: trimmed, Trimmed: trimmed != input.Text}, nil
}

func (es *ExcerptServer) handleValidatePost(ctx context.Context, req *mcp.CallToolRequest, input ValidatePostInput) (*mcp.CallToolResult, ValidatePostOutput, error) {
	p, err := es.resolvePost(input.PostInput)
	if errors.Is(err, errNoPost) {
		return toolError(err.Error()), ValidatePostOutput{}, nil
	}
	if err != nil {
		return nil, ValidatePostOutput{
			Errors:   []ValidationError{{Field: "_post", Message: err.Error()}},
			Warnings: []ValidationWarning{},
		}, nil
	}
	return nil, validatePost(p), nil
}

func (es *ExcerptServer) handleListPosts(ctx context.Context, req *mcp.CallToolRequest, input ListPostsInput) (*mcp.CallToolResult, ListPostsOutput, error) {
	briefs := es.postBriefs()
	total := len(briefs)

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := min(max(input.Offset, 0), total)
	end := min(offset+limit, total)

	return nil, ListPostsOutput{Total: total, Posts: briefs[offset:end]}, nil
}
