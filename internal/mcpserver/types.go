// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes preview, quote and text generation, and the posts of a directory,
// to MCP clients.
package mcpserver

import "time"

// PostInput selects the post a tool works on. Exactly one of Post, Source,
// Path and Slug is expected.
type PostInput struct {
	Post   map[string]any `json:"post,omitempty"   jsonschema:"The post as JSON with title, content and attachments"`
	Source string         `json:"source,omitempty" jsonschema:"The post as a document in one of the post formats"`
	Format string         `json:"format,omitempty" jsonschema:"Format of source: json, yaml, toml or markdown (default markdown)"`
	Path   string         `json:"path,omitempty"   jsonschema:"Path of a post file (.json, .yaml, .toml or .md)"`
	Slug   string         `json:"slug,omitempty"   jsonschema:"Slug of a post in the posts directory"`
}

// PreviewInput is the input for the generate_preview tool.
type PreviewInput struct {
	PostInput
	MaxLength                            int     `json:"maxLength,omitempty"                            jsonschema:"Preview size in points; defaults to the configured length"`
	MinFitFactor                         float64 `json:"minFitFactor,omitempty"                         jsonschema:"Share of maxLength the preview should reach, in (0, 1]"`
	MaxFitFactor                         float64 `json:"maxFitFactor,omitempty"                         jsonschema:"How far past maxLength the preview may stretch, at least 1"`
	MinimizeGeneratedPostLinkBlockQuotes bool    `json:"minimizeGeneratedPostLinkBlockQuotes,omitempty" jsonschema:"Do not count collapsed autogenerated post quotes"`
}

// PreviewOutput is the output of the generate_preview tool.
type PreviewOutput struct {
	// Preview is the shortened content tree, or null when the post fits.
	Preview any    `json:"preview"`
	Fits    bool   `json:"fits"`
	Text    string `json:"text"`
}

// QuoteInput is the input for the generate_quote tool.
type QuoteInput struct {
	PostInput
	MaxLength           int     `json:"maxLength,omitempty"           jsonschema:"Quote length in characters; defaults to the configured length"`
	MinFitFactor        float64 `json:"minFitFactor,omitempty"        jsonschema:"Share of maxLength the quote should reach, in (0, 1]"`
	MaxFitFactor        float64 `json:"maxFitFactor,omitempty"        jsonschema:"How far past maxLength the quote may stretch, at least 1"`
	TrimPoint           string  `json:"trimPoint,omitempty"           jsonschema:"Where the quote may end: sentence-end or sentence-or-word-end"`
	SkipPostQuoteBlocks bool    `json:"skipPostQuoteBlocks,omitempty" jsonschema:"Never quote block quotes of linked posts"`
}

// QuoteOutput is the output of the generate_quote tool.
type QuoteOutput struct {
	Quote                               string `json:"quote"`
	CanGenerateIgnoringNestedPostQuotes bool   `json:"canGenerateIgnoringNestedPostQuotes"`
	UntitledAttachments                 []int  `json:"untitledAttachments,omitempty"`
}

// TextInput is the input for the get_post_text tool.
type TextInput struct {
	PostInput
	SoftLimit           float64 `json:"softLimit,omitempty"           jsonschema:"Stop after roughly this many characters; 0 renders everything"`
	SkipPostQuoteBlocks bool    `json:"skipPostQuoteBlocks,omitempty" jsonschema:"Leave out block quotes of linked posts"`
	SkipAttachments     bool    `json:"skipAttachments,omitempty"     jsonschema:"Leave out attachments"`
	KeepFullCodeBlocks  bool    `json:"keepFullCodeBlocks,omitempty"  jsonschema:"Render code blocks in full instead of their first line"`
	StopOnNewLine       bool    `json:"stopOnNewLine,omitempty"       jsonschema:"Return the first line only"`
}

// TextOutput is the output of the get_post_text tool.
type TextOutput struct {
	Text string `json:"text"`
}

// CountInput is the input for the count_post tool.
type CountInput struct {
	PostInput
	MinimizeGeneratedPostLinkBlockQuotes bool `json:"minimizeGeneratedPostLinkBlockQuotes,omitempty" jsonschema:"Do not count collapsed autogenerated post quotes"`
}

// CountOutput is the output of the count_post tool.
type CountOutput struct {
	Characters int `json:"characters"`
	Points     int `json:"points"`
	Lines      int `json:"lines"`
	Blocks     int `json:"blocks"`
}

// TrimInput is the input for the trim_text tool.
type TrimInput struct {
	Text             string  `json:"text"                       jsonschema:"The plain text to trim"`
	MaxLength        int     `json:"maxLength"                  jsonschema:"Target length in characters"`
	MinFitFactor     float64 `json:"minFitFactor,omitempty"     jsonschema:"Share of maxLength the result should reach, in (0, 1]"`
	MaxFitFactor     float64 `json:"maxFitFactor,omitempty"     jsonschema:"How far past maxLength the result may stretch, at least 1"`
	TrimPoint        string  `json:"trimPoint,omitempty"        jsonschema:"Where the text may end: sentence-end or sentence-or-word-end"`
	LineBreakPenalty int     `json:"lineBreakPenalty,omitempty" jsonschema:"Characters a line break is worth"`
}

// TrimOutput is the output of the trim_text tool.
type TrimOutput struct {
	Text    string `json:"text"`
	Trimmed bool   `json:"trimmed"`
}

// ValidatePostInput is the input for the validate_post tool.
type ValidatePostInput struct {
	PostInput
}

// ValidatePostOutput is the output of the validate_post tool.
type ValidatePostOutput struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

// ValidationError describes a post that cannot be used.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationWarning describes a part of a post that is ignored or likely
// wrong.
type ValidationWarning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ListPostsInput is the input for the list_posts tool.
type ListPostsInput struct {
	Limit  int `json:"limit,omitempty"  jsonschema:"Maximum number of posts to return (default 20)"`
	Offset int `json:"offset,omitempty" jsonschema:"Number of posts to skip"`
}

// ListPostsOutput is the output of the list_posts tool.
type ListPostsOutput struct {
	Total int         `json:"total"`
	Posts []PostBrief `json:"posts"`
}

// PostBrief summarizes a loaded post.
type PostBrief struct {
	Path       string    `json:"path"`
	Slug       string    `json:"slug"`
	Date       time.Time `json:"date"`
	Title      string    `json:"title,omitempty"`
	Quote      string    `json:"quote"`
	Characters int       `json:"characters"`
}

// PostDetail is a loaded post with its excerpts.
type PostDetail struct {
	PostBrief
	Post    any    `json:"post"`
	Preview any    `json:"preview"`
	Text    string `json:"text"`
}
