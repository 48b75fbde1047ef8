// Package quote generates short plain-text quotes of posts, such as the
// text shown next to a reply that links the post.
package quote

import (
	"regexp"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/text"
)

// DefaultLineBreakPenalty is the number of characters a line break in a
// quote is worth.
const DefaultLineBreakPenalty = 15

// Options configure Generate.
type Options struct {
	MaxLength    int     `json:"maxLength" yaml:"maxLength" mapstructure:"maxLength"`
	MinFitFactor float64 `json:"minFitFactor,omitempty" yaml:"minFitFactor" mapstructure:"minFitFactor"`
	MaxFitFactor float64 `json:"maxFitFactor,omitempty" yaml:"maxFitFactor" mapstructure:"maxFitFactor"`

	// Nil word-end and abrupt marks take their defaults.
	TrimPoint             TrimPoint `json:"trimPoint,omitempty" yaml:"trimPoint" mapstructure:"trimPoint"`
	TrimMarkEndOfLine     string    `json:"trimMarkEndOfLine,omitempty" yaml:"trimMarkEndOfLine" mapstructure:"trimMarkEndOfLine"`
	TrimMarkEndOfSentence string    `json:"trimMarkEndOfSentence,omitempty" yaml:"trimMarkEndOfSentence" mapstructure:"trimMarkEndOfSentence"`
	TrimMarkEndOfWord     *string   `json:"trimMarkEndOfWord,omitempty" yaml:"trimMarkEndOfWord" mapstructure:"trimMarkEndOfWord"`
	TrimMarkAbrupt        *string   `json:"trimMarkAbrupt,omitempty" yaml:"trimMarkAbrupt" mapstructure:"trimMarkAbrupt"`

	// LineBreakPenalty is the cost of a line break in characters. Zero means
	// DefaultLineBreakPenalty.
	LineBreakPenalty int `json:"lineBreakPenalty,omitempty" yaml:"lineBreakPenalty" mapstructure:"lineBreakPenalty"`

	// SkipPostQuoteBlocks never quotes the block quotes of linked posts, even
	// when the post has no other text.
	SkipPostQuoteBlocks bool `json:"skipPostQuoteBlocks,omitempty" yaml:"skipPostQuoteBlocks" mapstructure:"skipPostQuoteBlocks"`

	// Messages supplies labels for untitled attachments and generated links.
	Messages *content.Messages `json:"-" yaml:"-" mapstructure:"-"`
	// OnUntitledAttachment is called when the quote falls back to the
	// generic label of an attachment, so that callers may show the
	// attachment itself instead.
	OnUntitledAttachment func(a *content.Attachment) `json:"-" yaml:"-" mapstructure:"-"`
	// OnPostLink is called with every post link whose content is quoted.
	OnPostLink func(pl *content.PostLink) `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultOptions returns the default options for the given length.
func DefaultOptions(maxLength int) Options {
	return Options{
		MaxLength:        maxLength,
		MinFitFactor:     1,
		MaxFitFactor:     1,
		LineBreakPenalty: DefaultLineBreakPenalty,
	}
}

// TrimOptions returns the TrimText options used for the quote.
func (o Options) TrimOptions() TrimOptions {
	penalty := o.LineBreakPenalty
	if penalty == 0 {
		penalty = DefaultLineBreakPenalty
	}
	return TrimOptions{
		MinFitFactor:          o.MinFitFactor,
		MaxFitFactor:          o.MaxFitFactor,
		TrimPoint:             o.TrimPoint,
		TrimMarkEndOfLine:     o.TrimMarkEndOfLine,
		TrimMarkEndOfSentence: o.TrimMarkEndOfSentence,
		TrimMarkEndOfWord:     o.TrimMarkEndOfWord,
		TrimMarkAbrupt:        o.TrimMarkAbrupt,
		LineBreakPenalty:      ConstantLineBreakPenalty(penalty),
	}
}

var paragraphBreaks = regexp.MustCompile(`\n\n+`)

// Generate returns a plain-text quote of post of about MaxLength
// characters, or "" when the post has nothing to quote.
//
// Text is taken from the post content leaving out quotes of linked posts
// and attachments. When that yields nothing, conditions are relaxed step
// by step: titled attachments, then the post title, then untitled
// attachments by their generic label, then quotes of linked posts.
func Generate(post *content.Post, opts Options) string {
	if post == nil {
		return ""
	}
	trimOpts := opts.TrimOptions()
	maxFitFactor := trimOpts.withDefaults().MaxFitFactor

	base := text.Options{
		// Two extra characters leave room for a sentence end and the space
		// after it, so that TrimText picks the right trim mark.
		SoftLimit:  float64(opts.MaxLength)*maxFitFactor + 2,
		Messages:   opts.Messages,
		OnPostLink: opts.OnPostLink,
	}

	t := text.GetPostText(post, withSkips(base, func(o *text.Options) {
		o.SkipPostQuoteBlocks = true
		o.SkipAttachments = true
	}))
	if t == "" {
		t = text.GetPostText(post, withSkips(base, func(o *text.Options) {
			o.SkipPostQuoteBlocks = true
			o.SkipUntitledAttachments = true
		}))
	}
	t = addTitle(t, post.Title)
	if t == "" {
		t = text.GetPostText(post, withSkips(base, func(o *text.Options) {
			o.SkipPostQuoteBlocks = true
			o.OnAttachment = opts.OnUntitledAttachment
		}))
	}
	if t == "" && !opts.SkipPostQuoteBlocks {
		t = text.GetPostText(post, withSkips(base, func(o *text.Options) {
			o.SkipGeneratedPostQuoteBlocks = true
		}))
		if t == "" {
			t = text.GetPostText(post, base)
		}
	}
	if t == "" {
		return ""
	}

	// Paragraph breaks are compacted after trimming so that they still count
	// towards the length.
	t = TrimText(t, opts.MaxLength, trimOpts)
	return paragraphBreaks.ReplaceAllString(t, "\n")
}

func withSkips(base text.Options, set func(o *text.Options)) text.Options {
	set(&base)
	return base
}

func addTitle(t, title string) string {
	switch {
	case title == "":
		return t
	case t == "":
		return title
	}
	return title + "\n\n" + t
}

// CanGenerateIgnoringNestedPostQuotes reports whether a quote of post can be
// generated before the posts it links have been loaded. That is not the
// case when the quote would include an inline post link, or when the post
// has no text other than block quotes of linked posts.
func CanGenerateIgnoringNestedPostQuotes(post *content.Post, opts Options) bool {
	inlinePostLink := false
	opts.SkipPostQuoteBlocks = true
	onPostLink := opts.OnPostLink
	opts.OnPostLink = func(pl *content.PostLink) {
		if !pl.Block {
			inlinePostLink = true
		}
		if onPostLink != nil {
			onPostLink(pl)
		}
	}
	t := Generate(post, opts)
	if inlinePostLink {
		return false
	}
	return t != ""
}
