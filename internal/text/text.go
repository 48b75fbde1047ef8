// Package text flattens post content into plain text.
package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aellingwood/excerpt/internal/content"
)

// Default quote characters wrapped around quotes.
const (
	DefaultOpeningQuote = "«"
	DefaultClosingQuote = "»"
)

// spoilerCell replaces every character of a spoiler. The zero-width space
// lets long spoilers wrap.
const spoilerCell = "░\u200b"

// Options control GetPostText. The zero value renders everything.
type Options struct {
	// SoftLimit stops rendering once roughly this many characters have been
	// produced. Line breaks are not counted. Zero means no limit.
	SoftLimit float64 `json:"softLimit,omitempty"`

	// Messages supplies labels for untitled attachments and generated links.
	Messages *content.Messages `json:"-"`

	// SkipPostQuoteBlocks drops post links that hold a block quote.
	SkipPostQuoteBlocks bool `json:"skipPostQuoteBlocks,omitempty"`
	// SkipGeneratedPostQuoteBlocks drops post links that hold an
	// autogenerated block quote.
	SkipGeneratedPostQuoteBlocks bool `json:"skipGeneratedPostQuoteBlocks,omitempty"`
	// SkipAttachments drops embedded attachments and disables the fallback
	// to non-embedded ones.
	SkipAttachments bool `json:"skipAttachments,omitempty"`
	// SkipUntitledAttachments drops attachments that would only render as a
	// generic label.
	SkipUntitledAttachments bool `json:"skipUntitledAttachments,omitempty"`
	// SkipNonEmbeddedAttachments disables the fallback to non-embedded
	// attachments when the content yields no text.
	SkipNonEmbeddedAttachments bool `json:"skipNonEmbeddedAttachments,omitempty"`

	// KeepFullCodeBlocks renders code blocks in full instead of their first
	// line only.
	KeepFullCodeBlocks bool `json:"keepFullCodeBlocks,omitempty"`
	// StopOnNewLine returns the text of the first line only.
	StopOnNewLine bool `json:"stopOnNewLine,omitempty"`

	// OpeningQuote and ClosingQuote wrap quotes. They default to « and ».
	OpeningQuote string `json:"openingQuote,omitempty"`
	ClosingQuote string `json:"closingQuote,omitempty"`

	// OnAttachment is called with every attachment rendered as a generic label.
	OnAttachment func(a *content.Attachment) `json:"-"`
	// OnPostLink is called with every post link whose content is rendered.
	OnPostLink func(pl *content.PostLink) `json:"-"`
	// LinkTitle may return a title for the URL of a link whose content was
	// generated. An empty title falls back to the default rendering.
	LinkTitle func(url string) string `json:"-"`
}

// GetPostText renders a post as plain text. Blocks are separated by a blank
// line. When the content yields no text, the text or the generic label of
// the first non-embedded attachment is returned instead, unless attachments
// are skipped. An empty string means there is no text.
func GetPostText(post *content.Post, opts Options) string {
	if post == nil {
		return ""
	}
	r := newRenderer(post.Attachments, opts)

	var sb strings.Builder
	softLimit := opts.SoftLimit
	for _, b := range post.Content {
		blockText := strings.TrimSpace(r.block(b, softLimit))
		if blockText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(blockText)
		if opts.StopOnNewLine {
			return sb.String()
		}
		if softLimit > 0 {
			softLimit -= visibleLength(blockText)
			if softLimit <= 0 {
				break
			}
		}
	}
	if sb.Len() > 0 {
		return sb.String()
	}
	if opts.SkipAttachments || opts.SkipNonEmbeddedAttachments {
		return ""
	}
	return r.attachmentFallback(content.NonEmbeddedAttachments(post))
}

// InlineText renders a single paragraph as plain text.
func InlineText(ic content.InlineContent, opts Options) string {
	return GetPostText(&content.Post{Content: content.Content{ic}}, opts)
}

type renderer struct {
	opts        Options
	attachments []*content.Attachment
	labels      *content.BlockMessages
	quoteOpen   string
	quoteClose  string
}

func newRenderer(attachments []*content.Attachment, opts Options) *renderer {
	r := &renderer{
		opts:        opts,
		attachments: attachments,
		quoteOpen:   opts.OpeningQuote,
		quoteClose:  opts.ClosingQuote,
	}
	if r.quoteOpen == "" {
		r.quoteOpen = DefaultOpeningQuote
	}
	if r.quoteClose == "" {
		r.quoteClose = DefaultClosingQuote
	}
	if opts.Messages != nil {
		r.labels = &opts.Messages.TextContent.Block
	}
	return r
}

func (r *renderer) attachmentFallback(attachments []*content.Attachment) string {
	for _, a := range attachments {
		if t := content.AttachmentText(a, r.labels); t != "" {
			return t
		}
	}
	if r.opts.SkipUntitledAttachments || r.labels == nil {
		return ""
	}
	for _, a := range attachments {
		if label := content.AttachmentTypeLabel(a, r.labels); label != "" {
			r.attachmentLabelUsed(a)
			return label
		}
	}
	return ""
}

func (r *renderer) attachmentLabelUsed(a *content.Attachment) {
	if r.opts.OnAttachment != nil {
		r.opts.OnAttachment(a)
	}
}

func (r *renderer) block(b content.Block, softLimit float64) string {
	switch v := b.(type) {
	case content.Text:
		return string(v)
	case content.InlineContent:
		return r.inline(v, softLimit)
	case *content.AttachmentBlock:
		return r.attachment(v)
	case *content.List:
		items := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if t := r.inline(item, softLimit); t != "" {
				items = append(items, t)
			}
		}
		return strings.Join(items, "\n")
	case content.ReadMore, *content.Unknown:
		return ""
	case content.Inline:
		return r.part(v, softLimit)
	case content.Parent:
		return r.inline(v.Children(), softLimit)
	}
	return ""
}

// inline renders a paragraph. A part that renders empty also swallows the
// line break right after it.
func (r *renderer) inline(ic content.InlineContent, softLimit float64) string {
	var sb strings.Builder
	for i := 0; i < len(ic); i++ {
		part := ic[i]
		if content.IsNewLine(part) && r.opts.StopOnNewLine && sb.Len() > 0 {
			break
		}
		var partText string
		if !isStandaloneNonQuotePostLink(ic, i) {
			partText = r.part(part, softLimit)
		}
		if partText == "" {
			if i+1 < len(ic) && content.IsNewLine(ic[i+1]) {
				i++
			}
			continue
		}
		sb.WriteString(partText)
		if softLimit > 0 {
			softLimit -= visibleLength(partText)
			if softLimit <= 0 {
				break
			}
		}
	}
	return strings.Trim(sb.String(), "\n")
}

// isStandaloneNonQuotePostLink reports whether ic[i] is a post link on a
// line of its own that does not quote anything, such as a link to a hidden
// or deleted post.
func isStandaloneNonQuotePostLink(ic content.InlineContent, i int) bool {
	pl, ok := ic[i].(*content.PostLink)
	if !ok || pl.IsQuote() {
		return false
	}
	startsLine := i == 0 || content.IsNewLine(ic[i-1])
	endsLine := i == len(ic)-1 || content.IsNewLine(ic[i+1])
	return startsLine && endsLine
}

func (r *renderer) part(part content.Inline, softLimit float64) string {
	switch v := part.(type) {
	case content.Text:
		return string(v)
	case *content.Quote:
		text := r.quoteOpen + r.inline(v.Content, softLimit) + r.quoteClose
		if v.Source != "" {
			text += " — " + v.Source
		}
		return text
	case *content.Spoiler:
		n := utf8.RuneCountInString(r.inline(v.Content, softLimit))
		return strings.Repeat(spoilerCell, n)
	case *content.Emoji:
		return ":" + v.Name + ":"
	case *content.PostLink:
		if v.IsBlockQuote() && (r.opts.SkipPostQuoteBlocks || (r.opts.SkipGeneratedPostQuoteBlocks && v.IsGeneratedQuote())) {
			return ""
		}
		if r.opts.OnPostLink != nil {
			r.opts.OnPostLink(v)
		}
		return r.inline(v.Content, softLimit)
	case *content.Link:
		if v.ContentGenerated {
			return r.generatedLinkText(v)
		}
		return r.inline(v.Content, softLimit)
	case *content.Code:
		if v.Inline || r.opts.KeepFullCodeBlocks {
			return r.inline(v.Content, softLimit)
		}
		code := r.inline(v.Content, 0)
		if i := strings.IndexByte(code, '\n'); i >= 0 {
			return code[:i]
		}
		return code
	case content.ReadMore, *content.Unknown:
		return ""
	case content.Parent:
		children := v.Children()
		if children == nil {
			logger.Warn().Str("type", v.Type()).Msg("no content present for inline part")
			return ""
		}
		return r.inline(children, softLimit)
	}
	return ""
}

var lower = cases.Lower(language.Und)

func (r *renderer) generatedLinkText(l *content.Link) string {
	if r.opts.LinkTitle != nil {
		if title := r.opts.LinkTitle(l.URL); title != "" {
			return title
		}
	}
	if m := r.opts.Messages; m != nil && m.TextContent.Inline.LinkTo != "" {
		phrase := strings.Replace(m.TextContent.Inline.LinkTo, "{0}", content.DomainName(l.URL), 1)
		return "(" + lower.String(phrase) + ")"
	}
	return content.HumanReadableLinkAddress(l.URL)
}

func (r *renderer) attachment(b *content.AttachmentBlock) string {
	if r.opts.SkipAttachments {
		return ""
	}
	a := content.ResolveAttachment(b, r.attachments)
	if a == nil {
		logger.Warn().Int("attachmentId", b.AttachmentID).Msg("attachment not found for block")
		return ""
	}
	if t := content.AttachmentText(a, r.labels); t != "" {
		return t
	}
	if r.opts.SkipUntitledAttachments {
		return ""
	}
	label := content.AttachmentTypeLabel(a, r.labels)
	if label != "" {
		r.attachmentLabelUsed(a)
	}
	return label
}

// visibleLength counts characters other than line breaks.
func visibleLength(s string) float64 {
	return float64(utf8.RuneCountInString(s) - strings.Count(s, "\n"))
}
