// Package content defines the post content tree and the primitives used to
// walk, split, trim and measure it.
//
// A Content value is a list of blocks. A block is a plain Text, an
// InlineContent paragraph, or a typed block element. Paragraphs hold inline
// parts: Text runs, the NewLine separator, and typed inline elements, most
// of which carry nested InlineContent of their own.
package content

import "encoding/json"

// Element type names as they appear in the "type" field of serialized content.
const (
	TypeText       = "text"
	TypeEmoji      = "emoji"
	TypeQuote      = "quote"
	TypeSpoiler    = "spoiler"
	TypeLink       = "link"
	TypePostLink   = "post-link"
	TypeCode       = "code"
	TypeHeading    = "heading"
	TypeList       = "list"
	TypeAttachment = "attachment"
	TypeReadMore   = "read-more"
)

// Node is any part of a content tree.
type Node interface {
	node()
}

// Inline is a part of an inline content array.
type Inline interface {
	Node
	inline()
}

// Block is a top-level unit of Content.
type Block interface {
	Node
	block()
}

// Element is a typed node: everything except Text and InlineContent.
type Element interface {
	Node
	Type() string
}

// Parent is an element whose children form an InlineContent.
type Parent interface {
	Element
	Children() InlineContent
	// WithChildren returns a shallow copy of the element holding children.
	WithChildren(children InlineContent) Parent
}

// Text is a run of plain text. The NewLine value separates lines inside
// a paragraph.
type Text string

// NewLine is the paragraph-internal line separator.
const NewLine Text = "\n"

func (Text) node() {}
func (Text) inline() {}
func (Text) block() {}

// IsNewLine reports whether n is the NewLine separator.
func IsNewLine(n Node) bool {
	t, ok := n.(Text)
	return ok && t == NewLine
}

// InlineContent is an ordered list of inline parts. As a block it is a
// paragraph.
type InlineContent []Inline

func (InlineContent) node() {}
func (InlineContent) block() {}

// Content is an ordered list of blocks.
type Content []Block

// Post is a document with its content and the attachments it references.
type Post struct {
	Title       string        `json:"title,omitempty"`
	Content     Content       `json:"content,omitempty"`
	Attachments []*Attachment `json:"attachments,omitempty"`
}

// Styled is a span of styled text ("bold", "italic", ...).
type Styled struct {
	Style   string        `json:"style,omitempty"`
	Content InlineContent `json:"content"`
}

func (*Styled) node() {}
func (*Styled) inline() {}
func (*Styled) Type() string { return TypeText }
func (s *Styled) Children() InlineContent { return s.Content }
func (s *Styled) WithChildren(c InlineContent) Parent {
	cp := *s
	cp.Content = c
	return &cp
}

// Emoji is an inline picture. It has no countable content.
type Emoji struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

func (*Emoji) node() {}
func (*Emoji) inline() {}
func (*Emoji) Type() string { return TypeEmoji }

// Quote is quoted text, either inline or as a block.
type Quote struct {
	Content   InlineContent `json:"content"`
	Source    string        `json:"source,omitempty"`
	URL       string        `json:"url,omitempty"`
	Block     bool          `json:"block,omitempty"`
	Generated bool          `json:"generated,omitempty"`
	Kind      string        `json:"kind,omitempty"`
}

func (*Quote) node() {}
func (*Quote) inline() {}
func (*Quote) block() {}
func (*Quote) Type() string { return TypeQuote }
func (q *Quote) Children() InlineContent { return q.Content }
func (q *Quote) WithChildren(c InlineContent) Parent {
	cp := *q
	cp.Content = c
	return &cp
}

// Spoiler is hidden text.
type Spoiler struct {
	Content  InlineContent `json:"content"`
	Censored bool          `json:"censored,omitempty"`
}

func (*Spoiler) node() {}
func (*Spoiler) inline() {}
func (*Spoiler) Type() string { return TypeSpoiler }
func (s *Spoiler) Children() InlineContent { return s.Content }
func (s *Spoiler) WithChildren(c InlineContent) Parent {
	cp := *s
	cp.Content = c
	return &cp
}

// Link is a hyperlink. ContentGenerated marks display text derived from the
// URL rather than written by the author.
type Link struct {
	URL              string        `json:"url"`
	Content          InlineContent `json:"content"`
	ContentGenerated bool          `json:"contentGenerated,omitempty"`
	Service          string        `json:"service,omitempty"`
	Attachment       *Attachment   `json:"attachment,omitempty"`
}

func (*Link) node() {}
func (*Link) inline() {}
func (*Link) Type() string { return TypeLink }
func (l *Link) Children() InlineContent { return l.Content }
func (l *Link) WithChildren(c InlineContent) Parent {
	cp := *l
	cp.Content = c
	return &cp
}

// PostLink references another post. Its content is usually one or more
// quotes of that post. Block is set by the host before the linked post has
// been parsed, when the link is known to render as a block quote.
type PostLink struct {
	URL     string        `json:"url,omitempty"`
	Block   bool          `json:"_block,omitempty"`
	Content InlineContent `json:"content"`
}

func (*PostLink) node() {}
func (*PostLink) inline() {}
func (*PostLink) Type() string { return TypePostLink }
func (p *PostLink) Children() InlineContent { return p.Content }
func (p *PostLink) WithChildren(c InlineContent) Parent {
	cp := *p
	cp.Content = c
	return &cp
}

func (p *PostLink) firstQuote() *Quote {
	if len(p.Content) == 0 {
		return nil
	}
	q, _ := p.Content[0].(*Quote)
	return q
}

// IsQuote reports whether the link content starts with a quote.
func (p *PostLink) IsQuote() bool {
	return p.firstQuote() != nil
}

// IsBlockQuote reports whether the link content starts with a block quote.
func (p *PostLink) IsBlockQuote() bool {
	q := p.firstQuote()
	return q != nil && q.Block
}

// IsGeneratedQuote reports whether the link content starts with an
// autogenerated quote.
func (p *PostLink) IsGeneratedQuote() bool {
	q := p.firstQuote()
	return q != nil && q.Generated
}

// Code is inline code or a code block.
type Code struct {
	Content  InlineContent `json:"content"`
	Language string        `json:"language,omitempty"`
	Inline   bool          `json:"inline,omitempty"`
}

func (*Code) node() {}
func (*Code) inline() {}
func (*Code) block() {}
func (*Code) Type() string { return TypeCode }
func (c *Code) Children() InlineContent { return c.Content }
func (c *Code) WithChildren(children InlineContent) Parent {
	cp := *c
	cp.Content = children
	return &cp
}

// Heading is a section heading block.
type Heading struct {
	Content InlineContent `json:"content"`
}

func (*Heading) node() {}
func (*Heading) block() {}
func (*Heading) Type() string { return TypeHeading }
func (h *Heading) Children() InlineContent { return h.Content }
func (h *Heading) WithChildren(c InlineContent) Parent {
	cp := *h
	cp.Content = c
	return &cp
}

// List is a block of list items.
type List struct {
	Items []InlineContent `json:"items"`
}

func (*List) node() {}
func (*List) block() {}
func (*List) Type() string { return TypeList }

// AttachmentBlock embeds an attachment, either by reference to the post's
// attachment list or by carrying a copy of it.
type AttachmentBlock struct {
	AttachmentID int         `json:"attachmentId,omitempty"`
	Attachment   *Attachment `json:"attachment,omitempty"`
}

func (*AttachmentBlock) node() {}
func (*AttachmentBlock) block() {}
func (*AttachmentBlock) Type() string { return TypeAttachment }

// ReadMore marks the point where a preview was cut.
type ReadMore struct{}

func (ReadMore) node() {}
func (ReadMore) inline() {}
func (ReadMore) block() {}
func (ReadMore) Type() string { return TypeReadMore }

// Unknown keeps an element of an unsupported type so that it survives a
// decode/encode round trip. It contributes nothing to counts or text.
type Unknown struct {
	Kind string
	Raw  json.RawMessage
}

func (*Unknown) node() {}
func (*Unknown) inline() {}
func (*Unknown) block() {}
func (u *Unknown) Type() string { return u.Kind }
