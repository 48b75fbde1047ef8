package post

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"

	"github.com/aellingwood/excerpt/internal/content"
)

// AttachmentScheme is the image destination prefix that embeds one of the
// post attachments by id: ![title](attachment:3).
const AttachmentScheme = "attachment:"

// Spoilers (>!text!<) are swapped for private-use runes before parsing, since
// a leading ">" would otherwise open a block quote.
const (
	spoilerOpen  = '\uE000'
	spoilerClose = '\uE001'
)

var (
	spoilerRe = regexp.MustCompile(`>!(.+?)!<`)
	emojiRe   = regexp.MustCompile(`:([a-z][a-z0-9_+\-]*):`)

	markdown = goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Strikethrough,
		),
	)
)

// decodeMarkdown reads a frontmatter (title, attachments, date) followed by a
// Markdown body.
func decodeMarkdown(raw []byte) (*content.Post, map[string]any, error) {
	meta, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, nil, err
	}
	front := make(map[string]any, len(meta))
	for k, v := range meta {
		if k != "content" {
			front[k] = v
		}
	}
	p, err := fromMap(front)
	if err != nil {
		return nil, nil, err
	}
	p.Title = norm.NFC.String(p.Title)
	p.Content = ParseMarkdown(body)
	return p, meta, nil
}

// ParseMarkdown maps a Markdown document onto content blocks.
func ParseMarkdown(source []byte) content.Content {
	src := spoilerRe.ReplaceAll(norm.NFC.Bytes(source), []byte(string(spoilerOpen)+"${1}"+string(spoilerClose)))
	doc := markdown.Parser().Parse(gmtext.NewReader(src))

	c := &converter{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		c.block(n)
	}
	return c.blocks
}

type converter struct {
	src    []byte
	blocks content.Content
}

func (c *converter) add(b content.Block) {
	c.blocks = append(c.blocks, b)
}

func (c *converter) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		c.paragraph(n)
	case *ast.Heading:
		if ic := content.TrimInlineContent(c.inlines(n)); len(ic) > 0 {
			c.add(&content.Heading{Content: ic})
		}
	case *ast.FencedCodeBlock:
		c.add(&content.Code{
			Language: string(n.Language(c.src)),
			Content:  content.InlineContent{content.Text(c.lines(n))},
		})
	case *ast.CodeBlock:
		c.add(&content.Code{Content: content.InlineContent{content.Text(c.lines(n))}})
	case *ast.Blockquote:
		if ic := c.flatten(n); len(ic) > 0 {
			c.add(&content.Quote{Block: true, Content: ic})
		}
	case *ast.List:
		l := &content.List{}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			l.Items = append(l.Items, c.flatten(item))
		}
		c.add(l)
	case *ast.ThematicBreak, *ast.HTMLBlock:
	default:
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			c.block(ch)
		}
	}
}

// paragraph adds the paragraph n. Images that embed attachments split it
// into an attachment block between the text before and after them.
func (c *converter) paragraph(n ast.Node) {
	var cur content.InlineContent
	flush := func() {
		if ic := content.TrimInlineContent(finish(cur)); len(ic) > 0 {
			c.add(ic)
		}
		cur = nil
	}
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if id, ok := attachmentID(ch); ok {
			flush()
			c.add(&content.AttachmentBlock{AttachmentID: id})
			continue
		}
		cur = c.inline(ch, cur)
	}
	flush()
}

func attachmentID(n ast.Node) (int, bool) {
	img, ok := n.(*ast.Image)
	if !ok {
		return 0, false
	}
	s, ok := strings.CutPrefix(string(img.Destination), AttachmentScheme)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	return id, err == nil
}

// flatten joins the blocks inside a block quote or list item into one inline
// content, one line per block.
func (c *converter) flatten(n ast.Node) content.InlineContent {
	var out content.InlineContent
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		var part content.InlineContent
		switch ch.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			part = content.InlineContent{content.Text(c.lines(ch))}
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			part = c.inlines(ch)
		default:
			part = c.flatten(ch)
		}
		part = content.TrimInlineContent(part)
		if len(part) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, content.NewLine)
		}
		out = append(out, part...)
	}
	return out
}

func (c *converter) inlines(n ast.Node) content.InlineContent {
	var out content.InlineContent
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		out = c.inline(ch, out)
	}
	return finish(out)
}

func (c *converter) inline(n ast.Node, out content.InlineContent) content.InlineContent {
	switch n := n.(type) {
	case *ast.Text:
		out = appendText(out, string(n.Segment.Value(c.src)))
		if n.SoftLineBreak() || n.HardLineBreak() {
			out = append(out, content.NewLine)
		}
	case *ast.String:
		out = appendText(out, string(n.Value))
	case *ast.CodeSpan:
		out = append(out, &content.Code{
			Inline:  true,
			Content: content.InlineContent{content.Text(revealSpoilers(c.plain(n)))},
		})
	case *ast.Emphasis:
		style := "italic"
		if n.Level >= 2 {
			style = "bold"
		}
		out = append(out, &content.Styled{Style: style, Content: c.inlines(n)})
	case *east.Strikethrough:
		out = append(out, &content.Styled{Style: "strikethrough", Content: c.inlines(n)})
	case *ast.Link:
		out = append(out, &content.Link{URL: string(n.Destination), Content: c.inlines(n)})
	case *ast.AutoLink:
		out = append(out, &content.Link{
			URL:              string(n.URL(c.src)),
			Content:          content.InlineContent{content.Text(n.Label(c.src))},
			ContentGenerated: true,
		})
	case *ast.Image:
		alt := c.plain(n)
		if alt == "" {
			alt = string(n.Destination)
		}
		out = append(out, &content.Link{URL: string(n.Destination), Content: content.InlineContent{content.Text(alt)}})
	case *ast.RawHTML:
	default:
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			out = c.inline(ch, out)
		}
	}
	return out
}

// lines returns the raw lines of a code block without the final line break.
func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return revealSpoilers(strings.TrimRight(b.String(), "\n"))
}

// plain returns the text of n's descendants with all markup dropped.
func (c *converter) plain(n ast.Node) string {
	var b strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch ch := ch.(type) {
		case *ast.Text:
			b.Write(ch.Segment.Value(c.src))
		case *ast.String:
			b.Write(ch.Value)
		default:
			b.WriteString(c.plain(ch))
		}
	}
	return b.String()
}

func appendText(out content.InlineContent, s string) content.InlineContent {
	if s == "" {
		return out
	}
	if n := len(out); n > 0 {
		if t, ok := out[n-1].(content.Text); ok && !content.IsNewLine(t) {
			out[n-1] = t + content.Text(s)
			return out
		}
	}
	return append(out, content.Text(s))
}

func revealSpoilers(s string) string {
	return strings.NewReplacer(string(spoilerOpen), ">!", string(spoilerClose), "!<").Replace(s)
}

// finish turns spoiler markers and :emoji: names in the text runs of ic into
// spoiler and emoji elements.
func finish(ic content.InlineContent) content.InlineContent {
	var out content.InlineContent
	var spoiler *content.Spoiler
	emit := func(p content.Inline) {
		if spoiler != nil {
			spoiler.Content = append(spoiler.Content, p)
		} else {
			out = append(out, p)
		}
	}

	for _, part := range ic {
		t, ok := part.(content.Text)
		if !ok || content.IsNewLine(t) {
			emit(part)
			continue
		}
		s := string(t)
		for s != "" {
			marker := spoilerOpen
			if spoiler != nil {
				marker = spoilerClose
			}
			i := strings.IndexRune(s, marker)
			if i < 0 {
				emitEmoji(s, emit)
				break
			}
			emitEmoji(s[:i], emit)
			if spoiler == nil {
				spoiler = &content.Spoiler{}
			} else {
				out = append(out, spoiler)
				spoiler = nil
			}
			s = s[i+len(string(marker)):]
		}
	}
	if spoiler != nil {
		out = append(out, spoiler)
	}
	return out
}

func emitEmoji(s string, emit func(content.Inline)) {
	last := 0
	for _, m := range emojiRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			emit(content.Text(s[last:m[0]]))
		}
		emit(&content.Emoji{Name: s[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(s) {
		emit(content.Text(s[last:]))
	}
}
