package content

import (
	"slices"
	"strings"
	"unicode"
)

// CombineQuotes merges quotes on consecutive lines of a paragraph into a
// single quote with NewLine separators. Only quotes that start a line and
// share the same kind are merged. The input is never modified.
func CombineQuotes(content Content) Content {
	if content == nil {
		return nil
	}
	out := make(Content, len(content))
	for i, b := range content {
		if ic, ok := b.(InlineContent); ok {
			b = combineQuotesInParagraph(ic)
		}
		out[i] = b
	}
	return out
}

func combineQuotesInParagraph(p InlineContent) InlineContent {
	var out InlineContent
	for i := 0; i < len(p); i++ {
		q, ok := p[i].(*Quote)
		if !ok || (i > 0 && !IsNewLine(p[i-1])) {
			out = append(out, p[i])
			continue
		}
		merged := append(InlineContent(nil), q.Content...)
		j := i
		for j+2 < len(p) && IsNewLine(p[j+1]) {
			next, ok := p[j+2].(*Quote)
			if !ok || next.Kind != q.Kind {
				break
			}
			merged = append(merged, NewLine)
			merged = append(merged, next.Content...)
			j += 2
		}
		if j == i {
			out = append(out, q)
			continue
		}
		out = append(out, q.WithChildren(merged).(Inline))
		i = j
	}
	return out
}

func isWhitespacePart(part Inline) bool {
	t, ok := part.(Text)
	return ok && t != "" && strings.TrimFunc(string(t), unicode.IsSpace) == ""
}

// SplitBlocksByLineBreaks splits paragraphs into separate paragraphs wherever
// two or more NewLine parts follow each other. Whitespace-only parts between
// them are dropped, and so are such runs at the start or end of a
// paragraph. A single NewLine is left in place. The input is never modified.
func SplitBlocksByLineBreaks(content Content) Content {
	var out Content
	for _, b := range content {
		ic, ok := b.(InlineContent)
		if !ok {
			out = append(out, b)
			continue
		}
		for _, p := range splitParagraph(ic) {
			out = append(out, p)
		}
	}
	return out
}

func splitParagraph(p InlineContent) []InlineContent {
	path, skip := findLineBreakRun(p)
	if path == nil {
		return []InlineContent{p}
	}
	left, right := Split(p, path, SplitOptions{Skip: skip, Exclude: true})
	switch {
	case left == nil && right == nil:
		return []InlineContent{p}
	case left == nil:
		return splitParagraph(right)
	case right == nil:
		return []InlineContent{left}
	}
	return append([]InlineContent{left}, splitParagraph(right)...)
}

// findLineBreakRun finds the first NewLine, at any depth, that is followed
// by whitespace-only siblings including another NewLine. It returns the path
// to it and the number of those siblings.
func findLineBreakRun(p InlineContent) (Path, int) {
	for i, part := range p {
		if IsNewLine(part) {
			skip, found := 0, false
			for k := i + 1; k < len(p) && isWhitespacePart(p[k]); k++ {
				if IsNewLine(p[k]) {
					found = true
				}
				skip++
			}
			if found {
				return Path{i}, skip
			}
			continue
		}
		if parent, ok := part.(Parent); ok {
			if sub, skip := findLineBreakRun(parent.Children()); sub != nil {
				return append(Path{i}, sub...), skip
			}
		}
	}
	return nil, 0
}

// embeddedAttachments returns the attachments embedded in content blocks,
// in the order they appear.
func embeddedAttachments(post *Post) []*Attachment {
	var out []*Attachment
	for _, b := range post.Content {
		if ab, ok := b.(*AttachmentBlock); ok {
			if a := ResolveAttachment(ab, post.Attachments); a != nil {
				out = append(out, a)
			}
		}
	}
	return out
}

// NonEmbeddedAttachments returns the post attachments that no content block
// embeds. When the content embeds none of them, all attachments are returned.
func NonEmbeddedAttachments(post *Post) []*Attachment {
	embedded := embeddedAttachments(post)
	var out []*Attachment
	for _, a := range post.Attachments {
		if !slices.Contains(embedded, a) {
			out = append(out, a)
		}
	}
	if len(out) == len(post.Attachments) {
		return post.Attachments
	}
	return out
}

var restAttachmentOrder = []string{AttachmentAudio, AttachmentFile, AttachmentSocial, AttachmentLink}

func restAttachmentRank(a *Attachment) int {
	if i := slices.Index(restAttachmentOrder, a.Type); i >= 0 {
		return i
	}
	return len(restAttachmentOrder)
}

func thumbnailHeight(a *Attachment) int {
	switch {
	case a.Picture != nil:
		return a.Picture.Height
	case a.Video != nil && a.Video.Picture != nil:
		return a.Video.Picture.Height
	case a.Video != nil:
		return a.Video.Height
	}
	return 0
}

// SortedAttachments returns the post attachments in display order: embedded
// ones in content order, then the remaining pictures and videos by
// thumbnail height descending, then audio, files, social posts and the
// rest.
func SortedAttachments(post *Post) []*Attachment {
	embedded := embeddedAttachments(post)
	var media, rest []*Attachment
	for _, a := range post.Attachments {
		if a == nil || slices.Contains(embedded, a) {
			continue
		}
		if a.Type == AttachmentPicture || a.Type == AttachmentVideo {
			media = append(media, a)
		} else {
			rest = append(rest, a)
		}
	}
	slices.SortStableFunc(media, func(a, b *Attachment) int {
		return thumbnailHeight(b) - thumbnailHeight(a)
	})
	slices.SortStableFunc(rest, func(a, b *Attachment) int {
		return restAttachmentRank(a) - restAttachmentRank(b)
	})
	out := append(embedded, media...)
	return append(out, rest...)
}

// ExpandStandaloneAttachmentLinks returns a copy of post in which every link
// that carries an expandable attachment and sits on a line of its own
// becomes an attachment block. The paragraph around the link is split into
// the text before and the text after it, and the attachment is moved to the
// post attachments under a new id. The input is never modified.
func ExpandStandaloneAttachmentLinks(post *Post) *Post {
	if post == nil {
		return nil
	}
	out := *post
	out.Attachments = slices.Clone(post.Attachments)
	if post.Content == nil {
		return &out
	}
	out.Content = make(Content, 0, len(post.Content))
	for _, b := range post.Content {
		ic, ok := b.(InlineContent)
		if !ok {
			out.Content = append(out.Content, b)
			continue
		}
		out.Content = append(out.Content, out.expandParagraph(ic)...)
	}
	return &out
}

func (p *Post) expandParagraph(ic InlineContent) []Block {
	for i, part := range ic {
		l, ok := part.(*Link)
		if !ok || l.Attachment == nil || !shouldExpandAttachment(l.Attachment) {
			continue
		}
		if (i > 0 && !IsNewLine(ic[i-1])) || (i+1 < len(ic) && !IsNewLine(ic[i+1])) {
			continue
		}
		var blocks []Block
		if i > 1 {
			if before := trimNewLines(ic[:i-1]); len(before) > 0 {
				blocks = append(blocks, before)
			}
		}
		blocks = append(blocks, &AttachmentBlock{AttachmentID: p.addAttachment(l.Attachment)})
		if i+2 < len(ic) {
			if after := trimNewLines(ic[i+2:]); len(after) > 0 {
				blocks = append(blocks, p.expandParagraph(after)...)
			}
		}
		return blocks
	}
	return []Block{ic}
}

// addAttachment appends a copy of a with the next free id and returns the id.
func (p *Post) addAttachment(a *Attachment) int {
	id := 0
	for _, existing := range p.Attachments {
		if existing != nil && existing.ID > id {
			id = existing.ID
		}
	}
	cp := *a
	cp.ID = id + 1
	p.Attachments = append(p.Attachments, &cp)
	return cp.ID
}

func shouldExpandAttachment(a *Attachment) bool {
	switch a.Type {
	case AttachmentAudio, AttachmentVideo, AttachmentPicture:
		return true
	case AttachmentSocial:
		return a.Social != nil && (a.Social.Provider == "Instagram" || a.Social.Provider == "Twitter")
	}
	return false
}

func trimNewLines(ic InlineContent) InlineContent {
	for len(ic) > 0 && IsNewLine(ic[0]) {
		ic = ic[1:]
	}
	for len(ic) > 0 && IsNewLine(ic[len(ic)-1]) {
		ic = ic[:len(ic)-1]
	}
	return slices.Clone(ic)
}
