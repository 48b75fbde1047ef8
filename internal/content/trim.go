package content

import (
	"strings"
	"unicode"
)

// Side selects which end of inline content to trim.
type Side int

const (
	Left Side = iota
	Right
)

// TrimInlineContentOnSide strips whitespace, including NewLine parts, from
// one end of content, descending into elements. It stops at the first
// non-whitespace text or at an emoji. It reports whether anything was
// removed. The input is never modified.
func TrimInlineContentOnSide(content InlineContent, side Side) (InlineContent, bool) {
	out := append(InlineContent(nil), content...)
	trimmed := false
	i := 0
	if side == Right {
		i = len(out) - 1
	}
	for i >= 0 && i < len(out) {
		switch p := out[i].(type) {
		case Text:
			s := trimTextSide(string(p), side)
			if s == "" {
				trimmed = true
				out = append(out[:i], out[i+1:]...)
				if side == Right {
					i--
				}
				continue
			}
			if s != string(p) {
				trimmed = true
			}
			out[i] = Text(s)
			return out, trimmed
		case *Emoji:
			return out, trimmed
		case Parent:
			children, t := TrimInlineContentOnSide(p.Children(), side)
			if t {
				trimmed = true
			}
			if len(children) == 0 {
				out = append(out[:i], out[i+1:]...)
				if side == Right {
					i--
				}
				continue
			}
			out[i] = p.WithChildren(children).(Inline)
			return out, trimmed
		default:
			return out, trimmed
		}
	}
	return out, trimmed
}

func trimTextSide(s string, side Side) string {
	if side == Left {
		return strings.TrimLeftFunc(s, unicode.IsSpace)
	}
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// TrimInlineContent strips whitespace from both ends of content. It returns
// nil when nothing is left.
func TrimInlineContent(content InlineContent) InlineContent {
	content, _ = TrimInlineContentOnSide(content, Left)
	content, _ = TrimInlineContentOnSide(content, Right)
	return nilIfEmpty(content)
}

// TrimContent trims every paragraph of content and drops the ones that end
// up empty. It returns nil when nothing is left.
func TrimContent(content Content) Content {
	var out Content
	for _, b := range content {
		if ic, ok := b.(InlineContent); ok {
			ic = TrimInlineContent(ic)
			if ic == nil {
				continue
			}
			b = ic
		}
		out = append(out, b)
	}
	return out
}
