package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes content given either as a single string or as an
// array of blocks.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding content: %w", err)
		}
		*c = Content{Text(s)}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding content: %w", err)
	}
	out := make(Content, 0, len(raw))
	for i, r := range raw {
		b, err := decodeBlock(r)
		if err != nil {
			return fmt.Errorf("decoding content block %d: %w", i, err)
		}
		out = append(out, b)
	}
	*c = out
	return nil
}

// UnmarshalJSON decodes inline content given either as a single string or as
// an array of parts. Nested arrays are flattened.
func (ic *InlineContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*ic = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding inline content: %w", err)
		}
		*ic = InlineContent{Text(s)}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding inline content: %w", err)
	}
	out := make(InlineContent, 0, len(raw))
	for i, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) == 0 {
			continue
		}
		switch r[0] {
		case '"':
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return fmt.Errorf("decoding inline part %d: %w", i, err)
			}
			out = append(out, Text(s))
		case '[':
			var nested InlineContent
			if err := nested.UnmarshalJSON(r); err != nil {
				return err
			}
			out = append(out, nested...)
		case '{':
			el, err := decodeElement(r)
			if err != nil {
				return fmt.Errorf("decoding inline part %d: %w", i, err)
			}
			part, ok := el.(Inline)
			if !ok {
				logger.Warn().Str("type", el.Type()).Msg("block element used inline")
				part = &Unknown{Kind: el.Type(), Raw: append(json.RawMessage(nil), r...)}
			}
			out = append(out, part)
		default:
			return fmt.Errorf("decoding inline part %d: unexpected %s", i, r)
		}
	}
	*ic = out
	return nil
}

func decodeBlock(r json.RawMessage) (Block, error) {
	r = bytes.TrimSpace(r)
	if len(r) == 0 {
		return nil, fmt.Errorf("empty block")
	}
	switch r[0] {
	case '"':
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, err
		}
		return Text(s), nil
	case '[':
		var ic InlineContent
		if err := ic.UnmarshalJSON(r); err != nil {
			return nil, err
		}
		return ic, nil
	case '{':
		el, err := decodeElement(r)
		if err != nil {
			return nil, err
		}
		if b, ok := el.(Block); ok {
			return b, nil
		}
		// An inline element standing alone forms a paragraph of its own.
		return InlineContent{el.(Inline)}, nil
	}
	return nil, fmt.Errorf("unexpected block %s", r)
}

func decodeElement(r json.RawMessage) (Element, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(r, &head); err != nil {
		return nil, err
	}

	var el Element
	switch head.Type {
	case TypeText:
		el = &Styled{}
	case TypeEmoji:
		el = &Emoji{}
	case TypeQuote:
		el = &Quote{}
	case TypeSpoiler:
		el = &Spoiler{}
	case TypeLink:
		el = &Link{}
	case TypePostLink:
		el = &PostLink{}
	case TypeCode:
		el = &Code{}
	case TypeHeading:
		el = &Heading{}
	case TypeList:
		el = &List{}
	case TypeAttachment:
		el = &AttachmentBlock{}
	case TypeReadMore:
		return ReadMore{}, nil
	default:
		logger.Warn().Str("type", head.Type).Msg("unsupported content element type")
		return &Unknown{Kind: head.Type, Raw: append(json.RawMessage(nil), r...)}, nil
	}
	if err := json.Unmarshal(r, el); err != nil {
		return nil, fmt.Errorf("decoding %q element: %w", head.Type, err)
	}
	return el, nil
}

func marshalTyped(typ string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	prefix := fmt.Sprintf(`{"type":%q`, typ)
	if len(b) <= 2 {
		return []byte(prefix + "}"), nil
	}
	return append([]byte(prefix+","), b[1:]...), nil
}

// MarshalJSON encodes the element with its "type" field.
func (s *Styled) MarshalJSON() ([]byte, error) {
	type plain Styled
	return marshalTyped(TypeText, (*plain)(s))
}

// MarshalJSON encodes the element with its "type" field.
func (e *Emoji) MarshalJSON() ([]byte, error) {
	type plain Emoji
	return marshalTyped(TypeEmoji, (*plain)(e))
}

// MarshalJSON encodes the element with its "type" field.
func (q *Quote) MarshalJSON() ([]byte, error) {
	type plain Quote
	return marshalTyped(TypeQuote, (*plain)(q))
}

// MarshalJSON encodes the element with its "type" field.
func (s *Spoiler) MarshalJSON() ([]byte, error) {
	type plain Spoiler
	return marshalTyped(TypeSpoiler, (*plain)(s))
}

// MarshalJSON encodes the element with its "type" field.
func (l *Link) MarshalJSON() ([]byte, error) {
	type plain Link
	return marshalTyped(TypeLink, (*plain)(l))
}

// MarshalJSON encodes the element with its "type" field.
func (p *PostLink) MarshalJSON() ([]byte, error) {
	type plain PostLink
	return marshalTyped(TypePostLink, (*plain)(p))
}

// MarshalJSON encodes the element with its "type" field.
func (c *Code) MarshalJSON() ([]byte, error) {
	type plain Code
	return marshalTyped(TypeCode, (*plain)(c))
}

// MarshalJSON encodes the element with its "type" field.
func (h *Heading) MarshalJSON() ([]byte, error) {
	type plain Heading
	return marshalTyped(TypeHeading, (*plain)(h))
}

// MarshalJSON encodes the element with its "type" field.
func (l *List) MarshalJSON() ([]byte, error) {
	type plain List
	return marshalTyped(TypeList, (*plain)(l))
}

// MarshalJSON encodes the element with its "type" field.
func (a *AttachmentBlock) MarshalJSON() ([]byte, error) {
	type plain AttachmentBlock
	return marshalTyped(TypeAttachment, (*plain)(a))
}

// MarshalJSON encodes the marker as {"type":"read-more"}.
func (ReadMore) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"read-more"}`), nil
}

// MarshalJSON writes back the element exactly as it was decoded.
func (u *Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return marshalTyped(u.Kind, struct{}{})
	}
	return u.Raw, nil
}
