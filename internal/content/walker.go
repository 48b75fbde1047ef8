package content

import "fmt"

// Path is a list of indexes leading from an InlineContent to one of its
// (possibly nested) parts.
type Path []int

// FindPart searches content depth-first for the first part for which test
// returns true and returns its path, or nil. Elements are tested themselves
// and then searched through their children, except emoji whose content is
// not text. With backwards set the search starts from the last part.
func FindPart(content InlineContent, test func(part Inline) bool, backwards bool) Path {
	n := len(content)
	for k := 0; k < n; k++ {
		i := k
		if backwards {
			i = n - 1 - k
		}
		part := content[i]
		if test(part) {
			return Path{i}
		}
		switch p := part.(type) {
		case Text, *Emoji, ReadMore:
		case Parent:
			children := p.Children()
			if children == nil {
				logger.Warn().Str("type", p.Type()).Int("index", i).Msg("no content present for inline part")
				continue
			}
			if sub := FindPart(children, test, backwards); sub != nil {
				return append(Path{i}, sub...)
			}
		default:
			logger.Warn().Int("index", i).Msg("no content present for inline part")
		}
	}
	return nil
}

// SplitOptions control Split.
type SplitOptions struct {
	// Skip drops this many siblings right after the split point.
	Skip int
	// Exclude leaves the split point itself out of both halves.
	Exclude bool
	// TransformSplitPoint rewrites the split point before it ends the left half.
	TransformSplitPoint func(part Inline) Inline
}

// Split cuts content at path into two halves. The part at path ends the left
// half. Elements on the way to the split point appear on both sides, each
// holding its own half of the children. An empty half is returned as nil.
// Split panics if path does not lead to a part of content.
func Split(content InlineContent, path Path, opts SplitOptions) (left, right InlineContent) {
	if len(path) == 0 {
		panic("content: Split called with an empty path")
	}
	i := path[0]
	if i < 0 || i >= len(content) {
		panic(fmt.Sprintf("content: split index %d out of range [0, %d)", i, len(content)))
	}

	left = append(InlineContent(nil), content[:i]...)
	rest := content[i+1:]
	part := content[i]

	if len(path) == 1 {
		if !opts.Exclude {
			if opts.TransformSplitPoint != nil {
				part = opts.TransformSplitPoint(part)
			}
			if part != nil {
				left = append(left, part)
			}
		}
		skip := min(max(opts.Skip, 0), len(rest))
		right = append(right, rest[skip:]...)
		return nilIfEmpty(left), nilIfEmpty(right)
	}

	parent, ok := part.(Parent)
	if !ok {
		panic(fmt.Sprintf("content: split path passes through %T which has no children", part))
	}
	l, r := Split(parent.Children(), path[1:], opts)
	if l != nil {
		left = append(left, parent.WithChildren(l).(Inline))
	}
	if r != nil {
		right = append(right, parent.WithChildren(r).(Inline))
	}
	right = append(right, rest...)
	return nilIfEmpty(left), nilIfEmpty(right)
}

func nilIfEmpty(c InlineContent) InlineContent {
	if len(c) == 0 {
		return nil
	}
	return c
}

// Action tells Transform what to do with a part.
type Action int

const (
	// Descend keeps the part and transforms its children.
	Descend Action = iota
	// Keep leaves the part exactly as it is.
	Keep
	// Replace substitutes the part with the returned parts, which may be none.
	Replace
)

// TransformFunc decides what happens to a single inline part.
type TransformFunc func(part Inline) (Action, InlineContent)

// Transform returns a copy of content with every inline part passed through
// fn. The input is never modified.
func Transform(content Content, fn TransformFunc) Content {
	if content == nil {
		return nil
	}
	out := make(Content, 0, len(content))
	for _, b := range content {
		out = append(out, transformBlock(b, fn))
	}
	return out
}

func transformBlock(b Block, fn TransformFunc) Block {
	switch v := b.(type) {
	case Text:
		action, repl := fn(v)
		if action != Replace {
			return v
		}
		if len(repl) == 1 {
			if t, ok := repl[0].(Text); ok {
				return t
			}
		}
		return repl
	case InlineContent:
		return TransformInline(v, fn)
	case *List:
		cp := *v
		cp.Items = make([]InlineContent, len(v.Items))
		for i, item := range v.Items {
			cp.Items[i] = TransformInline(item, fn)
		}
		return &cp
	case Parent:
		return v.WithChildren(TransformInline(v.Children(), fn)).(Block)
	}
	return b
}

// TransformInline is Transform for a single inline content array.
func TransformInline(content InlineContent, fn TransformFunc) InlineContent {
	if content == nil {
		return nil
	}
	out := make(InlineContent, 0, len(content))
	for _, part := range content {
		action, repl := fn(part)
		switch action {
		case Replace:
			out = append(out, repl...)
		case Keep:
			out = append(out, part)
		default:
			if p, ok := part.(Parent); ok && p.Children() != nil {
				out = append(out, p.WithChildren(TransformInline(p.Children(), fn)).(Inline))
			} else {
				out = append(out, part)
			}
		}
	}
	return out
}

// VisitParts calls visit for every element of type typ in content and
// collects the results for which visit returns true. Matching elements are
// not searched further.
func VisitParts[T any](content Content, typ string, visit func(el Element) (T, bool)) []T {
	var results []T
	for _, b := range content {
		results = visitNode(b, typ, visit, results)
	}
	return results
}

func visitNode[T any](n Node, typ string, visit func(Element) (T, bool), results []T) []T {
	switch v := n.(type) {
	case nil, Text:
		return results
	case InlineContent:
		for _, part := range v {
			results = visitNode(part, typ, visit, results)
		}
		return results
	}

	el, ok := n.(Element)
	if !ok {
		return results
	}
	if el.Type() == typ {
		if r, ok := visit(el); ok {
			results = append(results, r)
		}
		return results
	}
	switch v := el.(type) {
	case Parent:
		results = visitNode(v.Children(), typ, visit, results)
	case *List:
		for _, item := range v.Items {
			results = visitNode(item, typ, visit, results)
		}
	}
	return results
}
