package content

import "unicode/utf8"

// Costs of the point model.
const (
	// AverageLineCharacters is the length a line is assumed to occupy no
	// matter how short it is.
	AverageLineCharacters = 80
	// NewLineCost is the cost of a line break inside a paragraph.
	NewLineCost = 30
	// NewParagraphCost is the cost of a break between blocks.
	NewParagraphCost = 60
)

// Mode selects what Count measures.
type Mode int

const (
	// Characters counts text characters. Line breaks count zero.
	Characters Mode = iota
	// Points counts characters, line breaks at NewLineCost and pads every
	// line shorter than AverageLineCharacters up to that length.
	Points
	// Lines estimates the number of average-length lines.
	Lines
)

func (m Mode) String() string {
	switch m {
	case Characters:
		return "characters"
	case Points:
		return "points"
	case Lines:
		return "lines"
	}
	return "unknown"
}

// CountOptions adjust Count.
type CountOptions struct {
	// MinimizeGeneratedPostLinkBlockQuotes excludes post links holding an
	// autogenerated block quote, which are shown collapsed.
	MinimizeGeneratedPostLinkBlockQuotes bool
}

// Count measures a text block or any inline part in the given mode.
// Block elements other than paragraphs count zero here; use CountBlock.
func Count(n Node, mode Mode, opts CountOptions) int {
	c := counter{mode: mode, opts: opts}
	total := c.count(n)
	if mode == Lines {
		return (total + AverageLineCharacters - 1) / AverageLineCharacters
	}
	return total
}

type counter struct {
	mode Mode
	opts CountOptions
	// characters since the last line break
	line int
}

func (c *counter) count(n Node) int {
	switch v := n.(type) {
	case nil:
		return 0
	case InlineContent:
		total := 0
		for _, part := range v {
			n := c.count(part)
			if IsNewLine(part) {
				fromLineStart := c.line
				c.line = 0
				if c.mode != Characters && fromLineStart < AverageLineCharacters {
					n += AverageLineCharacters - fromLineStart
				}
			}
			total += n
		}
		return total
	case Text:
		if v == NewLine {
			switch c.mode {
			case Points:
				return NewLineCost
			case Lines:
				return AverageLineCharacters
			}
			return 0
		}
		n := utf8.RuneCountInString(string(v))
		if c.mode != Characters {
			c.line += n
		}
		return n
	case *Emoji, ReadMore:
		return 0
	case *PostLink:
		if c.opts.MinimizeGeneratedPostLinkBlockQuotes && v.IsBlockQuote() && v.IsGeneratedQuote() {
			return 0
		}
		return c.count(v.Content)
	case Parent:
		children := v.Children()
		if children == nil {
			logger.Warn().Str("type", v.Type()).Msg("no content present for inline part")
			return 0
		}
		return c.count(children)
	case Element:
		logger.Warn().Str("type", v.Type()).Msg("cannot count element")
		return 0
	}
	return 0
}

// Fit is the outcome of fitting a block into a budget.
type Fit int

const (
	// NoFit means the block does not fit at all.
	NoFit Fit = iota
	// FitsEntirely means the whole block fits.
	FitsEntirely
	// FitsPartially means a shortened copy of the block fits.
	FitsPartially
)

// Budget accepts content while there is room for it. Each method consumes
// the cost of what it accepts.
type Budget interface {
	// FitPoints accepts a cost given directly.
	FitPoints(points, characters int) bool
	// Fit accepts a text block or inline part.
	Fit(n Node) bool
}

// CountIfBlockFits fits a non-text block into b. Lists may fit partially,
// in which case the shortened list is returned as well. Attachment blocks
// are resolved against attachments.
func CountIfBlockFits(block Block, attachments []*Attachment, b Budget) (Fit, Block) {
	switch v := block.(type) {
	case *AttachmentBlock:
		a := ResolveAttachment(v, attachments)
		if a == nil {
			logger.Error().Int("attachmentId", v.AttachmentID).Msg("attachment not found for block")
			return NoFit, nil
		}
		if b.FitPoints(AttachmentPoints(a), 1) {
			return FitsEntirely, nil
		}
		return NoFit, nil
	case *Heading:
		return fitOrNot(b.Fit(v.Content))
	case *Code:
		return fitOrNot(b.Fit(v.Content))
	case *Quote:
		if v.Source != "" && !b.Fit(Text(v.Source)) {
			return NoFit, nil
		}
		return fitOrNot(b.Fit(v.Content))
	case *List:
		var items []InlineContent
		for i, item := range v.Items {
			if !b.Fit(item) {
				break
			}
			items = append(items, item)
			if i < len(v.Items)-1 && !b.Fit(NewLine) {
				break
			}
		}
		switch {
		case len(items) == len(v.Items):
			return FitsEntirely, nil
		case len(items) > 0:
			return FitsPartially, &List{Items: items}
		}
		return NoFit, nil
	case ReadMore:
		return FitsEntirely, nil
	case Element:
		logger.Error().Str("type", v.Type()).Msg("unsupported post block type")
	}
	return NoFit, nil
}

func fitOrNot(ok bool) (Fit, Block) {
	if ok {
		return FitsEntirely, nil
	}
	return NoFit, nil
}

// tally is a Budget without a limit.
type tally struct {
	mode   Mode
	opts   CountOptions
	points int
}

func (t *tally) FitPoints(points, characters int) bool {
	if t.mode == Characters {
		t.points += characters
	} else {
		t.points += points
	}
	return true
}

func (t *tally) Fit(n Node) bool {
	t.points += Count(n, t.mode, t.opts)
	return true
}

// CountBlock measures any block, including attachments, lists and quotes.
func CountBlock(block Block, attachments []*Attachment, mode Mode, opts CountOptions) int {
	switch block.(type) {
	case Text, InlineContent:
		return Count(block, mode, opts)
	}
	inner := mode
	if mode == Lines {
		inner = Points
	}
	t := &tally{mode: inner, opts: opts}
	CountIfBlockFits(block, attachments, t)
	if mode == Lines {
		return (t.points + AverageLineCharacters - 1) / AverageLineCharacters
	}
	return t.points
}

// CountPost measures a whole post, joining blocks with NewParagraphCost in
// point-based modes.
func CountPost(post *Post, mode Mode, opts CountOptions) int {
	inner := mode
	if mode == Lines {
		inner = Points
	}
	total := 0
	for i, b := range post.Content {
		if i > 0 && inner == Points {
			total += NewParagraphCost
		}
		total += CountBlock(b, post.Attachments, inner, opts)
	}
	if mode == Lines {
		return (total + AverageLineCharacters - 1) / AverageLineCharacters
	}
	return total
}
