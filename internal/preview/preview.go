// Package preview shortens post content to a size budget.
//
// A preview is built block by block. Blocks that fit are kept as they are.
// The first block that does not fit is cut at the best boundary available
// (a line break, a sentence end, a word end, or any character) or dropped
// altogether when the preview is long enough without it. A read-more marker
// then ends the preview. Posts that are only slightly over the budget are
// not shortened at all.
package preview

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aellingwood/excerpt/internal/content"
)

var logger = zerolog.Nop()

// SetLogger sets the logger used to report content that cannot be trimmed.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "preview").Logger()
}

// Generator produces previews. It holds no state between calls and is safe
// for concurrent use.
type Generator struct {
	opts Options
}

// New returns a Generator for opts. Zero-valued fields take their defaults.
func New(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts.withDefaults()}, nil
}

// Options returns the options in effect, defaults included.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate returns a shortened copy of the post content ending with a
// read-more marker, or nil when the content fits and needs no preview.
// The post is not modified.
func (g *Generator) Generate(post *content.Post) content.Content {
	if post == nil || len(post.Content) == 0 {
		return nil
	}
	r := &run{
		opts:        g.opts,
		countOpts:   content.CountOptions{MinimizeGeneratedPostLinkBlockQuotes: g.opts.MinimizeGeneratedPostLinkBlockQuotes},
		content:     post.Content,
		attachments: post.Attachments,
	}
	return r.generate()
}

// Generate is a shorthand for New followed by Generator.Generate.
func Generate(post *content.Post, opts Options) (content.Content, error) {
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	return g.Generate(post), nil
}

// trimPoint is a kind of boundary text may be cut at.
type trimPoint int

const (
	atNewLine trimPoint = iota
	atSentenceEnd
	atWordEnd
	atAnyCharacter
)

// outcome of fitting a block.
type outcome int

const (
	fitsEntirely outcome = iota
	fitsTrimmed
	doesNotFit
)

// run is the state of a single Generate call.
type run struct {
	opts        Options
	countOpts   content.CountOptions
	content     content.Content
	attachments []*content.Attachment

	preview content.Content

	characterCount  int
	characterPoints int

	// State as of the last fully accepted block. Used to decide whether a
	// block may be dropped instead of cut.
	blockLevelTrimCharacterCount  int
	blockLevelTrimCharacterPoints int
}

func (r *run) generate() content.Content {
	for i, block := range r.content {
		fitted, result := r.fitBlock(block)
		if fitted != nil {
			r.preview = append(r.preview, fitted)
		}

		shouldTrim := result != fitsEntirely || r.characterPoints > r.opts.MaxLength
		if !shouldTrim {
			r.characterPoints += content.NewParagraphCost
			r.blockLevelTrimCharacterCount = r.characterCount
			r.blockLevelTrimCharacterPoints = r.characterPoints
			continue
		}

		if r.entireContentFitsWithinFitFactor(i) {
			return nil
		}

		dropped := result == doesNotFit
		hasMoreBlocks := i+1 < len(r.content)
		// A preview is never empty.
		if len(r.preview) == 0 {
			r.preview = append(r.preview, r.content[0])
			dropped = false
			hasMoreBlocks = len(r.content) > 1
		}
		if result == fitsTrimmed {
			r.addReadMore(fitted)
		} else if hasMoreBlocks || dropped {
			r.addReadMore(nil)
		}
		return r.preview
	}
	return nil
}

// fitBlock accepts block as is, a trimmed version of it, or nothing.
func (r *run) fitBlock(block content.Block) (content.Block, outcome) {
	switch v := block.(type) {
	case content.Text:
		if v == content.NewLine {
			return r.fitNewLineBlock(v)
		}
		return r.fitTextBlock(v, false)
	case content.InlineContent:
		return r.fitTextBlock(v, true)
	}

	fit, shortened := content.CountIfBlockFits(block, r.attachments, r)
	switch fit {
	case content.FitsEntirely:
		return block, fitsEntirely
	case content.FitsPartially:
		return shortened, fitsTrimmed
	}
	return nil, doesNotFit
}

func (r *run) fitNewLineBlock(block content.Text) (content.Block, outcome) {
	fitted, result := content.Block(block), fitsEntirely
	if r.willOverflow(content.NewLineCost, 0) {
		// Whitespace pushes the read-more marker to a paragraph of its own.
		fitted, result = content.Text(" "), fitsTrimmed
	}
	r.characterPoints += content.NewLineCost + content.AverageLineCharacters
	return fitted, result
}

// fitTextBlock handles a Text block or, with paragraph set, an InlineContent
// paragraph.
func (r *run) fitTextBlock(block content.Block, paragraph bool) (content.Block, outcome) {
	points := r.countPoints(block)
	characters := r.countCharacters(block)

	if r.countIfFits(points, characters, 1) {
		r.compensateShortLine(characters)
		return block, fitsEntirely
	}
	if r.willTrimLongEnoughAt(r.blockLevelTrimCharacterCount) {
		return nil, doesNotFit
	}

	// Cutting at a line break leaves the line break at the end, which later
	// moves the read-more marker to a paragraph of its own.
	var attempts []func() content.Block
	if paragraph {
		attempts = append(attempts,
			func() content.Block { return r.trimTextContent(block, atNewLine, 0) },
			func() content.Block { return r.trimTextContent(block, atNewLine, 1) },
		)
	}
	attempts = append(attempts,
		func() content.Block { return r.trimTextContent(block, atSentenceEnd, 0) },
		func() content.Block { return r.trimTextContent(block, atSentenceEnd, 1) },
	)
	for _, attempt := range attempts {
		if trimmed := attempt(); trimmed != nil {
			return r.trimmedOutcome(block, trimmed)
		}
	}

	if r.countIfFits(points, characters, 2) {
		r.compensateShortLine(characters)
		return block, fitsEntirely
	}

	attempts = attempts[:0]
	if paragraph {
		attempts = append(attempts, func() content.Block { return r.trimTextContent(block, atNewLine, 2) })
	}
	attempts = append(attempts,
		func() content.Block { return r.trimTextContent(block, atSentenceEnd, 2) },
		func() content.Block { return r.trimTextContent(block, atWordEnd, 0) },
		func() content.Block { return r.trimTextContent(block, atAnyCharacter, 0) },
	)
	for _, attempt := range attempts {
		if trimmed := attempt(); trimmed != nil {
			return r.trimmedOutcome(block, trimmed)
		}
	}
	return nil, doesNotFit
}

// trimmedOutcome treats a Text cut at its very end as not cut.
func (r *run) trimmedOutcome(block, trimmed content.Block) (content.Block, outcome) {
	if t, ok := trimmed.(content.Text); ok && block == content.Block(t) {
		return block, fitsEntirely
	}
	return trimmed, fitsTrimmed
}

func (r *run) compensateShortLine(characters int) {
	if characters < content.AverageLineCharacters {
		r.characterPoints += content.AverageLineCharacters - characters
	}
}

// entireContentFitsWithinFitFactor reports whether the content from block i
// on, added to what was accepted before it, stays within the fit factor of
// the points consumed so far.
func (r *run) entireContentFitsWithinFitFactor(i int) bool {
	rest := &threshold{run: r, points: r.blockLevelTrimCharacterPoints}
	for _, block := range r.content[i:] {
		switch block.(type) {
		case content.Text, content.InlineContent:
			rest.points += r.countPoints(block)
			if r.doesExceedThreshold(rest.points) {
				return false
			}
		default:
			// A list that fits only partially does not fit here.
			if fit, _ := content.CountIfBlockFits(block, r.attachments, rest); fit != content.FitsEntirely {
				return false
			}
		}
		rest.points += content.NewParagraphCost
	}
	return true
}

// threshold is a Budget over the points of the remaining content. It accepts
// content while the total stays within the fit factor of the points already
// consumed, and leaves the run itself untouched.
type threshold struct {
	run    *run
	points int
}

// FitPoints implements content.Budget.
func (t *threshold) FitPoints(points, _ int) bool {
	if t.run.doesExceedThreshold(t.points + points) {
		return false
	}
	t.points += points
	return true
}

// Fit implements content.Budget.
func (t *threshold) Fit(n content.Node) bool {
	return t.FitPoints(t.run.countPoints(n), 0)
}

func (r *run) doesExceedThreshold(points int) bool {
	return float64(points) > float64(r.characterPoints)*r.opts.MaxFitFactor
}

// willTrimLongEnoughAt reports whether a preview of characterCount
// characters would be long enough.
func (r *run) willTrimLongEnoughAt(characterCount int) bool {
	return float64(characterCount) > r.opts.MinFitFactor*float64(r.characterCount+r.pointsLeft(0))
}

func (r *run) willTrimLongEnoughAfter(estimatedCharacterCount int) bool {
	return r.willTrimLongEnoughAt(r.characterCount + estimatedCharacterCount)
}

func (r *run) countCharacters(n content.Node) int {
	return content.Count(n, content.Characters, r.countOpts)
}

func (r *run) countPoints(n content.Node) int {
	return content.Count(n, content.Points, r.countOpts)
}

// withMaxFitFactor stretches points by the max fit factor. An effect of 0
// leaves points as is; 1 applies the factor, 2 applies it twice as much.
func (r *run) withMaxFitFactor(points int, effect int) int {
	if effect == 0 {
		return points
	}
	return int(math.Floor(float64(points) * (1 + float64(effect)*(r.opts.MaxFitFactor-1))))
}

func (r *run) pointsLeft(effect int) int {
	return r.withMaxFitFactor(r.opts.MaxLength, effect) - r.characterPoints
}

func (r *run) willOverflow(points int, effect int) bool {
	return r.characterPoints+points > r.withMaxFitFactor(r.opts.MaxLength, effect)
}

func (r *run) countIn(points, characters int) {
	r.characterPoints += points
	r.characterCount += characters
}

func (r *run) countIfFits(points, characters int, effect int) bool {
	if r.willOverflow(points, effect) {
		return false
	}
	r.countIn(points, characters)
	return true
}

// FitPoints implements content.Budget.
func (r *run) FitPoints(points, characters int) bool {
	return r.countIfFits(points, characters, 0)
}

// Fit implements content.Budget.
func (r *run) Fit(n content.Node) bool {
	return r.countIfFits(r.countPoints(n), r.countCharacters(n), 0)
}

// trimTextContent cuts block at tp and accepts the result if it leaves the
// preview long enough.
func (r *run) trimTextContent(block content.Block, tp trimPoint, effect int) content.Block {
	var trimmed content.Block
	switch v := block.(type) {
	case content.Text:
		if t, ok := r.trimTextAtPoint(v, tp, effect); ok {
			trimmed = t
		}
	case content.InlineContent:
		if ic := r.trimAtPoint(v, tp, effect); ic != nil {
			trimmed = ic
		}
	}
	if trimmed == nil {
		return nil
	}
	points := r.countPoints(trimmed)
	if !r.willTrimLongEnoughAfter(points) {
		return nil
	}
	r.countIn(points, r.countCharacters(trimmed))
	return trimmed
}

func (r *run) trimTextAtPoint(text content.Text, tp trimPoint, effect int) (content.Text, bool) {
	if tp == atNewLine {
		return "", false
	}
	left := r.pointsLeft(effect)
	if left == 0 {
		return "", false
	}
	runes := []rune(string(text))
	index := findTrimPoint(runes, tp, left-1)
	if index < 0 {
		return "", false
	}
	end := min(index+1, len(runes))
	return content.Text(r.addTrimMark(string(runes[:end]), tp)), true
}

// trimAtPoint searches a paragraph backwards for the last trim point that
// keeps it within the points left and returns the paragraph up to there.
func (r *run) trimAtPoint(block content.InlineContent, tp trimPoint, effect int) content.InlineContent {
	overflow := r.countPoints(block) - r.pointsLeft(effect)
	fromLineStart := 0
	trimIndex := -1

	path := content.FindPart(block, func(part content.Inline) bool {
		t, ok := part.(content.Text)
		if !ok {
			return false
		}
		points := r.countPoints(t)
		if t == content.NewLine {
			if fromLineStart < content.AverageLineCharacters {
				points += content.AverageLineCharacters - fromLineStart
			}
			fromLineStart = 0
		} else {
			fromLineStart += points
		}
		overflow -= points
		if overflow >= 0 {
			return false
		}
		if tp == atNewLine {
			return t == content.NewLine
		}
		runes := []rune(string(t))
		index := len(runes) - (overflow + points)
		for {
			index = findTrimPoint(runes, tp, index-1)
			if index < 0 {
				return false
			}
			if overflow+index+1 <= 0 {
				trimIndex = index
				return true
			}
		}
	}, true)
	if path == nil {
		return nil
	}

	var opts content.SplitOptions
	if tp != atNewLine {
		opts.TransformSplitPoint = func(part content.Inline) content.Inline {
			t, ok := part.(content.Text)
			if !ok {
				logger.Error().Msg("unsupported content part for trimming")
				return part
			}
			runes := []rune(string(t))
			return content.Text(r.addTrimMark(string(runes[:trimIndex+1]), tp))
		}
	}
	left, _ := content.Split(block, path, opts)
	return left
}

func findTrimPoint(runes []rune, tp trimPoint, from int) int {
	switch tp {
	case atSentenceEnd:
		return content.FindLastSentenceEnd(string(runes), from)
	case atWordEnd:
		return content.LastIndexOfSpace(string(runes), from)
	}
	return from
}

func (r *run) addTrimMark(text string, tp trimPoint) string {
	switch tp {
	case atWordEnd:
		return text + r.opts.markEndOfWord()
	case atAnyCharacter:
		return text + r.opts.markAbrupt()
	}
	return text
}

// addReadMore ends the preview with a read-more marker. The marker goes
// inline at the end of a trimmed paragraph, unless that paragraph ends with
// line breaks, in which case they are removed and the marker becomes a
// block of its own.
func (r *run) addReadMore(trimmed content.Block) {
	var ic content.InlineContent
	fromText := false
	switch v := trimmed.(type) {
	case content.Text:
		ic, fromText = content.InlineContent{v}, true
	case content.InlineContent:
		ic = v
	}
	if ic != nil {
		rest, trimmedNewLines := content.TrimInlineContentOnSide(ic, content.Right)
		if !trimmedNewLines {
			withMarker := append(append(content.InlineContent(nil), ic...), content.ReadMore{})
			r.preview[len(r.preview)-1] = withMarker
			return
		}
		if !fromText {
			r.preview[len(r.preview)-1] = rest
		}
	}
	r.preview = append(r.preview, content.ReadMore{})
}
