package quote

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aellingwood/excerpt/internal/content"
)

// TrimPoint restricts where TrimText may cut.
type TrimPoint string

const (
	// TrimAnywhere tries a sentence end, then a word end, then cuts mid-word.
	TrimAnywhere TrimPoint = ""
	// TrimAtSentenceEnd only cuts at a sentence end or a line break.
	TrimAtSentenceEnd TrimPoint = "sentence-end"
	// TrimAtSentenceOrWordEnd never cuts mid-word.
	TrimAtSentenceOrWordEnd TrimPoint = "sentence-or-word-end"
)

// Default trim marks.
const (
	DefaultTrimMarkEndOfWord = " …"
	DefaultTrimMarkAbrupt    = "…"
)

// ParseTrimPoint validates a trim point name.
func ParseTrimPoint(s string) (TrimPoint, error) {
	switch tp := TrimPoint(s); tp {
	case TrimAnywhere, TrimAtSentenceEnd, TrimAtSentenceOrWordEnd:
		return tp, nil
	}
	return "", fmt.Errorf("unknown trim point %q", s)
}

// TrimOptions configure TrimText.
type TrimOptions struct {
	// MinFitFactor lowers the length a cut at a sentence or word end may
	// leave, relative to maxLength. Zero means 1.
	MinFitFactor float64
	// MaxFitFactor lets text exceed maxLength by this factor. Zero means 1.
	MaxFitFactor float64
	TrimPoint    TrimPoint

	// TrimMarkEndOfLine is appended when text ends after a dropped line.
	TrimMarkEndOfLine string
	// TrimMarkEndOfSentence is appended when text is cut at a sentence end.
	TrimMarkEndOfSentence string
	// TrimMarkEndOfWord is appended when text is cut after a word. Nil
	// means DefaultTrimMarkEndOfWord; an empty string appends nothing.
	TrimMarkEndOfWord *string
	// TrimMarkAbrupt is appended when text is cut mid-word. Nil means
	// DefaultTrimMarkAbrupt; an empty string appends nothing.
	TrimMarkAbrupt *string

	// LineBreakPenalty returns the cost of the line break after the line
	// textBefore. When set, text is trimmed line by line and every line break
	// uses up part of maxLength. When nil, line breaks are free.
	LineBreakPenalty func(textBefore string) int
}

// withDefaults fills in zero-valued fit factors.
func (o TrimOptions) withDefaults() TrimOptions {
	if o.MinFitFactor == 0 {
		o.MinFitFactor = 1
	}
	if o.MaxFitFactor == 0 {
		o.MaxFitFactor = 1
	}
	return o
}

// Mark returns a trim mark for TrimOptions. Mark("") turns a mark off.
func Mark(s string) *string {
	return &s
}

func (o TrimOptions) markEndOfWord() string {
	if o.TrimMarkEndOfWord == nil {
		return DefaultTrimMarkEndOfWord
	}
	return *o.TrimMarkEndOfWord
}

func (o TrimOptions) markAbrupt() string {
	if o.TrimMarkAbrupt == nil {
		return DefaultTrimMarkAbrupt
	}
	return *o.TrimMarkAbrupt
}

// Validate checks the fit factors and the trim point.
func (o TrimOptions) Validate() error {
	o = o.withDefaults()
	if o.MinFitFactor < 0 || o.MinFitFactor > 1 {
		return fmt.Errorf("minFitFactor must be in (0, 1], got %v", o.MinFitFactor)
	}
	if o.MaxFitFactor < 1 {
		return fmt.Errorf("maxFitFactor must be at least 1, got %v", o.MaxFitFactor)
	}
	if _, err := ParseTrimPoint(string(o.TrimPoint)); err != nil {
		return err
	}
	return nil
}

// ConstantLineBreakPenalty charges the same cost for every line break.
func ConstantLineBreakPenalty(cost int) func(string) int {
	return func(string) int { return cost }
}

// TrimText shortens s to about maxLength characters. It prefers cutting at
// the last sentence end or line break, then at the last word end, and cuts
// mid-word as a last resort, appending the matching trim mark. An empty
// result means s could not be cut at the allowed trim points.
func TrimText(s string, maxLength int, opts TrimOptions) string {
	opts = opts.withDefaults()
	if opts.LineBreakPenalty == nil {
		t, _ := trimRunes([]rune(s), float64(maxLength), opts.TrimPoint, opts.MinFitFactor, opts.MaxFitFactor, opts)
		return t
	}
	if s == "" {
		return s
	}

	var sb strings.Builder
	characters := 0
	pointsLeft := maxLength
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		n := utf8.RuneCountInString(line)
		if n > pointsLeft && float64(characters+n) > float64(characters+pointsLeft)*opts.MaxFitFactor {
			// Fit factors are scaled up for the rest of the line so that
			// they stay proportional to maxLength.
			scale := float64(maxLength) / float64(pointsLeft)
			minForLine := 1 - (1-opts.MinFitFactor)*scale
			maxForLine := 1 + (opts.MaxFitFactor-1)*scale
			var ok bool
			if float64(characters) >= float64(characters+pointsLeft)*opts.MinFitFactor {
				// Long enough already: keep the line only up to a sentence end.
				line, ok = trimRunes([]rune(line), float64(pointsLeft), TrimAtSentenceEnd, minForLine, maxForLine, opts)
			} else {
				line, ok = trimRunes([]rune(line), float64(pointsLeft), opts.TrimPoint, minForLine, maxForLine, opts)
			}
			if !ok {
				line = ""
			}
		}
		if line == "" {
			if sb.Len() > 0 {
				sb.WriteString(opts.TrimMarkEndOfLine)
			} else {
				sb.WriteString(opts.markAbrupt())
			}
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		n = utf8.RuneCountInString(line)
		characters += n
		pointsLeft -= n + opts.LineBreakPenalty(line)
	}
	return sb.String()
}

func trimRunes(r []rune, maxLength float64, tp TrimPoint, minFitFactor, maxFitFactor float64, opts TrimOptions) (string, bool) {
	limit := maxLength * maxFitFactor
	if float64(len(r)) <= limit {
		return string(r), true
	}

	if tp == TrimAnywhere || tp == TrimAtSentenceEnd || tp == TrimAtSentenceOrWordEnd {
		if t := trimAtSentenceEnd(r[:cutIndex(len(r), limit)]); t != "" {
			n := float64(utf8.RuneCountInString(t))
			if n <= limit && n >= maxLength*minFitFactor {
				return t + opts.TrimMarkEndOfSentence, true
			}
		}
	}

	r = r[:cutIndex(len(r), limit)]
	if tp == TrimAnywhere || tp == TrimAtSentenceOrWordEnd {
		// No sentence end qualified, so a space here ends a word.
		if i := lastIndexRune(r, ' '); i >= 0 && float64(i) >= minFitFactor*maxLength {
			return string(r[:i]) + opts.markEndOfWord(), true
		}
	}

	if tp == TrimAnywhere {
		return string(r[:cutIndex(len(r), maxLength)]) + opts.markAbrupt(), true
	}
	return "", false
}

// trimAtSentenceEnd cuts r after its last sentence end or before its last
// line break, whichever comes later, dropping trailing whitespace.
func trimAtSentenceEnd(r []rune) string {
	at, found := -1, false
	if i := lastIndexRune(r, '\n'); i >= 0 {
		at, found = i-1, true
	}
	if i := content.FindLastSentenceEnd(string(r), len(r)); i >= 0 {
		at, found = max(at, i), true
	}
	if !found {
		return ""
	}
	return strings.TrimRightFunc(string(r[:at+1]), unicode.IsSpace)
}

// cutIndex converts a fractional length into a slice bound for n runes.
func cutIndex(n int, length float64) int {
	if math.IsNaN(length) || length <= 0 {
		return 0
	}
	if length >= float64(n) {
		return n
	}
	return int(length)
}

func lastIndexRune(r []rune, c rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == c {
			return i
		}
	}
	return -1
}
