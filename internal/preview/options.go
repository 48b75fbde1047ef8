package preview

import (
	"errors"
	"fmt"
)

// Defaults applied to unset Options fields.
const (
	DefaultMinFitFactor      = 0.75
	DefaultMaxFitFactor      = 1.2
	DefaultTrimMarkEndOfWord = "…"
	DefaultTrimMarkAbrupt    = "…"
)

// ErrInvalidOptions is returned by New for options it cannot work with.
var ErrInvalidOptions = errors.New("invalid preview options")

// Options configure a Generator.
type Options struct {
	// MaxLength is the soft size limit of a preview in points. Text costs one
	// point per character. Line breaks, paragraphs and attachments have costs
	// of their own.
	MaxLength int `json:"maxLength" yaml:"maxLength" mapstructure:"maxLength"`
	// MinFitFactor is the share of MaxLength a preview should reach before
	// the generator prefers dropping a block over cutting it. Zero means
	// DefaultMinFitFactor.
	MinFitFactor float64 `json:"minFitFactor,omitempty" yaml:"minFitFactor" mapstructure:"minFitFactor"`
	// MaxFitFactor is how far past MaxLength a preview may stretch to end at
	// a better boundary. A post shorter than MaxLength*MaxFitFactor is not
	// shortened at all. Zero means DefaultMaxFitFactor.
	MaxFitFactor float64 `json:"maxFitFactor,omitempty" yaml:"maxFitFactor" mapstructure:"maxFitFactor"`
	// TrimMarkEndOfWord is appended to text cut after a word. Nil means
	// DefaultTrimMarkEndOfWord; an empty string appends nothing.
	TrimMarkEndOfWord *string `json:"trimMarkEndOfWord,omitempty" yaml:"trimMarkEndOfWord" mapstructure:"trimMarkEndOfWord"`
	// TrimMarkAbrupt is appended to text cut mid-word. Nil means
	// DefaultTrimMarkAbrupt; an empty string appends nothing.
	TrimMarkAbrupt *string `json:"trimMarkAbrupt,omitempty" yaml:"trimMarkAbrupt" mapstructure:"trimMarkAbrupt"`
	// MinimizeGeneratedPostLinkBlockQuotes does not count post links holding
	// an autogenerated block quote, for hosts that show them collapsed.
	MinimizeGeneratedPostLinkBlockQuotes bool `json:"minimizeGeneratedPostLinkBlockQuotes,omitempty" yaml:"minimizeGeneratedPostLinkBlockQuotes" mapstructure:"minimizeGeneratedPostLinkBlockQuotes"`
}

// DefaultOptions returns the default options for the given size limit. The
// trim marks are left unset and resolve to their defaults.
func DefaultOptions(maxLength int) Options {
	return Options{
		MaxLength:    maxLength,
		MinFitFactor: DefaultMinFitFactor,
		MaxFitFactor: DefaultMaxFitFactor,
	}
}

// Mark returns a trim mark for Options. Mark("") turns a mark off.
func Mark(s string) *string {
	return &s
}

// withDefaults fills in zero-valued fit factors.
func (o Options) withDefaults() Options {
	if o.MinFitFactor == 0 {
		o.MinFitFactor = DefaultMinFitFactor
	}
	if o.MaxFitFactor == 0 {
		o.MaxFitFactor = DefaultMaxFitFactor
	}
	return o
}

func (o Options) markEndOfWord() string {
	if o.TrimMarkEndOfWord == nil {
		return DefaultTrimMarkEndOfWord
	}
	return *o.TrimMarkEndOfWord
}

func (o Options) markAbrupt() string {
	if o.TrimMarkAbrupt == nil {
		return DefaultTrimMarkAbrupt
	}
	return *o.TrimMarkAbrupt
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.MaxLength <= 0 {
		return fmt.Errorf("%w: maxLength must be positive, got %d", ErrInvalidOptions, o.MaxLength)
	}
	if o.MinFitFactor < 0 || o.MinFitFactor > 1 {
		return fmt.Errorf("%w: minFitFactor must be in (0, 1], got %v", ErrInvalidOptions, o.MinFitFactor)
	}
	if o.MaxFitFactor < 1 {
		return fmt.Errorf("%w: maxFitFactor must be at least 1, got %v", ErrInvalidOptions, o.MaxFitFactor)
	}
	return nil
}
