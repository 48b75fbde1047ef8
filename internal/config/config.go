// Package config handles loading, validating, and managing configuration
// for the excerpt tool and server.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

// EnvPrefix is the prefix of environment variables that override config
// values, such as EXCERPT_PREVIEW_MAXLENGTH.
const EnvPrefix = "EXCERPT"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the top-level configuration.
type Config struct {
	Preview  PreviewConfig    `yaml:"preview"  mapstructure:"preview"`
	Quote    QuoteConfig      `yaml:"quote"    mapstructure:"quote"`
	Text     TextConfig       `yaml:"text"     mapstructure:"text"`
	Messages content.Messages `yaml:"messages" mapstructure:"messages"`
	Server   ServerConfig     `yaml:"server"   mapstructure:"server"`
	Cache    CacheConfig      `yaml:"cache"    mapstructure:"cache"`
	Feed     FeedConfig       `yaml:"feed"     mapstructure:"feed"`
	Log      LogConfig        `yaml:"log"      mapstructure:"log"`
}

// PreviewConfig controls preview generation.
type PreviewConfig struct {
	MaxLength                            int     `yaml:"maxLength"                            mapstructure:"maxLength"`
	MinFitFactor                         float64 `yaml:"minFitFactor"                         mapstructure:"minFitFactor"`
	MaxFitFactor                         float64 `yaml:"maxFitFactor"                         mapstructure:"maxFitFactor"`
	TrimMarkEndOfWord                    string  `yaml:"trimMarkEndOfWord"                    mapstructure:"trimMarkEndOfWord"`
	TrimMarkAbrupt                       string  `yaml:"trimMarkAbrupt"                       mapstructure:"trimMarkAbrupt"`
	MinimizeGeneratedPostLinkBlockQuotes bool    `yaml:"minimizeGeneratedPostLinkBlockQuotes" mapstructure:"minimizeGeneratedPostLinkBlockQuotes"`
}

// QuoteConfig controls quote generation.
type QuoteConfig struct {
	MaxLength           int     `yaml:"maxLength"           mapstructure:"maxLength"`
	MinFitFactor        float64 `yaml:"minFitFactor"        mapstructure:"minFitFactor"`
	MaxFitFactor        float64 `yaml:"maxFitFactor"        mapstructure:"maxFitFactor"`
	TrimPoint           string  `yaml:"trimPoint"           mapstructure:"trimPoint"`
	MarkEndOfLine       string  `yaml:"markEndOfLine"       mapstructure:"markEndOfLine"`
	MarkEndOfSentence   string  `yaml:"markEndOfSentence"   mapstructure:"markEndOfSentence"`
	MarkEndOfWord       string  `yaml:"markEndOfWord"       mapstructure:"markEndOfWord"`
	MarkAbrupt          string  `yaml:"markAbrupt"          mapstructure:"markAbrupt"`
	LineBreakPenalty    int     `yaml:"lineBreakPenalty"    mapstructure:"lineBreakPenalty"`
	SkipPostQuoteBlocks bool    `yaml:"skipPostQuoteBlocks" mapstructure:"skipPostQuoteBlocks"`
}

// TextConfig controls plain text rendering.
type TextConfig struct {
	OpeningQuote                 string  `yaml:"openingQuote"                 mapstructure:"openingQuote"`
	ClosingQuote                 string  `yaml:"closingQuote"                 mapstructure:"closingQuote"`
	SkipPostQuoteBlocks          bool    `yaml:"skipPostQuoteBlocks"          mapstructure:"skipPostQuoteBlocks"`
	SkipGeneratedPostQuoteBlocks bool    `yaml:"skipGeneratedPostQuoteBlocks" mapstructure:"skipGeneratedPostQuoteBlocks"`
	SkipAttachments              bool    `yaml:"skipAttachments"              mapstructure:"skipAttachments"`
	SkipUntitledAttachments      bool    `yaml:"skipUntitledAttachments"      mapstructure:"skipUntitledAttachments"`
	SkipNonEmbeddedAttachments   bool    `yaml:"skipNonEmbeddedAttachments"   mapstructure:"skipNonEmbeddedAttachments"`
	KeepFullCodeBlocks           bool    `yaml:"keepFullCodeBlocks"           mapstructure:"keepFullCodeBlocks"`
	StopOnNewLine                bool    `yaml:"stopOnNewLine"                mapstructure:"stopOnNewLine"`
	SoftLimit                    float64 `yaml:"softLimit"                    mapstructure:"softLimit"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host      string        `yaml:"host"      mapstructure:"host"`
	Port      int           `yaml:"port"      mapstructure:"port"`
	WatchDirs []string      `yaml:"watchDirs" mapstructure:"watchDirs"`
	Debounce  time.Duration `yaml:"debounce"  mapstructure:"debounce"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend   string        `yaml:"backend"   mapstructure:"backend"`
	TTL       time.Duration `yaml:"ttl"       mapstructure:"ttl"`
	Dir       string        `yaml:"dir"       mapstructure:"dir"`
	RedisAddr string        `yaml:"redisAddr" mapstructure:"redisAddr"`
}

// FeedConfig controls RSS feed generation.
type FeedConfig struct {
	Title       string `yaml:"title"       mapstructure:"title"`
	Link        string `yaml:"link"        mapstructure:"link"`
	Description string `yaml:"description" mapstructure:"description"`
	Language    string `yaml:"language"    mapstructure:"language"`
	Limit       int    `yaml:"limit"       mapstructure:"limit"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"  mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Preview: PreviewConfig{
			MaxLength:         500,
			MinFitFactor:      preview.DefaultMinFitFactor,
			MaxFitFactor:      preview.DefaultMaxFitFactor,
			TrimMarkEndOfWord: preview.DefaultTrimMarkEndOfWord,
			TrimMarkAbrupt:    preview.DefaultTrimMarkAbrupt,
		},
		Quote: QuoteConfig{
			MaxLength:        160,
			MinFitFactor:     1,
			MaxFitFactor:     1,
			MarkEndOfWord:    quote.DefaultTrimMarkEndOfWord,
			MarkAbrupt:       quote.DefaultTrimMarkAbrupt,
			LineBreakPenalty: quote.DefaultLineBreakPenalty,
		},
		Text: TextConfig{
			OpeningQuote: text.DefaultOpeningQuote,
			ClosingQuote: text.DefaultClosingQuote,
		},
		Server: ServerConfig{
			Host:     "localhost",
			Port:     8080,
			Debounce: 300 * time.Millisecond,
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			TTL:       10 * time.Minute,
			Dir:       ".excerpt-cache",
			RedisAddr: "localhost:6379",
		},
		Feed: FeedConfig{
			Title:    "Posts",
			Language: "en",
			Limit:    20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a configuration file from configPath (YAML or TOML) and returns
// a Config with defaults applied first, file values overlaid on top, and
// EXCERPT_* environment variables over both. An empty configPath loads
// defaults and environment variables only.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if configPath != "" {
		// Determine format from extension.
		ext := strings.TrimPrefix(filepath.Ext(configPath), ".")
		switch ext {
		case "toml":
			v.SetConfigType("toml")
		default:
			v.SetConfigType("yaml")
		}
		v.SetConfigFile(configPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// envKeys are bound explicitly because AutomaticEnv only applies to keys
// viper already knows about, and a key missing from the config file is not.
var envKeys = []string{
	"preview.maxLength", "preview.minFitFactor", "preview.maxFitFactor",
	"preview.trimMarkEndOfWord", "preview.trimMarkAbrupt",
	"preview.minimizeGeneratedPostLinkBlockQuotes",
	"quote.maxLength", "quote.minFitFactor", "quote.maxFitFactor", "quote.trimPoint",
	"quote.markEndOfLine", "quote.markEndOfSentence", "quote.markEndOfWord", "quote.markAbrupt",
	"quote.lineBreakPenalty", "quote.skipPostQuoteBlocks",
	"text.openingQuote", "text.closingQuote", "text.skipPostQuoteBlocks",
	"text.skipGeneratedPostQuoteBlocks", "text.skipAttachments", "text.skipUntitledAttachments",
	"text.skipNonEmbeddedAttachments", "text.keepFullCodeBlocks", "text.stopOnNewLine", "text.softLimit",
	"server.host", "server.port", "server.watchDirs", "server.debounce",
	"cache.backend", "cache.ttl", "cache.dir", "cache.redisAddr",
	"feed.title", "feed.link", "feed.description", "feed.language", "feed.limit",
	"log.level", "log.format",
}

func bindEnv(v *viper.Viper) {
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
}

// Validate checks the Config for values the tool cannot work with.
func (c *Config) Validate() error {
	if c.Preview.MaxLength <= 0 {
		return fmt.Errorf("config: preview.maxLength must be positive (got %d)", c.Preview.MaxLength)
	}
	if err := checkFitFactors("preview", c.Preview.MinFitFactor, c.Preview.MaxFitFactor); err != nil {
		return err
	}
	if c.Quote.MaxLength <= 0 {
		return fmt.Errorf("config: quote.maxLength must be positive (got %d)", c.Quote.MaxLength)
	}
	if err := checkFitFactors("quote", c.Quote.MinFitFactor, c.Quote.MaxFitFactor); err != nil {
		return err
	}
	if _, err := quote.ParseTrimPoint(c.Quote.TrimPoint); err != nil {
		return fmt.Errorf("config: quote.trimPoint: %w", err)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	return nil
}

func checkFitFactors(section string, minFactor, maxFactor float64) error {
	if minFactor <= 0 || minFactor > 1 {
		return fmt.Errorf("config: %s.minFitFactor must be in (0, 1] (got %v)", section, minFactor)
	}
	if maxFactor < 1 {
		return fmt.Errorf("config: %s.maxFitFactor must be at least 1 (got %v)", section, maxFactor)
	}
	return nil
}

// WithOverrides applies CLI flag overrides to the config. Known keys are
// mapped to their corresponding struct fields. The modified config is returned
// for convenient chaining.
func (c *Config) WithOverrides(overrides map[string]any) *Config {
	for key, val := range overrides {
		switch key {
		case "maxLength":
			if n, ok := val.(int); ok {
				c.Preview.MaxLength = n
				c.Quote.MaxLength = n
			}
		case "minFitFactor":
			if f, ok := val.(float64); ok {
				c.Preview.MinFitFactor = f
				c.Quote.MinFitFactor = f
			}
		case "maxFitFactor":
			if f, ok := val.(float64); ok {
				c.Preview.MaxFitFactor = f
				c.Quote.MaxFitFactor = f
			}
		case "skipPostQuoteBlocks":
			if b, ok := val.(bool); ok {
				c.Quote.SkipPostQuoteBlocks = b
				c.Text.SkipPostQuoteBlocks = b
			}
		case "port":
			if n, ok := val.(int); ok {
				c.Server.Port = n
			}
		case "host":
			if s, ok := val.(string); ok {
				c.Server.Host = s
			}
		case "watchDirs":
			if dirs, ok := val.([]string); ok {
				c.Server.WatchDirs = dirs
			}
		case "cache":
			if s, ok := val.(string); ok {
				c.Cache.Backend = s
			}
		case "logLevel":
			if s, ok := val.(string); ok {
				c.Log.Level = s
			}
		case "logFormat":
			if s, ok := val.(string); ok {
				c.Log.Format = s
			}
		}
	}
	return c
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PreviewOptions returns the preview generator options.
func (c *Config) PreviewOptions() preview.Options {
	p := c.Preview
	return preview.Options{
		MaxLength:                            p.MaxLength,
		MinFitFactor:                         p.MinFitFactor,
		MaxFitFactor:                         p.MaxFitFactor,
		TrimMarkEndOfWord:                    preview.Mark(p.TrimMarkEndOfWord),
		TrimMarkAbrupt:                       preview.Mark(p.TrimMarkAbrupt),
		MinimizeGeneratedPostLinkBlockQuotes: p.MinimizeGeneratedPostLinkBlockQuotes,
	}
}

// QuoteOptions returns the quote generator options.
func (c *Config) QuoteOptions() quote.Options {
	q := c.Quote
	return quote.Options{
		MaxLength:             q.MaxLength,
		MinFitFactor:          q.MinFitFactor,
		MaxFitFactor:          q.MaxFitFactor,
		TrimPoint:             quote.TrimPoint(q.TrimPoint),
		TrimMarkEndOfLine:     q.MarkEndOfLine,
		TrimMarkEndOfSentence: q.MarkEndOfSentence,
		TrimMarkEndOfWord:     quote.Mark(q.MarkEndOfWord),
		TrimMarkAbrupt:        quote.Mark(q.MarkAbrupt),
		LineBreakPenalty:      q.LineBreakPenalty,
		SkipPostQuoteBlocks:   q.SkipPostQuoteBlocks,
		Messages:              c.messages(),
	}
}

// TextOptions returns the text renderer options.
func (c *Config) TextOptions() text.Options {
	t := c.Text
	return text.Options{
		SoftLimit:                    t.SoftLimit,
		Messages:                     c.messages(),
		SkipPostQuoteBlocks:          t.SkipPostQuoteBlocks,
		SkipGeneratedPostQuoteBlocks: t.SkipGeneratedPostQuoteBlocks,
		SkipAttachments:              t.SkipAttachments,
		SkipUntitledAttachments:      t.SkipUntitledAttachments,
		SkipNonEmbeddedAttachments:   t.SkipNonEmbeddedAttachments,
		KeepFullCodeBlocks:           t.KeepFullCodeBlocks,
		StopOnNewLine:                t.StopOnNewLine,
		OpeningQuote:                 t.OpeningQuote,
		ClosingQuote:                 t.ClosingQuote,
	}
}

// messages returns the label table, or nil when no label is configured.
func (c *Config) messages() *content.Messages {
	if c.Messages == (content.Messages{}) {
		return nil
	}
	m := c.Messages
	return &m
}
