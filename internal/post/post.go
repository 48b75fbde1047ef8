// Package post loads posts from files. JSON files hold the canonical content
// shape; YAML and TOML files hold the same shape in their own syntax; Markdown
// files carry a frontmatter for the title and attachments and a body that is
// mapped onto the content tree.
package post

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aellingwood/excerpt/internal/content"
)

// ErrUnsupportedFormat is returned for files whose extension names no known
// post format.
var ErrUnsupportedFormat = errors.New("unsupported post format")

// Format is a post file format.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

// FormatOf returns the format of a file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Document is a post loaded from a file together with the file metadata
// used by feeds and the watcher.
type Document struct {
	Path string
	Slug string
	// Date comes from the "date" field when present, otherwise from the file
	// modification time.
	Date time.Time
	Post *content.Post
}

// Load reads the post stored at path.
func Load(path string) (*content.Post, error) {
	doc, err := Read(path)
	if err != nil {
		return nil, err
	}
	return doc.Post, nil
}

// Read reads the post stored at path along with its metadata.
func Read(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, meta, err := decode(raw, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	doc := &Document{Path: path, Slug: slugFromPath(path), Post: p}
	if v, ok := meta["date"]; ok {
		t, err := parseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid \"date\": %w", path, err)
		}
		doc.Date = t
	}
	if s, ok := meta["slug"].(string); ok && s != "" {
		doc.Slug = s
	}
	if doc.Date.IsZero() {
		if fi, err := os.Stat(path); err == nil {
			doc.Date = fi.ModTime()
		}
	}
	return doc, nil
}

// Decode parses raw post data in the given format.
func Decode(raw []byte, format Format) (*content.Post, error) {
	p, _, err := decode(raw, format)
	return p, err
}

// decode returns the post and the top-level fields it was built from.
// Standalone attachment links are expanded into attachment blocks.
func decode(raw []byte, format Format) (*content.Post, map[string]any, error) {
	p, meta, err := parse(raw, format)
	if err != nil {
		return nil, nil, err
	}
	return content.ExpandStandaloneAttachmentLinks(p), meta, nil
}

func parse(raw []byte, format Format) (*content.Post, map[string]any, error) {
	var meta map[string]any
	switch format {
	case FormatJSON:
		var p content.Post
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, nil, err
		}
		// Top-level metadata is optional; a post that is not an object has
		// already failed above.
		_ = json.Unmarshal(raw, &meta)
		return &p, meta, nil
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &meta); err != nil {
			return nil, nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(raw, &meta); err != nil {
			return nil, nil, fmt.Errorf("parsing TOML: %w", err)
		}
	case FormatMarkdown:
		return decodeMarkdown(raw)
	default:
		return nil, nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	p, err := fromMap(meta)
	return p, meta, err
}

// fromMap re-encodes a generic document into the canonical JSON shape and
// decodes that.
func fromMap(m map[string]any) (*content.Post, error) {
	post := map[string]any{}
	for _, k := range []string{"title", "content", "attachments"} {
		if v, ok := m[k]; ok {
			post[k] = v
		}
	}
	data, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("re-encoding post: %w", err)
	}
	var p content.Post
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
