package post

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Frontmatter delimiters.
var (
	yamlDelimiter = []byte("---")
	tomlDelimiter = []byte("+++")
)

// Date formats accepted in the "date" field.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02 15:04",
	time.RFC3339,
}

// splitFrontmatter separates a YAML (---) or TOML (+++) frontmatter from the
// body. Without an opening delimiter the metadata is nil and body is raw.
func splitFrontmatter(raw []byte) (meta map[string]any, body []byte, err error) {
	trimmed := bytes.TrimLeft(raw, " \t\n\r")

	var delimiter []byte
	switch {
	case bytes.HasPrefix(trimmed, yamlDelimiter):
		delimiter = yamlDelimiter
	case bytes.HasPrefix(trimmed, tomlDelimiter):
		delimiter = tomlDelimiter
	default:
		return nil, raw, nil
	}

	rest := trimmed[len(delimiter):]
	nl := bytes.IndexByte(rest, '\n')
	if nl == -1 {
		return nil, raw, nil
	}
	rest = rest[nl+1:]

	front, after, ok := bytes.Cut(rest, delimiter)
	if !ok {
		return nil, nil, fmt.Errorf("closing frontmatter delimiter %q not found", delimiter)
	}
	if nl = bytes.IndexByte(after, '\n'); nl != -1 {
		body = after[nl+1:]
	}

	meta = make(map[string]any)
	if len(bytes.TrimSpace(front)) == 0 {
		return meta, body, nil
	}
	if bytes.Equal(delimiter, yamlDelimiter) {
		err = yaml.Unmarshal(front, &meta)
	} else {
		err = toml.Unmarshal(front, &meta)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, body, nil
}

// parseDate accepts a string in one of dateFormats or a time.Time, which
// YAML and TOML decoders produce for unquoted dates.
func parseDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		for _, f := range dateFormats {
			if t, err := time.Parse(f, val); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unable to parse date string %q", val)
	}
	return time.Time{}, fmt.Errorf("unsupported date type %T", v)
}
