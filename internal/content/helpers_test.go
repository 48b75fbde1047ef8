package content

import (
	"encoding/json"
	"testing"
)

// parseContent decodes a JSON content literal, failing the test on error.
func parseContent(t *testing.T, s string) Content {
	t.Helper()
	var c Content
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		t.Fatalf("parseContent(%s): %v", s, err)
	}
	return c
}

// parseInline decodes a JSON inline content literal, failing the test on error.
func parseInline(t *testing.T, s string) InlineContent {
	t.Helper()
	var ic InlineContent
	if err := json.Unmarshal([]byte(s), &ic); err != nil {
		t.Fatalf("parseInline(%s): %v", s, err)
	}
	return ic
}

// toJSON encodes v for comparison in assertions.
func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	return string(b)
}
