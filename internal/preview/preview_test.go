package preview

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aellingwood/excerpt/internal/content"
)

func parsePost(t *testing.T, s string) *content.Post {
	t.Helper()
	var p content.Post
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		t.Fatalf("parsePost: %v", err)
	}
	return &p
}

// normalizeJSON decodes a content literal and encodes it back so that
// shorthand forms compare equal to generated output.
func normalizeJSON(t *testing.T, s string) string {
	t.Helper()
	var c content.Content
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		t.Fatalf("normalizeJSON(%s): %v", s, err)
	}
	return toJSON(t, c)
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	return string(b)
}

// strict returns options without fit factor slack.
func strict(maxLength int) Options {
	return Options{MaxLength: maxLength, MaxFitFactor: 1}
}

func withFitFactor(maxLength int, maxFitFactor float64) Options {
	return Options{MaxLength: maxLength, MaxFitFactor: maxFitFactor}
}

const longFirstParagraph = "The first sentence. Some text. More text. More text. More text. More text. More text. More text. More text. More text."

// ---------------------------------------------------------------------------
// Tests: Generate
// ---------------------------------------------------------------------------

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		post string
		opts Options
		// want is a content literal, or "" when no preview is needed.
		want string
	}{
		{
			name: "small post needs no preview",
			post: `{"content": [["Abc"], ["Def"]]}`,
			opts: Options{MaxLength: 100},
			want: "",
		},
		{
			name: "cuts anywhere when there is no boundary",
			post: `{"content": [["Thefirstsentence."]]}`,
			opts: Options{MaxLength: 10},
			want: `[["Thefirstse…", {"type": "read-more"}]]`,
		},
		{
			name: "cuts anywhere in a text block",
			post: `{"content": ["Thefirstsentence."]}`,
			opts: Options{MaxLength: 10},
			want: `[["Thefirstse…", {"type": "read-more"}]]`,
		},
		{
			name: "cuts after a word",
			post: `{"content": [["The firstsentence."]]}`,
			opts: Options{MaxLength: 5},
			want: `[["The …", {"type": "read-more"}]]`,
		},
		{
			name: "cuts at a period",
			post: `{"content": [["The first sentence. The second sentence."]]}`,
			opts: strict(24),
			want: `[["The first sentence.", {"type": "read-more"}]]`,
		},
		{
			name: "cuts at an exclamation mark",
			post: `{"content": [["The first sentence! The second sentence."]]}`,
			opts: strict(24),
			want: `[["The first sentence!", {"type": "read-more"}]]`,
		},
		{
			name: "cuts at a question mark",
			post: `{"content": [["The first sentence? The second sentence."]]}`,
			opts: strict(24),
			want: `[["The first sentence?", {"type": "read-more"}]]`,
		},
		{
			name: "trailing line breaks move read more to a block of its own",
			post: `{"content": [["Text.", "\n", "\n", "\n", "\n"]]}`,
			opts: strict(50),
			want: `[["Text."], {"type": "read-more"}]`,
		},
		{
			name: "cuts at a line break when the preview is long enough",
			post: `{"content": [["` + longFirstParagraph + `", "\n", "The second sentence is a longer one. More text. More text. More text. More text. More text. More text. More text. More text."]]}`,
			opts: strict(190),
			want: `[["` + longFirstParagraph + `"], {"type": "read-more"}]`,
		},
		{
			name: "cuts mid-line when the preview is too short",
			post: `{"content": [
				["The first paragraph with a long line of text. The first paragraph with a long line of text."],
				["The second paragraph is a longer one. Is a longer one."]
			]}`,
			opts: strict(200),
			want: `[
				["The first paragraph with a long line of text. The first paragraph with a long line of text."],
				["The second paragraph is a longer one.", {"type": "read-more"}]
			]`,
		},
		{
			name: "drops a paragraph when the preview is long enough",
			post: `{"content": [
				["` + longFirstParagraph + `"],
				["The second sentence is a longer one. Some text. More text. More text. More text. More text. More text. More text. More text."]
			]}`,
			opts: strict(190),
			want: `[["` + longFirstParagraph + `"], {"type": "read-more"}]`,
		},
		{
			name: "embedded attachment",
			post: `{
				"content": [
					{"type": "attachment", "attachmentId": 1},
					["The first paragraph."],
					["The second paragraph."]
				],
				"attachments": [{"id": 1, "type": "picture"}]
			}`,
			opts: strict(600),
			want: `[
				{"type": "attachment", "attachmentId": 1},
				["The first paragraph."],
				{"type": "read-more"}
			]`,
		},
		{
			name: "attachments do not count as text length",
			post: `{
				"content": [
					{"type": "attachment", "attachmentId": 1},
					["` + longFirstParagraph + `"]
				],
				"attachments": [{"id": 1, "type": "picture"}]
			}`,
			opts: strict(600),
			want: `[
				{"type": "attachment", "attachmentId": 1},
				["The first sentence. Some text. More text. More text.", {"type": "read-more"}]
			]`,
		},
		{
			name: "stops at an attachment that does not fit",
			post: `{
				"content": [
					{"type": "attachment", "attachmentId": 1},
					{"type": "attachment", "attachmentId": 2},
					{"type": "attachment", "attachmentId": 3},
					["The first sentence."]
				],
				"attachments": [
					{"id": 1, "type": "picture"},
					{"id": 2, "type": "video"},
					{"id": 3, "type": "picture"}
				]
			}`,
			opts: strict(1200),
			want: `[
				{"type": "attachment", "attachmentId": 1},
				{"type": "attachment", "attachmentId": 2},
				{"type": "read-more"}
			]`,
		},
		{
			name: "single oversized attachment is kept without read more",
			post: `{
				"content": [{"type": "attachment", "attachmentId": 1}],
				"attachments": [
					{"type": "picture", "picture": {"type": "image/jpeg", "width": 625, "height": 625, "url": "https://example.org/1.jpg"}},
					{
						"id": 1,
						"type": "social",
						"social": {
							"provider": "Twitter",
							"id": "1339809601932439552",
							"url": "https://twitter.com/example/status/1339809601932439552",
							"content": "The console version was pulled from the store over technical problems. Players complained that the frame rate drops below thirty in crowded scenes. Critics point out that by the same measure half of the catalogue would have to go, since most titles run just as poorly on that hardware at launch.",
							"date": "2020-12-17T21:00:00.000Z",
							"author": {"name": "Example", "id": "example", "url": "https://twitter.com/example"}
						}
					}
				]
			}`,
			opts: strict(500),
			want: `[{"type": "attachment", "attachmentId": 1}]`,
		},
		{
			name: "cuts inside a spoiler",
			post: `{"content": [["Text ", {"type": "spoiler", "content": "spoilerrr text"}, " text text text. Another text."]]}`,
			opts: strict(15),
			want: `[["Text ", {"type": "spoiler", "content": "spoilerrr …"}, {"type": "read-more"}]]`,
		},
		{
			name: "short lines are padded",
			post: `{"content": [["A1", "\n", "B2", "\n", "C3", "\n", "D4", "\n", "E5"]]}`,
			opts: withFitFactor(200, 1.2),
			want: `[["A1", "\n", "B2"], {"type": "read-more"}]`,
		},
		{
			name: "short paragraphs are padded",
			post: `{"content": [["A1"], ["B2"], ["C3"], ["D4"], ["E5"]]}`,
			opts: withFitFactor(100, 1.2),
			want: `[["A1"], {"type": "read-more"}]`,
		},
		{
			name: "long post link quote",
			post: `{"content": [[{
				"type": "post-link",
				"content": [{"type": "quote", "content": "Происхождение Александра Сергеевича Пушкина идёт от разветвлённого нетитулованного дворянского рода Пушкиных, восходившего по генеалогической легенде к «мужу честну» Ратше."}]
			}]]}`,
			opts: withFitFactor(100, 1.2),
			want: `[[{
				"type": "post-link",
				"content": [{"type": "quote", "content": "Происхождение Александра Сергеевича Пушкина идёт от разветвлённого нетитулованного дворянского рода …"}]
			}, {"type": "read-more"}]]`,
		},
		{
			name: "post link with several quotes",
			post: `{"content": [[{
				"type": "post-link",
				"content": [
					{"type": "quote", "content": "Происхождение Александра Сергеевича Пушкина идёт от разветвлённого нетитулованного дворянского рода Пушкиных, восходившего по генеалогической легенде к «мужу честну» Ратше."},
					{"type": "quote", "content": "Пушкин неоднократно писал о своей родословной в стихах и прозе; он видел в своих предках образец истинной «аристократии», древнего рода, честно служившего отечеству, но не снискавшего благосклонности правителей и «гонимого»."}
				]
			}]]}`,
			opts: withFitFactor(200, 1.2),
			want: `[[{
				"type": "post-link",
				"content": [{"type": "quote", "content": "Происхождение Александра Сергеевича Пушкина идёт от разветвлённого нетитулованного дворянского рода Пушкиных, восходившего по генеалогической легенде к «мужу честну» Ратше."}]
			}, {"type": "read-more"}]]`,
		},
		{
			name: "minimized generated post link quotes are not counted",
			post: `{"content": [[
				{"type": "post-link", "content": [{"type": "quote", "block": true, "generated": true, "content": "Происхождение Александра Сергеевича Пушкина идёт от разветвлённого нетитулованного дворянского рода Пушкиных, восходившего по генеалогической легенде к «мужу честну» Ратше."}]},
				"\n",
				{"type": "post-link", "content": [{"type": "quote", "block": true, "generated": true, "content": "Пушкин неоднократно писал о своей родословной в стихах и прозе; он видел в своих предках образец истинной «аристократии», древнего рода, честно служившего отечеству, но не снискавшего благосклонности правителей и «гонимого»."}]}
			]]}`,
			opts: Options{MaxLength: 200, MaxFitFactor: 1.2, MinimizeGeneratedPostLinkBlockQuotes: true},
			want: "",
		},
		{
			name: "paragraph-level cut adds read more as a block",
			post: `{"content": [
				[{"type": "text", "style": "bold", "content": "Попаданца рулетка"}],
				["Анон, ты попадаешь в опрелеленный год, определенное место и с определенными компаньонами. Все определяется роллом."],
				["1513371488xyz"],
				["х — ролл времени"],
				["1 — 1935"], ["2 — 1905"], ["3 — 1915"], ["4 — 1850"], ["5 — 1530"],
				["6 — 1700"], ["7 — 1900"], ["8 — 1337"], ["9 — 1870"], ["0 — 2007"]
			]}`,
			opts: withFitFactor(500, 1.2),
			want: `[
				[{"type": "text", "style": "bold", "content": "Попаданца рулетка"}],
				["Анон, ты попадаешь в опрелеленный год, определенное место и с определенными компаньонами. Все определяется роллом."],
				["1513371488xyz"],
				["х — ролл времени"],
				{"type": "read-more"}
			]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			got := g.Generate(parsePost(t, tt.post))
			if tt.want == "" {
				if got != nil {
					t.Errorf("Generate() = %s, want nil", toJSON(t, got))
				}
				return
			}
			if got == nil {
				t.Fatalf("Generate() = nil, want %s", normalizeJSON(t, tt.want))
			}
			if gotJSON, wantJSON := toJSON(t, got), normalizeJSON(t, tt.want); gotJSON != wantJSON {
				t.Errorf("Generate()\n got: %s\nwant: %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestGenerateFitFactorThreshold(t *testing.T) {
	const cut = `[["Some long enough sentence so that it surpasses the limit but still …", {"type": "read-more"}]]`

	tests := []struct {
		name         string
		text         string
		maxFitFactor float64
		want         string
	}{
		{
			name:         "no slack",
			text:         "Some long enough sentence so that it surpasses the limit but still fits within threshold.",
			maxFitFactor: 1,
			want:         cut,
		},
		{
			name:         "fits within fit factor",
			text:         "Some long enough sentence so that it surpasses the limit but still fits within threshold.",
			maxFitFactor: 1.3,
			want:         "",
		},
		{
			name:         "fits within doubled fit factor",
			text:         "Some long enough sentence so that it surpasses the limit but still fits within 2x threshold.",
			maxFitFactor: 1.2,
			want:         "",
		},
		{
			name:         "exceeds doubled fit factor",
			text:         "Some long enough sentence so that it surpasses the limit but still fits within threshold even with x2 fit factor.",
			maxFitFactor: 1.2,
			want:         cut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &content.Post{Content: content.Content{content.InlineContent{content.Text(tt.text)}}}
			got, err := Generate(post, withFitFactor(70, tt.maxFitFactor))
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			switch {
			case tt.want == "" && got != nil:
				t.Errorf("Generate() = %s, want nil", toJSON(t, got))
			case tt.want != "" && toJSON(t, got) != normalizeJSON(t, tt.want):
				t.Errorf("Generate()\n got: %s\nwant: %s", toJSON(t, got), normalizeJSON(t, tt.want))
			}
		})
	}
}

func TestGenerateFitFactorThresholdWithAttachment(t *testing.T) {
	// 900 + 60 + 200 points are accepted before the limit of 1000 is
	// passed; the remaining content is then checked against 1160 * 1.2.
	post := func(attachmentType string) *content.Post {
		return &content.Post{
			Content: content.Content{
				content.Text(strings.Repeat("a ", 450)),
				content.Text(strings.Repeat("b", 200)),
				&content.AttachmentBlock{AttachmentID: 1},
			},
			Attachments: []*content.Attachment{{ID: 1, Type: attachmentType}},
		}
	}

	t.Run("file fits within threshold", func(t *testing.T) {
		// 960 + 200 + 60 + 160 = 1380 <= 1392
		got, err := Generate(post(content.AttachmentFile), DefaultOptions(1000))
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if got != nil {
			t.Errorf("Generate() = %s, want nil", toJSON(t, got))
		}
	})

	t.Run("picture exceeds threshold", func(t *testing.T) {
		// 960 + 200 + 60 + 480 = 1700 > 1392
		got, err := Generate(post(content.AttachmentPicture), DefaultOptions(1000))
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if got == nil {
			t.Fatal("Generate() = nil, want a preview")
		}
		if _, ok := got[len(got)-1].(content.ReadMore); !ok {
			t.Errorf("expected the preview to end with a read-more marker, got %s", toJSON(t, got))
		}
	})
}

func TestGenerateTrimMarks(t *testing.T) {
	const text = "Some long enough sentence so that it surpasses the limit but still fits within threshold."
	post := &content.Post{Content: content.Content{content.InlineContent{content.Text(text)}}}

	tests := []struct {
		name    string
		mark    *string
		want    string
		wantNot string
	}{
		{name: "default", mark: nil, want: "still …"},
		{name: "custom", mark: Mark(" [...]"), want: "still  [...]"},
		{name: "turned off", mark: Mark(""), wantNot: "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := withFitFactor(70, 1)
			opts.TrimMarkEndOfWord = tt.mark
			got, err := Generate(post, opts)
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if got == nil {
				t.Fatal("Generate() = nil, want a preview")
			}
			js := toJSON(t, got)
			if tt.want != "" && !strings.Contains(js, tt.want) {
				t.Errorf("Generate() = %s, want it to contain %q", js, tt.want)
			}
			if tt.wantNot != "" && strings.Contains(js, tt.wantNot) {
				t.Errorf("Generate() = %s, want no %q", js, tt.wantNot)
			}
		})
	}
}

func TestGenerateDoesNotModifyPost(t *testing.T) {
	const src = `{"content": [["Text ", {"type": "spoiler", "content": "spoilerrr text"}, " text text text. Another text.", "\n", "\n"]]}`
	post := parsePost(t, src)
	before := toJSON(t, post)

	g, err := New(strict(15))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := g.Generate(post); got == nil {
		t.Fatal("Generate() = nil, want a preview")
	}
	if after := toJSON(t, post); after != before {
		t.Errorf("post modified\nbefore: %s\n after: %s", before, after)
	}
}

func TestGenerateEmpty(t *testing.T) {
	g, err := New(DefaultOptions(100))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := g.Generate(nil); got != nil {
		t.Errorf("Generate(nil) = %v, want nil", got)
	}
	if got := g.Generate(&content.Post{}); got != nil {
		t.Errorf("Generate(empty) = %v, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// Tests: Options
// ---------------------------------------------------------------------------

func TestNewDefaults(t *testing.T) {
	g, err := New(Options{MaxLength: 100})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got, want := g.Options(), DefaultOptions(100); got != want {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
}

func TestNewInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero max length", Options{}},
		{"negative max length", Options{MaxLength: -1}},
		{"min fit factor above one", Options{MaxLength: 10, MinFitFactor: 1.5}},
		{"max fit factor below one", Options{MaxLength: 10, MaxFitFactor: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("New() error = %v, want ErrInvalidOptions", err)
			}
		})
	}
}
