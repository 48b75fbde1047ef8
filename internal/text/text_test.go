package text

import (
	"encoding/json"
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

var testMessages = &content.Messages{
	TextContent: content.TextContentMessages{
		Block: content.BlockMessages{
			Picture: "Picture",
			Video:   "Video",
		},
	},
}

const embeddedAttachmentsContent = `"content": [
	["Abc"],
	{"type": "attachment", "attachmentId": 1},
	["Def"],
	{"type": "attachment", "attachmentId": 2},
	["Ghi"]
]`

// ---------------------------------------------------------------------------
// Tests: GetPostText
// ---------------------------------------------------------------------------

func TestGetPostText(t *testing.T) {
	tests := []struct {
		name string
		post string
		opts Options
		want string
	}{
		{
			name: "string content",
			post: `{"content": "Abc"}`,
			want: "Abc",
		},
		{
			name: "string block",
			post: `{"content": ["Abc"]}`,
			want: "Abc",
		},
		{
			name: "paragraph",
			post: `{"content": [["Abc"]]}`,
			want: "Abc",
		},
		{
			name: "two blocks",
			post: `{"content": ["Abc", "Def"]}`,
			want: "Abc\n\nDef",
		},
		{
			name: "parts of one paragraph",
			post: `{"content": [["Abc", "Def"]]}`,
			want: "AbcDef",
		},
		{
			name: "line break",
			post: `{"content": [["Abc", "\n", "Def"]]}`,
			want: "Abc\nDef",
		},
		{
			name: "trims whitespace",
			post: `{"content": [["Embrace the 2d edition", "\n", "\n", "Other genres fit here too.", "\n"]]}`,
			want: "Embrace the 2d edition\n\nOther genres fit here too.",
		},
		{
			name: "post links",
			post: `{"content": [[
				{"type": "post-link", "content": [
					{"type": "quote", "content": "Quote 1"},
					"\n",
					{"type": "quote", "content": "Quote 2"}
				]},
				"\n",
				"Abc"
			]]}`,
			want: "«Quote 1»\n«Quote 2»\nAbc",
		},
		{
			name: "generated inline quote kept",
			post: `{"content": [[{"type": "post-link", "content": [{"type": "quote", "content": "Quote", "generated": true}]}, "\n", "Abc"]]}`,
			opts: Options{SkipGeneratedPostQuoteBlocks: true},
			want: "«Quote»\nAbc",
		},
		{
			name: "generated block quote skipped",
			post: `{"content": [[{"type": "post-link", "content": [{"type": "quote", "content": "Quote", "generated": true, "block": true}]}, "\n", "Abc"]]}`,
			opts: Options{SkipGeneratedPostQuoteBlocks: true},
			want: "Abc",
		},
		{
			name: "authored block quote kept",
			post: `{"content": [[{"type": "post-link", "content": [{"type": "quote", "content": "Quote", "block": true}]}, "\n", "Abc"]]}`,
			opts: Options{SkipGeneratedPostQuoteBlocks: true},
			want: "«Quote»\nAbc",
		},
		{
			name: "block quotes skipped",
			post: `{"content": [["Abc", "\n", {"type": "post-link", "content": [{"type": "quote", "content": "Quote", "block": true}]}, "\n", "Def"]]}`,
			opts: Options{SkipPostQuoteBlocks: true},
			want: "Abc\nDef",
		},
		{
			name: "standalone post link without a quote",
			post: `{"content": [["Abc", "\n", {"type": "post-link", "content": "Deleted post"}, "\n", "Def"]]}`,
			want: "Abc\nDef",
		},
		{
			name: "quote",
			post: `{"content": [[{"type": "quote", "content": "Quote"}, "\n", "Abc"]]}`,
			want: "«Quote»\nAbc",
		},
		{
			name: "quote with source",
			post: `{"content": [[{"type": "quote", "content": "Quote", "source": "Me"}]]}`,
			want: "«Quote» — Me",
		},
		{
			name: "custom quote characters",
			post: `{"content": [[{"type": "quote", "content": "Quote"}]]}`,
			opts: Options{OpeningQuote: "\"", ClosingQuote: "\""},
			want: `"Quote"`,
		},
		{
			name: "nested blocks",
			post: `{"content": [[
				{"type": "text", "style": "bold", "content": [
					{"type": "link", "url": "https://google.com", "content": "Google"},
					" ",
					{"type": "text", "style": "italic", "content": "link"}
				]},
				"\n",
				"Abc"
			]]}`,
			want: "Google link\nAbc",
		},
		{
			name: "nested blocks in a quote",
			post: `{"content": [[
				{"type": "quote", "content": [
					{"type": "link", "url": "https://google.com", "content": "Google"},
					" ",
					{"type": "text", "style": "italic", "content": "link"}
				]},
				"\n",
				"Abc"
			]]}`,
			want: "«Google link»\nAbc",
		},
		{
			name: "spoiler",
			post: `{"content": [["Abc", {"type": "spoiler", "censored": true, "content": "cock"}, "Def"]]}`,
			want: "Abc░\u200b░\u200b░\u200b░\u200bDef",
		},
		{
			name: "emoji",
			post: `{"content": [["Hi ", {"type": "emoji", "name": "wave", "url": "/wave.png"}]]}`,
			want: "Hi :wave:",
		},
		{
			name: "heading and list",
			post: `{"content": [{"type": "heading", "content": "Title"}, {"type": "list", "items": ["A", "B"]}]}`,
			want: "Title\n\nA\nB",
		},
		{
			name: "embedded untitled attachments without messages",
			post: `{` + embeddedAttachmentsContent + `, "attachments": [{"id": 1, "type": "video", "video": {}}, {"id": 2, "type": "picture", "picture": {}}]}`,
			want: "Abc\n\nDef\n\nGhi",
		},
		{
			name: "embedded untitled attachments with messages",
			post: `{` + embeddedAttachmentsContent + `, "attachments": [{"id": 1, "type": "video", "video": {}}, {"id": 2, "type": "picture", "picture": {}}]}`,
			opts: Options{Messages: testMessages},
			want: "Abc\n\nVideo\n\nDef\n\nPicture\n\nGhi",
		},
		{
			name: "embedded titled attachments",
			post: `{` + embeddedAttachmentsContent + `, "attachments": [{"id": 1, "type": "video", "video": {"title": "Video Title"}}, {"id": 2, "type": "picture", "picture": {"title": "Picture Title"}}]}`,
			opts: Options{Messages: testMessages},
			want: "Abc\n\n«Video Title»\n\nDef\n\n«Picture Title»\n\nGhi",
		},
		{
			name: "embedded attachments not found",
			post: `{"content": [["Abc"], {"type": "attachment", "attachmentId": 3}, ["Def"]], "attachments": [{"id": 1, "type": "video", "video": {}}]}`,
			opts: Options{Messages: testMessages},
			want: "Abc\n\nDef",
		},
		{
			name: "embedded attachments skipped",
			post: `{` + embeddedAttachmentsContent + `, "attachments": [{"id": 1, "type": "video", "video": {"title": "Video Title"}}, {"id": 2, "type": "picture", "picture": {"title": "Picture Title"}}]}`,
			opts: Options{Messages: testMessages, SkipAttachments: true},
			want: "Abc\n\nDef\n\nGhi",
		},
		{
			name: "untitled attachments skipped",
			post: `{` + embeddedAttachmentsContent + `, "attachments": [{"id": 1, "type": "video", "video": {}}, {"id": 2, "type": "picture", "picture": {"title": "Picture Title"}}]}`,
			opts: Options{Messages: testMessages, SkipUntitledAttachments: true},
			want: "Abc\n\nDef\n\n«Picture Title»\n\nGhi",
		},
		{
			name: "only embedded titled attachments",
			post: `{"content": [{"type": "attachment", "attachmentId": 1}, {"type": "attachment", "attachmentId": 2}], "attachments": [{"id": 1, "type": "video", "video": {"title": "Video Title"}}, {"id": 2, "type": "picture", "picture": {"title": "Picture Title"}}]}`,
			opts: Options{Messages: testMessages},
			want: "«Video Title»\n\n«Picture Title»",
		},
		{
			name: "only embedded untitled attachments",
			post: `{"content": [{"type": "attachment", "attachmentId": 1}, {"type": "attachment", "attachmentId": 2}], "attachments": [{"id": 1, "type": "video", "video": {}}, {"id": 2, "type": "picture", "picture": {}}]}`,
			opts: Options{Messages: testMessages},
			want: "Video\n\nPicture",
		},
		{
			name: "social attachment",
			post: `{"content": [["Abc"], {"type": "attachment", "attachmentId": 1}], "attachments": [{
				"id": 1,
				"type": "social",
				"social": {
					"provider": "Instagram",
					"content": "My favorite cat from tonight's episode- a true winner. #newgirl",
					"url": "https://www.instagram.com/p/V8UMy0LjpX/",
					"author": {"name": "Zooey Deschanel", "id": "zooeydeschanel"},
					"date": "2013-02-20T06:17:14Z",
					"attachments": [{"type": "picture", "picture": {"type": "image/jpeg", "width": 612, "height": 612}}]
				}
			}]}`,
			opts: Options{Messages: testMessages},
			want: "Abc\n\nZooey Deschanel (@zooeydeschanel): «My favorite cat from tonight's episode- a true winner. #newgirl»",
		},
		{
			name: "code block shortened",
			post: `{"content": [[{"type": "code", "content": "console.log(\"first line\")\nconsole.log(\"second line\")"}]]}`,
			want: `console.log("first line")`,
		},
		{
			name: "single-line code block",
			post: `{"content": [[{"type": "code", "content": "console.log(\"first line\")"}]]}`,
			want: `console.log("first line")`,
		},
		{
			name: "full code block",
			post: `{"content": [{"type": "code", "content": "a\nb"}]}`,
			opts: Options{KeepFullCodeBlocks: true},
			want: "a\nb",
		},
		{
			name: "stop on new line",
			post: `{"content": [["Abc", "\n", "Def"]]}`,
			opts: Options{StopOnNewLine: true},
			want: "Abc",
		},
		{
			name: "stop on new paragraph",
			post: `{"content": [["Abc"], ["Def"]]}`,
			opts: Options{StopOnNewLine: true},
			want: "Abc",
		},
		{
			name: "generated link to domain",
			post: `{"content": [[{"type": "link", "url": "https://www.google.com/ru/maps?x=y", "contentGenerated": true, "content": "google.com/ru/maps?x=y"}]]}`,
			opts: Options{Messages: &content.Messages{TextContent: content.TextContentMessages{
				Inline: content.InlineMessages{LinkTo: "Link to {0}"},
			}}},
			want: "(link to google.com)",
		},
		{
			name: "generated link without messages",
			post: `{"content": [[{"type": "link", "url": "https://www.google.com/maps/", "contentGenerated": true, "content": "maps"}]]}`,
			want: "google.com/maps",
		},
		{
			name: "authored link",
			post: `{"content": [[{"type": "link", "url": "https://www.google.com/ru/maps?x=y", "content": "Abc"}]]}`,
			opts: Options{Messages: &content.Messages{TextContent: content.TextContentMessages{
				Inline: content.InlineMessages{LinkTo: "link to {0}"},
			}}},
			want: "Abc",
		},
		{
			name: "soft limit across blocks",
			post: `{"content": [["Abc def"], ["Ghi"]]}`,
			opts: Options{SoftLimit: 5},
			want: "Abc def",
		},
		{
			name: "soft limit within a paragraph",
			post: `{"content": [["Abc", " def", " ghi"]]}`,
			opts: Options{SoftLimit: 4},
			want: "Abc def",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetPostText(parsePost(t, tt.post), tt.opts)
			if got != tt.want {
				t.Errorf("GetPostText:\ngot  %q\nwant %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Tests: attachment fallback
// ---------------------------------------------------------------------------

const nonEmbeddedPost = `{"attachments": [
	{"id": 1, "type": "video", "video": {"title": "Video Title"}},
	{"id": 2, "type": "picture", "picture": {"title": "Picture Title"}}
]}`

func TestGetPostText_NonEmbeddedAttachmentsSkipped(t *testing.T) {
	got := GetPostText(parsePost(t, nonEmbeddedPost), Options{
		Messages:                   testMessages,
		SkipNonEmbeddedAttachments: true,
	})
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestGetPostText_FallsBackToAttachmentTitle(t *testing.T) {
	got := GetPostText(parsePost(t, nonEmbeddedPost), Options{Messages: testMessages})
	if got != "«Video Title»" {
		t.Errorf("got %q, want %q", got, "«Video Title»")
	}
}

func TestGetPostText_FallsBackToAttachmentLabel(t *testing.T) {
	post := parsePost(t, `{"attachments": [{"id": 1, "type": "audio", "audio": {}}, {"id": 2, "type": "picture", "picture": {}}]}`)

	var labelled []int
	got := GetPostText(post, Options{
		Messages:     testMessages,
		OnAttachment: func(a *content.Attachment) { labelled = append(labelled, a.ID) },
	})
	if got != "Picture" {
		t.Errorf("got %q, want %q", got, "Picture")
	}
	if len(labelled) != 1 || labelled[0] != 2 {
		t.Errorf("OnAttachment ids = %v, want [2]", labelled)
	}

	if got := GetPostText(post, Options{}); got != "" {
		t.Errorf("without messages: got %q, want empty", got)
	}
	if got := GetPostText(post, Options{Messages: testMessages, SkipUntitledAttachments: true}); got != "" {
		t.Errorf("untitled skipped: got %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// Tests: hooks
// ---------------------------------------------------------------------------

func TestGetPostText_OnPostLink(t *testing.T) {
	post := parsePost(t, `{"content": [[
		{"type": "post-link", "url": "/1", "content": [{"type": "quote", "content": "Block", "block": true}]},
		"\n",
		"Abc ",
		{"type": "post-link", "url": "/2", "content": [{"type": "quote", "content": "Inline"}]}
	]]}`)

	var urls []string
	got := GetPostText(post, Options{
		SkipPostQuoteBlocks: true,
		OnPostLink:          func(pl *content.PostLink) { urls = append(urls, pl.URL) },
	})
	if got != "Abc «Inline»" {
		t.Errorf("got %q, want %q", got, "Abc «Inline»")
	}
	if len(urls) != 1 || urls[0] != "/2" {
		t.Errorf("OnPostLink urls = %v, want [/2]", urls)
	}
}

func TestGetPostText_LinkTitle(t *testing.T) {
	post := parsePost(t, `{"content": [[{"type": "link", "url": "https://youtu.be/x", "contentGenerated": true, "content": "youtu.be/x"}]]}`)
	got := GetPostText(post, Options{
		LinkTitle: func(url string) string {
			if url == "https://youtu.be/x" {
				return "Some video"
			}
			return ""
		},
	})
	if got != "Some video" {
		t.Errorf("got %q, want %q", got, "Some video")
	}
}

func TestInlineText(t *testing.T) {
	tests := []struct {
		in   content.InlineContent
		want string
	}{
		{content.InlineContent{content.Text("Abc")}, "Abc"},
		{content.InlineContent{content.Text("Abc"), content.Text("Def")}, "AbcDef"},
		{content.InlineContent{content.Text("Abc"), content.NewLine, content.Text("Def")}, "Abc\nDef"},
	}
	for _, tt := range tests {
		if got := InlineText(tt.in, Options{}); got != tt.want {
			t.Errorf("InlineText = %q, want %q", got, tt.want)
		}
	}
}
