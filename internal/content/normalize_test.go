package content

import (
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// Tests: CombineQuotes
// ---------------------------------------------------------------------------

func TestCombineQuotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "string content",
			input: `"Abc"`,
			want:  `["Abc"]`,
		},
		{
			name:  "quote not starting a line",
			input: `[["123", {"type": "quote", "content": "abc"}, "\n", {"type": "quote", "content": "def"}]]`,
			want:  `[["123",{"type":"quote","content":["abc"]},"\n",{"type":"quote","content":["def"]}]]`,
		},
		{
			name:  "start of paragraph",
			input: `[[{"type": "quote", "content": "abc"}, "\n", {"type": "quote", "content": "def"}]]`,
			want:  `[[{"type":"quote","content":["abc","\n","def"]}]]`,
		},
		{
			name:  "starting on a new line",
			input: `[["123", "\n", {"type": "quote", "content": "abc"}, "\n", {"type": "quote", "content": "def"}, "\n", "456"]]`,
			want:  `[["123","\n",{"type":"quote","content":["abc","\n","def"]},"\n","456"]]`,
		},
		{
			name: "nested content",
			input: `[[
				{"type": "quote", "content": [{"type": "text", "style": "bold", "content": "abc"}]},
				"\n",
				{"type": "quote", "content": [{"type": "text", "style": "italic", "content": "def"}]}
			]]`,
			want: `[[{"type":"quote","content":[{"type":"text","style":"bold","content":["abc"]},"\n",{"type":"text","style":"italic","content":["def"]}]}]]`,
		},
		{
			name:  "not separated by a line break",
			input: `[[{"type": "quote", "content": "abc"}, {"type": "quote", "content": "def"}]]`,
			want:  `[[{"type":"quote","content":["abc"]},{"type":"quote","content":["def"]}]]`,
		},
		{
			name:  "different kinds",
			input: `[[{"type": "quote", "content": "abc"}, "\n", {"type": "quote", "content": "def", "kind": "inverse"}]]`,
			want:  `[[{"type":"quote","content":["abc"]},"\n",{"type":"quote","content":["def"],"kind":"inverse"}]]`,
		},
		{
			name: "more than two quotes",
			input: `[["123", "\n",
				{"type": "quote", "content": "abc"}, "\n",
				{"type": "quote", "content": "def"}, "\n",
				{"type": "quote", "content": "ghi"}, "\n",
				"456"]]`,
			want: `[["123","\n",{"type":"quote","content":["abc","\n","def","\n","ghi"]},"\n","456"]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := parseContent(t, tt.input)
			before := toJSON(t, input)
			got := CombineQuotes(input)
			if s := toJSON(t, got); s != tt.want {
				t.Errorf("CombineQuotes =\n%s\nwant\n%s", s, tt.want)
			}
			if after := toJSON(t, input); after != before {
				t.Errorf("input modified:\n%s\nwas\n%s", after, before)
			}
		})
	}
}

func TestCombineQuotes_Empty(t *testing.T) {
	if got := CombineQuotes(nil); got != nil {
		t.Errorf("nil: got %#v", got)
	}
	if got := CombineQuotes(Content{}); len(got) != 0 {
		t.Errorf("empty: got %#v", got)
	}
}

// ---------------------------------------------------------------------------
// Tests: SplitBlocksByLineBreaks
// ---------------------------------------------------------------------------

func TestSplitBlocksByLineBreaks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no split",
			input: `[["abc", "def"]]`,
			want:  `[["abc","def"]]`,
		},
		{
			name:  "many line breaks",
			input: `[["abc", "\n", "\n", "\n", "\n", "\n", "\n", "\n", "\n", "\n", "def"]]`,
			want:  `[["abc"],["def"]]`,
		},
		{
			name:  "empty paragraphs removed",
			input: `[["Abc.\n", "\n", "\n", "\n", "\nDef.\n", "\n", "\n", "\n", "\n"]]`,
			want:  `[["Abc.\n"],["\nDef.\n"]]`,
		},
		{
			name:  "trailing line breaks",
			input: `[["abc", "\n", "\n"]]`,
			want:  `[["abc"]]`,
		},
		{
			name:  "leading line breaks",
			input: `[["\n", "\n", "abc"]]`,
			want:  `[["abc"]]`,
		},
		{
			name:  "several leading line breaks",
			input: `[["\n", "\n", "\n", "abc"]]`,
			want:  `[["abc"]]`,
		},
		{
			name:  "single leading line break kept",
			input: `[["\n", "abc"]]`,
			want:  `[["\n","abc"]]`,
		},
		{
			name:  "line breaks separated by spaces",
			input: `[["abc", "\n", " ", " ", "\n", "def"]]`,
			want:  `[["abc"],["def"]]`,
		},
		{
			name: "nested blocks",
			input: `[["abc", {"type": "text", "style": "bold", "content": [
				"def",
				{"type": "text", "style": "italic", "content": ["ghi", "\n", "\n", "\n", "jkl"]},
				{"type": "text", "style": "italic", "content": ["mno"]}
			]}, "pqr"]]`,
			want: `[` +
				`["abc",{"type":"text","style":"bold","content":["def",{"type":"text","style":"italic","content":["ghi"]}]}],` +
				`[{"type":"text","style":"bold","content":[{"type":"text","style":"italic","content":["jkl"]},{"type":"text","style":"italic","content":["mno"]}]},"pqr"]` +
				`]`,
		},
		{
			name:  "only line breaks",
			input: `[["\n", "\n"]]`,
			want:  `[["\n","\n"]]`,
		},
		{
			name:  "non-paragraph blocks kept",
			input: `[{"type": "heading", "content": "Title"}, ["a", "\n", "\n", "b"]]`,
			want:  `[{"type":"heading","content":["Title"]},["a"],["b"]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitBlocksByLineBreaks(parseContent(t, tt.input))
			if s := toJSON(t, got); s != tt.want {
				t.Errorf("SplitBlocksByLineBreaks =\n%s\nwant\n%s", s, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Tests: attachment ordering
// ---------------------------------------------------------------------------

func TestNonEmbeddedAttachments(t *testing.T) {
	a1 := &Attachment{ID: 1, Type: AttachmentPicture, Picture: &Picture{}}
	a2 := &Attachment{ID: 2, Type: AttachmentAudio, Audio: &Audio{}}

	post := &Post{
		Content:     Content{&AttachmentBlock{AttachmentID: 1}},
		Attachments: []*Attachment{a1, a2},
	}
	if got := NonEmbeddedAttachments(post); !reflect.DeepEqual(got, []*Attachment{a2}) {
		t.Errorf("got %v, want [a2]", got)
	}

	post.Content = Content{Text("No embeds")}
	if got := NonEmbeddedAttachments(post); len(got) != 2 {
		t.Errorf("got %d attachments, want 2", len(got))
	}
}

func TestSortedAttachments(t *testing.T) {
	embedded := &Attachment{ID: 1, Type: AttachmentFile, File: &File{Name: "a"}}
	audio := &Attachment{ID: 2, Type: AttachmentAudio, Audio: &Audio{}}
	small := &Attachment{ID: 3, Type: AttachmentPicture, Picture: &Picture{Height: 100}}
	social := &Attachment{ID: 4, Type: AttachmentSocial, Social: &Social{Provider: "Twitter"}}
	tall := &Attachment{ID: 5, Type: AttachmentVideo, Video: &Video{Picture: &Picture{Height: 720}}}
	file := &Attachment{ID: 6, Type: AttachmentFile, File: &File{Name: "b"}}

	post := &Post{
		Content:     Content{Text("a"), &AttachmentBlock{AttachmentID: 1}},
		Attachments: []*Attachment{embedded, audio, small, social, tall, file},
	}

	got := SortedAttachments(post)
	want := []*Attachment{embedded, tall, small, audio, file, social}
	if !reflect.DeepEqual(got, want) {
		ids := make([]int, len(got))
		for i, a := range got {
			ids[i] = a.ID
		}
		t.Errorf("SortedAttachments ids = %v, want [1 5 3 2 6 4]", ids)
	}
}

// ---------------------------------------------------------------------------
// Tests: ExpandStandaloneAttachmentLinks
// ---------------------------------------------------------------------------

func TestExpandStandaloneAttachmentLinks(t *testing.T) {
	picture := &Link{URL: "https://example.com/a.png", Attachment: &Attachment{Type: AttachmentPicture, Picture: &Picture{URL: "https://example.com/a.png"}}}
	video := &Link{URL: "https://youtu.be/x", Attachment: &Attachment{Type: AttachmentVideo, Video: &Video{}}}
	post := &Post{
		Content: Content{
			InlineContent{Text("Before"), NewLine, NewLine, picture, NewLine, Text("After"), NewLine, video},
			Text("Plain"),
		},
		Attachments: []*Attachment{{ID: 3, Type: AttachmentFile}},
	}
	before := toJSON(t, post)

	got := ExpandStandaloneAttachmentLinks(post)

	if len(got.Content) != 5 {
		t.Fatalf("expected 5 blocks, got %s", toJSON(t, got.Content))
	}
	if s := toJSON(t, got.Content[0]); s != `["Before"]` {
		t.Errorf("block 0 = %s, want the text before the link", s)
	}
	if ab, ok := got.Content[1].(*AttachmentBlock); !ok || ab.AttachmentID != 4 {
		t.Errorf("block 1 = %s, want attachment 4", toJSON(t, got.Content[1]))
	}
	if s := toJSON(t, got.Content[2]); s != `["After"]` {
		t.Errorf("block 2 = %s, want the text after the link", s)
	}
	if ab, ok := got.Content[3].(*AttachmentBlock); !ok || ab.AttachmentID != 5 {
		t.Errorf("block 3 = %s, want attachment 5", toJSON(t, got.Content[3]))
	}
	if got.Content[4] != Block(Text("Plain")) {
		t.Errorf("block 4 = %s, want the untouched text block", toJSON(t, got.Content[4]))
	}

	if len(got.Attachments) != 3 {
		t.Fatalf("expected 3 attachments, got %d", len(got.Attachments))
	}
	if a := got.Attachments[1]; a.ID != 4 || a.Type != AttachmentPicture {
		t.Errorf("attachment 1 = %+v, want picture 4", a)
	}
	if a := got.Attachments[2]; a.ID != 5 || a.Type != AttachmentVideo {
		t.Errorf("attachment 2 = %+v, want video 5", a)
	}
	if picture.Attachment.ID != 0 {
		t.Error("link attachment was modified")
	}
	if after := toJSON(t, post); after != before {
		t.Errorf("post modified\nbefore: %s\n after: %s", before, after)
	}
}

func TestExpandStandaloneAttachmentLinks_NotExpanded(t *testing.T) {
	tests := []struct {
		name string
		link *Link
		ic   func(l *Link) InlineContent
	}{
		{
			name: "text on the same line",
			link: &Link{URL: "https://example.com/a.png", Attachment: &Attachment{Type: AttachmentPicture}},
			ic:   func(l *Link) InlineContent { return InlineContent{Text("See "), l} },
		},
		{
			name: "file attachment",
			link: &Link{URL: "https://example.com/a.pdf", Attachment: &Attachment{Type: AttachmentFile}},
			ic:   func(l *Link) InlineContent { return InlineContent{l} },
		},
		{
			name: "social post from another provider",
			link: &Link{URL: "https://example.com/p/1", Attachment: &Attachment{Type: AttachmentSocial, Social: &Social{Provider: "Mastodon"}}},
			ic:   func(l *Link) InlineContent { return InlineContent{l} },
		},
		{
			name: "plain link",
			link: &Link{URL: "https://example.com"},
			ic:   func(l *Link) InlineContent { return InlineContent{l} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &Post{Content: Content{tt.ic(tt.link)}}
			got := ExpandStandaloneAttachmentLinks(post)
			if toJSON(t, got) != toJSON(t, post) {
				t.Errorf("expected no change, got %s", toJSON(t, got))
			}
		})
	}
}

func TestExpandStandaloneAttachmentLinks_Tweet(t *testing.T) {
	tweet := &Link{URL: "https://twitter.com/a/status/1", Attachment: &Attachment{Type: AttachmentSocial, Social: &Social{Provider: "Twitter"}}}
	got := ExpandStandaloneAttachmentLinks(&Post{Content: Content{InlineContent{tweet}}})
	if len(got.Content) != 1 {
		t.Fatalf("expected a single block, got %s", toJSON(t, got.Content))
	}
	if ab, ok := got.Content[0].(*AttachmentBlock); !ok || ab.AttachmentID != 1 {
		t.Errorf("got %s, want attachment 1", toJSON(t, got.Content[0]))
	}
}

func TestExpandStandaloneAttachmentLinks_Nil(t *testing.T) {
	if got := ExpandStandaloneAttachmentLinks(nil); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}
