package content

import "testing"

// ---------------------------------------------------------------------------
// Tests: TrimInlineContentOnSide
// ---------------------------------------------------------------------------

func TestTrimInlineContentOnSide(t *testing.T) {
	input := InlineContent{NewLine, Text(" "), Text(" Abc "), Text(" "), NewLine}

	right, trimmed := TrimInlineContentOnSide(input, Right)
	if got, want := toJSON(t, right), `["\n"," "," Abc"]`; got != want {
		t.Errorf("Right: got %s, want %s", got, want)
	}
	if !trimmed {
		t.Error("Right: trimmed = false, want true")
	}

	left, _ := TrimInlineContentOnSide(input, Left)
	if got, want := toJSON(t, left), `["Abc "," ","\n"]`; got != want {
		t.Errorf("Left: got %s, want %s", got, want)
	}

	if got, want := toJSON(t, TrimInlineContent(input)), `["Abc"]`; got != want {
		t.Errorf("both: got %s, want %s", got, want)
	}

	if got, want := toJSON(t, input), `["\n"," "," Abc "," ","\n"]`; got != want {
		t.Errorf("input modified: %s", got)
	}
}

func TestTrimInlineContentOnSide_NothingToTrim(t *testing.T) {
	_, trimmed := TrimInlineContentOnSide(InlineContent{Text("Abc")}, Right)
	if trimmed {
		t.Error("trimmed = true, want false")
	}
}

func TestTrimInlineContentOnSide_StopsAtEmoji(t *testing.T) {
	input := InlineContent{Text("a"), &Emoji{Name: "x"}, NewLine}
	got, _ := TrimInlineContentOnSide(input, Right)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if _, ok := got[1].(*Emoji); !ok {
		t.Errorf("last part: got %T, want *Emoji", got[1])
	}
}

// ---------------------------------------------------------------------------
// Tests: TrimContent
// ---------------------------------------------------------------------------

func TestTrimContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "new lines",
			input: `[["\n", "\n", "\n", "abc", "\n", "\n", "\n"]]`,
			want:  `[["abc"]]`,
		},
		{
			name:  "new lines and whitespace",
			input: `[["\n", " ", "\n", "   ", "\n", " abc ", "\n", "\t", "\n", "\n"]]`,
			want:  `[["abc"]]`,
		},
		{
			name: "nested blocks",
			input: `[["\n", {"type": "text", "style": "bold", "content": [
				"\n", "\n",
				{"type": "text", "style": "italic", "content": ["\n", "abc", "\n", "\n", "def", "\n"]},
				"\n"
			]}, "\n", "\n"]]`,
			want: `[[{"type":"text","style":"bold","content":[{"type":"text","style":"italic","content":["abc","\n","\n","def"]}]}]]`,
		},
		{
			name: "nested blocks with trailing content",
			input: `[["\n", {"type": "text", "style": "bold", "content": [
				"\n", "\n",
				{"type": "text", "style": "italic", "content": ["\n", "abc", "\n", "\n", "def", "\n"]},
				"\n"
			]}, "\n", "ghi", "\n"]]`,
			want: `[[{"type":"text","style":"bold","content":[{"type":"text","style":"italic","content":["abc","\n","\n","def","\n"]},"\n"]},"\n","ghi"]]`,
		},
		{
			name:  "empty paragraph dropped",
			input: `[["\n", " "], ["abc"]]`,
			want:  `[["abc"]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimContent(parseContent(t, tt.input))
			if s := toJSON(t, got); s != tt.want {
				t.Errorf("TrimContent =\n%s\nwant\n%s", s, tt.want)
			}
		})
	}
}
