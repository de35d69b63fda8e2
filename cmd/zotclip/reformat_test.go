package main

import (
	"bytes"
	"strings"
	"testing"

	"go.klb.dev/zotclip/internal/citation"
)

const (
	testCitation = `"loss-free balance routing" ([Team et al., 2025, p. 2](zotero://select/library/items/UVG6GBGT)) ([pdf](zotero://open-pdf/library/items/NUG9I57I?page=2&annotation=FIFCZW5L))`
	testTitle    = "loss-free balance routing"
	testMD       = "[loss-free balance routing](zotero://open-pdf/library/items/NUG9I57I?page=2&annotation=FIFCZW5L)"
)

func TestModeFromArg(t *testing.T) {
	tests := []struct {
		arg     string
		want    citation.Mode
		wantErr bool
	}{
		{arg: "plain", want: citation.ModePlainText},
		{arg: "text", want: citation.ModePlainText},
		{arg: "plain_text", want: citation.ModePlainText},
		{arg: "markdown", want: citation.ModeMarkdownReference},
		{arg: "md", want: citation.ModeMarkdownReference},
		{arg: "markdown_reference", want: citation.ModeMarkdownReference},
		{arg: "rich", wantErr: true},
		{arg: "", wantErr: true},
		{arg: "PLAIN", wantErr: true}, // aliases are case-sensitive like the tokens
	}
	for _, tt := range tests {
		got, err := modeFromArg(tt.arg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("modeFromArg(%q) expected an error, got %q", tt.arg, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("modeFromArg(%q) error = %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("modeFromArg(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestReformatFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  citation.Mode
		want  string
	}{
		{
			name:  "citation plain mode",
			input: testCitation + "\n",
			mode:  citation.ModePlainText,
			want:  testTitle + "\n",
		},
		{
			name:  "citation markdown mode",
			input: testCitation + "\n",
			mode:  citation.ModeMarkdownReference,
			want:  testMD + "\n",
		},
		{
			name:  "citation without trailing newline",
			input: testCitation,
			mode:  citation.ModePlainText,
			want:  testTitle,
		},
		{
			name:  "non-citation passes through byte-exact",
			input: "This is just plain text",
			mode:  citation.ModePlainText,
			want:  "This is just plain text",
		},
		{
			name:  "non-citation keeps its newline",
			input: "This is just plain text\n",
			mode:  citation.ModeMarkdownReference,
			want:  "This is just plain text\n",
		},
		{
			name:  "unknown mode is a no-op",
			input: testCitation + "\n",
			mode:  citation.Mode("bogus"),
			want:  testCitation + "\n",
		},
		{
			name:  "empty input",
			input: "",
			mode:  citation.ModePlainText,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := reformatFilter(strings.NewReader(tt.input), &out, tt.mode); err != nil {
				t.Fatalf("reformatFilter() error = %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
