package citation

import "testing"

const (
	exampleInput = `"loss-free balance routing" ([Team et al., 2025, p. 2](zotero://select/library/items/UVG6GBGT)) ([pdf](zotero://open-pdf/library/items/NUG9I57I?page=2&annotation=FIFCZW5L))`
	exampleTitle = "loss-free balance routing"
	exampleLink  = "zotero://open-pdf/library/items/NUG9I57I?page=2&annotation=FIFCZW5L"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantMatch bool
		wantTitle string
		wantLink  string
	}{
		{
			name:      "straight quotes",
			input:     exampleInput,
			wantMatch: true,
			wantTitle: exampleTitle,
			wantLink:  exampleLink,
		},
		{
			name:      "curly quotes",
			input:     `“loss-free balance routing” ([Team et al., 2025, p. 2](zotero://select/library/items/UVG6GBGT)) ([pdf](zotero://open-pdf/library/items/NUG9I57I?page=2&annotation=FIFCZW5L))`,
			wantMatch: true,
			wantTitle: exampleTitle,
			wantLink:  exampleLink,
		},
		{
			name:      "no spacing between groups",
			input:     `"loss-free balance routing"([Team et al., 2025, p. 2](zotero://select/library/items/UVG6GBGT))([pdf](zotero://open-pdf/library/items/NUG9I57I?page=2&annotation=FIFCZW5L))`,
			wantMatch: true,
			wantTitle: exampleTitle,
			wantLink:  exampleLink,
		},
		{
			name:      "unquoted title",
			input:     `loss-free balance routing ([Team et al., 2025, p. 2](zotero://select/library/items/UVG6GBGT)) ([pdf](zotero://open-pdf/library/items/NUG9I57I?page=2&annotation=FIFCZW5L))`,
			wantMatch: true,
			wantTitle: exampleTitle,
			wantLink:  exampleLink,
		},
		{
			name:      "unbalanced opening quote absorbed by title",
			input:     `"dangling title ([a](zotero://select/x)) ([pdf](zotero://open-pdf/y))`,
			wantMatch: true,
			wantTitle: "dangling title",
			wantLink:  "zotero://open-pdf/y",
		},
		{
			name:      "newline inside discarded link text",
			input:     "title ([Team et al.,\n2025](zotero://select/x)) ([pdf](zotero://open-pdf/y))",
			wantMatch: true,
			wantTitle: "title",
			wantLink:  "zotero://open-pdf/y",
		},
		{
			name:      "nested quotes stripped one layer",
			input:     `"'Nested'" ([a](zotero://select/x)) ([pdf](zotero://open-pdf/y))`,
			wantMatch: true,
			wantTitle: "Nested",
			wantLink:  "zotero://open-pdf/y",
		},
		{
			name:      "plain text",
			input:     "This is just plain text",
			wantMatch: false,
		},
		{
			name:      "single markdown link",
			input:     "Another [link](https://example.com)",
			wantMatch: false,
		},
		{
			name:      "only one bracketed group",
			input:     `title ([pdf](zotero://open-pdf/y))`,
			wantMatch: false,
		},
		{
			name:      "trailing text after second group",
			input:     exampleInput + " trailing",
			wantMatch: false,
		},
		{
			name:      "newline in title",
			input:     "broken\ntitle ([a](zotero://select/x)) ([pdf](zotero://open-pdf/y))",
			wantMatch: false,
		},
		{
			name:      "empty string",
			input:     "",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := Parse(tt.input)
			if ok != tt.wantMatch {
				t.Fatalf("Parse() match = %v, want %v", ok, tt.wantMatch)
			}
			if !ok {
				return
			}
			if m.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", m.Title, tt.wantTitle)
			}
			if m.Link != tt.wantLink {
				t.Errorf("link = %q, want %q", m.Link, tt.wantLink)
			}
		})
	}
}

func TestRender(t *testing.T) {
	m, ok := Parse(exampleInput)
	if !ok {
		t.Fatal("example input did not parse")
	}

	if got, ok := m.Render(ModePlainText); !ok || got != exampleTitle {
		t.Errorf("plain = %q (ok=%v), want %q", got, ok, exampleTitle)
	}

	wantMD := "[" + exampleTitle + "](" + exampleLink + ")"
	if got, ok := m.Render(ModeMarkdownReference); !ok || got != wantMD {
		t.Errorf("markdown = %q (ok=%v), want %q", got, ok, wantMD)
	}

	// Unknown mode is a deliberate no-op, not an error.
	if got, ok := m.Render(Mode("bogus")); ok || got != "" {
		t.Errorf("bogus mode = %q (ok=%v), want no transformation", got, ok)
	}
}

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"title"`, "title"},
		{`'title'`, "title"},
		{"“title”", "title"},
		{"‘title’", "title"},
		{`''Nested''`, `'Nested'`}, // only one layer comes off
		{`"mismatched'`, `"mismatched'`},
		{"“mixed\"", "“mixed\""},
		{"plain", "plain"},
		{`""`, `""`}, // nothing between the quotes
	}
	for _, tt := range tests {
		if got := stripQuotes(tt.in); got != tt.want {
			t.Errorf("stripQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"plain_text", ModePlainText},
		{"markdown_reference", ModeMarkdownReference},
		{" markdown_reference ", ModeMarkdownReference},
		{"", ModePlainText},
		{"bogus", ModePlainText},
		{"MARKDOWN_REFERENCE", ModePlainText}, // tokens are case-sensitive
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
