// Package citation recognises Zotero citation strings and renders them into
// the configured output format.
//
// Zotero's "copy with citation" places text of this shape on the clipboard:
//
//	"some quoted passage" ([Team et al., 2025, p. 2](zotero://select/...)) ([pdf](zotero://open-pdf/...))
//
// i.e. a title (optionally quoted) followed by exactly two parenthesised
// markdown links. The first link points at the library item and is discarded;
// the second points at the PDF annotation and is the link we keep.
package citation

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode is the output format applied to a recognised citation.
type Mode string

const (
	// ModePlainText rewrites the citation to the bare title.
	ModePlainText Mode = "plain_text"
	// ModeMarkdownReference rewrites the citation to [title](pdf-link).
	ModeMarkdownReference Mode = "markdown_reference"
)

// DefaultMode is used whenever a stored mode token is missing or unknown.
const DefaultMode = ModePlainText

// ParseMode converts a stored token to a Mode, falling back to DefaultMode
// for anything it does not recognise. Malformed preferences must never stop
// the tool from working.
func ParseMode(s string) Mode {
	switch Mode(strings.TrimSpace(s)) {
	case ModePlainText:
		return ModePlainText
	case ModeMarkdownReference:
		return ModeMarkdownReference
	default:
		return DefaultMode
	}
}

// DisplayName returns the human-readable name shown in notifications and
// status output.
func (m Mode) DisplayName() string {
	switch m {
	case ModeMarkdownReference:
		return "Markdown Reference Mode"
	case ModePlainText:
		return "Plain Text Mode"
	default:
		return string(m)
	}
}

// pattern matches the full citation string, anchored at both ends.
//
// Group 1 is the title (no straight double quotes, no newlines). The first
// parenthesised link group is matched and discarded. Group 2 is the target of
// the second link group. (?s) lets the link groups span newlines. The leading
// and trailing quotes are matched independently, so an unbalanced quote is
// tolerated — Zotero does not guarantee quote balance and neither do we.
var pattern = regexp.MustCompile(`(?s)^["'“‘]?([^"\n]+?)["'”’]?\s*\(\[.*?\]\(.*?\)\)\s*\(\[.*?\]\((.+?)\)\)$`)

// quotePairs maps an opening quote rune to its closing counterpart. Only a
// same-family pair is stripped; mixed pairs are left alone.
var quotePairs = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'“':  '”',
	'‘':  '’',
}

// Match holds the semantic parts of one recognised citation. It lives only
// for the duration of a single reformat.
type Match struct {
	Title string // cleaned title, quotes stripped
	Link  string // target of the second link group (the PDF link)
}

// Parse reports whether text is a Zotero citation and, if so, returns its
// extracted parts with whitespace trimmed and one layer of surrounding
// quotes stripped from the title.
func Parse(text string) (Match, bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return Match{}, false
	}
	return Match{
		Title: stripQuotes(strings.TrimSpace(m[1])),
		Link:  strings.TrimSpace(m[2]),
	}, true
}

// Render produces the replacement text for mode. ok is false when the mode
// is unknown — callers treat that as "leave the clipboard alone" rather than
// an error, so a corrupt preference can never mangle the user's clipboard.
func (m Match) Render(mode Mode) (out string, ok bool) {
	switch mode {
	case ModePlainText:
		return m.Title, true
	case ModeMarkdownReference:
		return fmt.Sprintf("[%s](%s)", m.Title, m.Link), true
	default:
		return "", false
	}
}

// stripQuotes removes exactly one layer of surrounding quotes from s when the
// first and last runes form a matching pair. Nested quotes keep their inner
// layers: `''Nested''` becomes `'Nested'`.
func stripQuotes(s string) string {
	runes := []rune(s)
	if len(runes) < 3 { // need at least one rune between the quotes
		return s
	}
	closing, ok := quotePairs[runes[0]]
	if !ok || runes[len(runes)-1] != closing {
		return s
	}
	return string(runes[1 : len(runes)-1])
}
