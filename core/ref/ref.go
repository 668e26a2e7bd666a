// Package ref parses BibleNLP-style verse references ("GEN 1:1", "GEN 1:1-3").
//
// Parsing never fails hard. A reference that does not meet the strict grammar is
// returned together with an Anomaly describing the problem, and every anomalous
// reference counts as exactly one verse.
package ref

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperReports/core/canon"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
)

// Reason classifies an anomalous reference.
type Reason string

// Anomaly reasons.
const (
	ReasonInvertedRange    Reason = "inverted range"
	ReasonUnparseableRange Reason = "unparseable range"
	ReasonUnknownBook      Reason = "unknown book"
	ReasonMalformed        Reason = "malformed reference"
)

// Reference is a parsed verse reference.
type Reference struct {
	// Book is the three-character book code (e.g., "GEN", "1CO").
	Book string `json:"book"`

	// Chapter is the chapter number (1-indexed).
	Chapter int `json:"chapter,omitempty"`

	// Verse is the single verse, or the start of a range.
	Verse int `json:"verse,omitempty"`

	// VerseEnd is the inclusive end of a range (0 for a single verse).
	VerseEnd int `json:"verse_end,omitempty"`

	// Raw is the input string.
	Raw string `json:"raw"`
}

// Anomaly describes a reference that failed strict parsing.
type Anomaly struct {
	Reference string `json:"reference"`
	Reason    Reason `json:"reason"`
}

func (a *Anomaly) Error() string {
	return fmt.Sprintf("reference %q: %s", a.Reference, a.Reason)
}

func (a *Anomaly) Unwrap() error {
	return errors.ErrInvalidInput
}

// refGrammar is the participle grammar for "BBB C:V" and "BBB C:V-V2".
// Verse terms are captured loosely so that malformed ranges still parse and can
// be classified instead of rejected.
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Book    string       `parser:"@Book"`
	Chapter int          `parser:"@Int \":\""`
	First   string       `parser:"@(Int | Word | Book)?"`
	Rest    []*rangeTerm `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rangeTerm struct {
	Dash string `parser:"@\"-\""`
	Term string `parser:"@(Int | Word | Book)?"`
}

// refLexer defines the lexer for verse references.
// Book must come before Int so that "1SA" is not split.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[1-4][A-Z]{2}|[A-Z][A-Z0-9]{2}`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[A-Za-z0-9]+`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// refParser is the participle parser for verse references.
var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a reference string. The returned Reference is always usable for
// counting; a non-nil Anomaly means the input failed strict parsing.
//
// Supported formats:
//   - "GEN 1:1" (single verse, size 1)
//   - "GEN 1:1-3" (range, size end-start+1)
func Parse(s string) (Reference, *Anomaly) {
	r := Reference{Raw: s}
	trimmed := strings.TrimSpace(s)

	parsed, err := refParser.ParseString("", trimmed)
	if err != nil {
		r.Book = bookPrefix(trimmed)
		return r, &Anomaly{Reference: s, Reason: ReasonMalformed}
	}

	r.Book = parsed.Book
	// The lexer would otherwise split "GEN1:1" into a book and a chapter.
	if !spaceAfter(trimmed, parsed.Book) {
		return r, &Anomaly{Reference: s, Reason: ReasonMalformed}
	}
	r.Chapter = parsed.Chapter
	if r.Chapter < 1 {
		return r, &Anomaly{Reference: s, Reason: ReasonMalformed}
	}

	anomaly := parseVerses(&r, parsed)
	if anomaly != nil {
		return r, anomaly
	}

	if !canon.IsBook(r.Book) {
		return r, &Anomaly{Reference: s, Reason: ReasonUnknownBook}
	}
	return r, nil
}

// parseVerses fills Verse/VerseEnd from the captured terms.
func parseVerses(r *Reference, parsed *refGrammar) *Anomaly {
	if len(parsed.Rest) == 0 {
		v, err := strconv.Atoi(parsed.First)
		if err != nil || v < 1 {
			return &Anomaly{Reference: r.Raw, Reason: ReasonMalformed}
		}
		r.Verse = v
		return nil
	}

	terms := make([]string, 0, len(parsed.Rest)+1)
	terms = append(terms, parsed.First)
	for _, t := range parsed.Rest {
		terms = append(terms, t.Term)
	}

	if v, err := strconv.Atoi(terms[0]); err == nil && v > 0 {
		r.Verse = v
	}
	if len(terms) != 2 {
		return &Anomaly{Reference: r.Raw, Reason: ReasonUnparseableRange}
	}

	start, err1 := strconv.Atoi(terms[0])
	end, err2 := strconv.Atoi(terms[1])
	if err1 != nil || err2 != nil || start < 1 || end < 1 {
		return &Anomaly{Reference: r.Raw, Reason: ReasonUnparseableRange}
	}

	r.Verse = start
	r.VerseEnd = end
	if start > end {
		return &Anomaly{Reference: r.Raw, Reason: ReasonInvertedRange}
	}
	return nil
}

// spaceAfter reports whether the book code at the start of s is followed by
// whitespace.
func spaceAfter(s, book string) bool {
	rest := strings.TrimPrefix(s, book)
	return rest != s && strings.TrimLeftFunc(rest, unicode.IsSpace) != rest
}

// bookPrefix returns the leading book field of an unparseable reference, using
// the first whitespace-separated field or the first three bytes.
func bookPrefix(s string) string {
	if i := strings.IndexAny(s, " \t"); i > 0 {
		return s[:i]
	}
	if len(s) >= 3 {
		return s[:3]
	}
	return s
}

// Size returns the number of verses this reference covers: end-start+1 for a
// valid range and 1 otherwise, including inverted ranges.
func (r Reference) Size() int {
	if r.VerseEnd > 0 && r.VerseEnd >= r.Verse && r.Verse > 0 {
		return r.VerseEnd - r.Verse + 1
	}
	return 1
}

// IsRange reports whether the reference declares a valid multi-verse range.
func (r Reference) IsRange() bool {
	return r.VerseEnd > 0 && r.VerseEnd > r.Verse
}

// String returns the canonical "BBB C:V[-E]" form.
func (r Reference) String() string {
	if r.Chapter == 0 || r.Verse == 0 {
		return r.Raw
	}
	if r.VerseEnd > 0 {
		return fmt.Sprintf("%s %d:%d-%d", r.Book, r.Chapter, r.Verse, r.VerseEnd)
	}
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// Count parses s and returns how many verse occurrences it represents for
// counting. Anomalies always count as one.
func Count(s string) int {
	r, a := Parse(s)
	if a != nil {
		return 1
	}
	return r.Size()
}

// DeclaresRange reports whether the raw string uses range syntax, whether or not
// the range is valid.
func DeclaresRange(s string) bool {
	return strings.Contains(s, "-")
}
