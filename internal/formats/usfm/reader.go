// Package usfm reads USFM scripture files into corpus documents.
//
// Each verse becomes one reference in BibleNLP form ("GEN 1:1", "GEN 1:1-3").
// Verse text is plain: character markers are dropped while their content is
// kept, and notes, headings and introduction material are removed.
package usfm

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
)

var (
	markerRegex   = regexp.MustCompile(`\\(\+?[a-zA-Z]+[0-9]*)(\*?)`)
	verseNumRegex = regexp.MustCompile(`^(\d+[a-z]?)(?:-(\d+[a-z]?))?`)
	chapterRegex  = regexp.MustCompile(`^(\d+)`)
	spaceRegex    = regexp.MustCompile(`\s+`)
)

// noteMarkers open inline content that is not verse text: notes, figures,
// alternate and published numbers, and quotation references. Each runs until
// its matching closing marker.
var noteMarkers = map[string]bool{
	"f": true, "fe": true, "ef": true, "x": true, "ex": true, "fig": true,
	"ca": true, "va": true, "vp": true, "rq": true,
}

// headingPrefixes start paragraphs whose text is not verse text: identification,
// titles, section headings and introductions.
var headingPrefixes = []string{
	"ide", "h", "toc", "rem", "sts", "usfm",
	"mt", "mte", "ms", "mr", "s", "sr", "r", "d", "sp",
	"cl", "cp", "cd",
	"i", "restore", "lit",
}

// Reader reads USFM documents.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses raw USFM. The returned document keeps raw as its original text.
// A verse marker with no following text is recorded as absent.
func (r *Reader) Read(path string, raw []byte) (*corpus.Document, error) {
	if !utf8.Valid(raw) {
		return nil, errors.NewParse("usfm", path, "file is not valid UTF-8")
	}

	p := &parser{}
	p.parse(string(raw))
	return corpus.NewDocument(path, string(raw), p.verses,
		corpus.WithFormat(corpus.FormatUSFM),
		corpus.WithBook(p.firstBook),
	), nil
}

// Detect reports whether data looks like USFM.
func Detect(data []byte) bool {
	s := string(data)
	return strings.Contains(s, "\\id ") || strings.Contains(s, "\\c ") || strings.Contains(s, "\\v ")
}

type mode int

const (
	modeVerse   mode = iota // text belongs to the open verse, if any
	modeHeading             // text is discarded until the next paragraph marker
	modeValue               // next text is the value of \id, \c or \v
)

type parser struct {
	verses    []corpus.Verse
	book      string
	firstBook string
	chapter   string

	open    bool
	ref     string
	text    strings.Builder
	mode    mode
	pending string // marker awaiting its value in modeValue
	notes   []string
	wordAtt bool // inside \w ... \w*, where "|attr" follows the word
}

func (p *parser) parse(s string) {
	pos := 0
	for _, m := range markerRegex.FindAllStringSubmatchIndex(s, -1) {
		p.handleText(s[pos:m[0]])
		name := strings.TrimPrefix(s[m[2]:m[3]], "+")
		closing := m[5] > m[4]
		pos = m[1]
		// A single space after an opening marker is part of the marker.
		if !closing && pos < len(s) && s[pos] == ' ' {
			pos++
		}
		p.handleMarker(name, closing)
	}
	p.handleText(s[pos:])
	p.flush()
}

func (p *parser) handleMarker(name string, closing bool) {
	if len(p.notes) > 0 {
		if closing && name == p.notes[len(p.notes)-1] {
			p.notes = p.notes[:len(p.notes)-1]
		} else if !closing && noteMarkers[name] {
			p.notes = append(p.notes, name)
		}
		return
	}

	if closing {
		if name == "w" {
			p.wordAtt = false
		}
		return
	}

	switch {
	case noteMarkers[name]:
		p.notes = append(p.notes, name)
	case name == "id", name == "c", name == "v":
		p.mode = modeValue
		p.pending = name
	case name == "w":
		p.wordAtt = true
	case IsHeading(name):
		p.mode = modeHeading
	case isParagraph(name):
		p.mode = modeVerse
		p.space()
	}
}

func (p *parser) handleText(t string) {
	if t == "" || len(p.notes) > 0 {
		return
	}

	if p.mode == modeValue {
		t = p.takeValue(t)
	}

	if p.mode == modeHeading || !p.open {
		return
	}
	if p.wordAtt {
		if i := strings.IndexByte(t, '|'); i >= 0 {
			t = t[:i]
		}
	}
	p.text.WriteString(t)
}

// takeValue consumes the value of the pending \id, \c or \v marker from the
// start of t and returns any trailing verse text.
func (p *parser) takeValue(t string) string {
	marker := p.pending
	p.pending = ""
	p.mode = modeVerse

	trimmed := strings.TrimLeft(t, " \t")
	switch marker {
	case "id":
		p.flush()
		fields := strings.Fields(trimmed)
		if len(fields) > 0 {
			p.book = strings.ToUpper(fields[0])
			if p.firstBook == "" {
				p.firstBook = p.book
			}
		}
		p.chapter = ""
		// The rest of the \id line is a description.
		p.mode = modeHeading
		return ""

	case "c":
		p.flush()
		if m := chapterRegex.FindString(trimmed); m != "" {
			p.chapter = m
		}
		p.mode = modeHeading
		return ""

	case "v":
		p.flush()
		m := verseNumRegex.FindStringSubmatch(trimmed)
		if m == nil {
			return ""
		}
		p.open = true
		p.ref = p.reference(m[1], m[2])
		return trimmed[len(m[0]):]
	}
	return t
}

func (p *parser) reference(start, end string) string {
	chapter := p.chapter
	if chapter == "" {
		chapter = "1"
	}
	if end != "" {
		return fmt.Sprintf("%s %s:%s-%s", p.book, chapter, start, end)
	}
	return fmt.Sprintf("%s %s:%s", p.book, chapter, start)
}

func (p *parser) space() {
	if p.open {
		p.text.WriteByte(' ')
	}
}

// flush closes the open verse.
func (p *parser) flush() {
	if !p.open {
		return
	}
	text := strings.TrimSpace(spaceRegex.ReplaceAllString(p.text.String(), " "))
	if text == "" {
		p.verses = append(p.verses, corpus.AbsentVerse(p.ref))
	} else {
		p.verses = append(p.verses, corpus.NewVerse(p.ref, text))
	}
	p.open = false
	p.ref = ""
	p.text.Reset()
	p.wordAtt = false
}

// SkipsContent reports whether the character style name encloses content that
// is not verse text. USX char and note styles use the same names.
func SkipsContent(name string) bool {
	return noteMarkers[name]
}

// IsHeading reports whether a paragraph style carries no verse text. USX
// paragraph styles use the same names.
func IsHeading(name string) bool {
	base := strings.TrimRight(name, "0123456789")
	for _, h := range headingPrefixes {
		if base == h {
			return true
		}
	}
	// Introduction markers: ip, is, imt, io, iot, ili, iq, ...
	return len(base) > 1 && base[0] == 'i' && base != "it"
}

// isParagraph reports whether name is a paragraph, poetry or list marker.
func isParagraph(name string) bool {
	base := strings.TrimRight(name, "0123456789")
	switch base {
	case "p", "m", "po", "pr", "cls", "pmo", "pm", "pmc", "pmr", "pi", "mi", "nb", "pc", "ph",
		"b", "q", "qr", "qc", "qa", "qm", "qd", "li", "lh", "lf", "lim", "tr", "pb":
		return true
	}
	return false
}
