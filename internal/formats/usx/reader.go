// Package usx reads USX (Unified Scripture XML) files into corpus documents.
package usx

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/internal/formats/usfm"
)

var (
	rootExpr = xpath.MustCompile("/usx")
	bookExpr = xpath.MustCompile("//book[@code]")

	spaceRegex = regexp.MustCompile(`\s+`)
)

// skipped elements never contribute verse text.
var skipped = map[string]bool{
	"book": true, "note": true, "figure": true, "sidebar": true, "ms": true,
}

// Reader reads USX documents.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses raw USX. Verses are delimited by verse milestones; USX 2
// documents without end milestones close a verse at the next verse, chapter
// or book.
func (r *Reader) Read(path string, raw []byte) (*corpus.Document, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.NewParse("usx", path, err.Error())
	}

	root := xmlquery.QuerySelector(doc, rootExpr)
	if root == nil {
		return nil, errors.NewParse("usx", path, "missing <usx> root element")
	}

	w := &walker{}
	if book := xmlquery.QuerySelector(root, bookExpr); book != nil {
		w.book = strings.ToUpper(strings.TrimSpace(book.SelectAttr("code")))
	}
	w.walk(root)
	w.flush()

	return corpus.NewDocument(path, string(raw), w.verses,
		corpus.WithFormat(corpus.FormatUSX),
		corpus.WithBook(w.book),
	), nil
}

type walker struct {
	verses  []corpus.Verse
	book    string
	chapter string

	open bool
	ref  string
	text strings.Builder
}

func (w *walker) walk(n *xmlquery.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if w.open {
				w.text.WriteString(child.Data)
			}
		case xmlquery.ElementNode:
			w.element(child)
		}
	}
}

func (w *walker) element(n *xmlquery.Node) {
	switch n.Data {
	case "book":
		w.flush()
		if code := n.SelectAttr("code"); code != "" {
			w.book = strings.ToUpper(strings.TrimSpace(code))
		}
		w.chapter = ""
		return

	case "chapter":
		if n.SelectAttr("eid") != "" {
			return
		}
		w.flush()
		w.chapter = strings.TrimSpace(n.SelectAttr("number"))
		return

	case "verse":
		if n.SelectAttr("eid") != "" {
			w.flush()
			return
		}
		w.flush()
		number := strings.TrimSpace(n.SelectAttr("number"))
		if number == "" {
			return
		}
		w.open = true
		w.ref = w.reference(number)
		return

	case "para":
		if usfm.IsHeading(n.SelectAttr("style")) {
			return
		}
		w.space()
		w.walk(n)
		w.space()
		return

	case "char":
		if usfm.SkipsContent(n.SelectAttr("style")) {
			return
		}
		w.walk(n)
		return

	case "cell", "row", "table":
		w.space()
		w.walk(n)
		return
	}

	if skipped[n.Data] {
		return
	}
	w.walk(n)
}

func (w *walker) reference(number string) string {
	chapter := w.chapter
	if chapter == "" {
		chapter = "1"
	}
	return fmt.Sprintf("%s %s:%s", w.book, chapter, number)
}

func (w *walker) space() {
	if w.open {
		w.text.WriteByte(' ')
	}
}

func (w *walker) flush() {
	if !w.open {
		return
	}
	text := strings.TrimSpace(spaceRegex.ReplaceAllString(w.text.String(), " "))
	if text == "" {
		w.verses = append(w.verses, corpus.AbsentVerse(w.ref))
	} else {
		w.verses = append(w.verses, corpus.NewVerse(w.ref, text))
	}
	w.open = false
	w.ref = ""
	w.text.Reset()
}

// Detect reports whether data looks like USX.
func Detect(data []byte) bool {
	return bytes.Contains(data, []byte("<usx"))
}
