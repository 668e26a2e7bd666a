// Package corpus provides the read-only document model that analyzers iterate.
//
// A Document holds one source file's raw text and its ordered reference -> text
// mapping. A Corpus is an ordered sequence of Documents in discovery order.
// Neither is modified after construction, so both can be read from many
// goroutines without locking.
package corpus

import (
	"encoding/hex"
	"iter"

	"github.com/zeebo/blake3"
)

// Format identifies the source format of a document.
type Format string

// Format constants.
const (
	FormatUSFM    Format = "usfm"
	FormatUSX     Format = "usx"
	FormatUnknown Format = "unknown"
)

// Verse is one declared reference and its text.
type Verse struct {
	// Ref is the reference string as declared by the source (e.g., "GEN 1:1").
	Ref string `json:"ref"`

	// Text is the verse text. Meaningful only when Present is true.
	Text string `json:"text,omitempty"`

	// Present is false when the source declared the reference without text.
	// An empty string with Present true is an empty verse, not an absent one.
	Present bool `json:"present"`
}

// NewVerse returns a verse with text.
func NewVerse(ref, text string) Verse {
	return Verse{Ref: ref, Text: text, Present: true}
}

// AbsentVerse returns a verse declared without text.
func AbsentVerse(ref string) Verse {
	return Verse{Ref: ref}
}

// Document is one source file. It is immutable after construction.
type Document struct {
	path        string
	raw         string
	format      Format
	book        string
	fingerprint string
	verses      []Verse
	index       map[string]int
}

// Option configures a Document.
type Option func(*Document)

// WithFormat records the source format.
func WithFormat(f Format) Option {
	return func(d *Document) {
		d.format = f
	}
}

// WithBook records the book code declared by the source.
func WithBook(code string) Option {
	return func(d *Document) {
		d.book = code
	}
}

// NewDocument builds a Document. The verses slice is copied. When a reference
// is declared more than once in the same document, every declaration is kept
// for iteration and Text returns the first.
func NewDocument(path, raw string, verses []Verse, opts ...Option) *Document {
	d := &Document{
		path:   path,
		raw:    raw,
		format: FormatUnknown,
		verses: make([]Verse, len(verses)),
		index:  make(map[string]int, len(verses)),
	}
	copy(d.verses, verses)
	for i, v := range d.verses {
		if _, ok := d.index[v.Ref]; !ok {
			d.index[v.Ref] = i
		}
	}
	for _, opt := range opts {
		opt(d)
	}

	h := blake3.Sum256([]byte(raw))
	d.fingerprint = hex.EncodeToString(h[:])
	return d
}

// Path returns the source path or identifier.
func (d *Document) Path() string {
	return d.path
}

// Raw returns the full original text.
func (d *Document) Raw() string {
	return d.raw
}

// Format returns the source format.
func (d *Document) Format() Format {
	return d.format
}

// Book returns the book code declared by the source, if any.
func (d *Document) Book() string {
	return d.book
}

// Fingerprint returns the BLAKE3 hex digest of the raw text.
func (d *Document) Fingerprint() string {
	return d.fingerprint
}

// Len returns the number of declared verses.
func (d *Document) Len() int {
	return len(d.verses)
}

// Verses returns a restartable sequence of the declared verses in source order.
func (d *Document) Verses() iter.Seq[Verse] {
	return func(yield func(Verse) bool) {
		for _, v := range d.verses {
			if !yield(v) {
				return
			}
		}
	}
}

// Text returns the text declared for ref. The boolean is false when the
// reference is not declared or was declared without text.
func (d *Document) Text(ref string) (string, bool) {
	i, ok := d.index[ref]
	if !ok {
		return "", false
	}
	v := d.verses[i]
	return v.Text, v.Present
}

// Has reports whether ref is declared, with or without text.
func (d *Document) Has(ref string) bool {
	_, ok := d.index[ref]
	return ok
}

// Corpus is an ordered, read-only collection of documents.
type Corpus struct {
	documents []*Document
}

// New builds a Corpus from documents in the given order.
func New(documents ...*Document) *Corpus {
	docs := make([]*Document, 0, len(documents))
	for _, d := range documents {
		if d != nil {
			docs = append(docs, d)
		}
	}
	return &Corpus{documents: docs}
}

// Documents returns a restartable sequence of documents in input order.
func (c *Corpus) Documents() iter.Seq[*Document] {
	return func(yield func(*Document) bool) {
		for _, d := range c.documents {
			if !yield(d) {
				return
			}
		}
	}
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.documents)
}

// IsEmpty reports whether the corpus has no documents.
func (c *Corpus) IsEmpty() bool {
	return len(c.documents) == 0
}

// Verses returns every verse of every document, in document then source order.
func (c *Corpus) Verses() iter.Seq2[*Document, Verse] {
	return func(yield func(*Document, Verse) bool) {
		for _, d := range c.documents {
			for _, v := range d.verses {
				if !yield(d, v) {
					return
				}
			}
		}
	}
}

// VerseCount returns the total number of declared verses across documents.
func (c *Corpus) VerseCount() int {
	n := 0
	for _, d := range c.documents {
		n += len(d.verses)
	}
	return n
}

// Builder accumulates documents during discovery. Build returns the finished
// Corpus; the builder must not be reused afterwards.
type Builder struct {
	documents []*Document
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a document.
func (b *Builder) Add(d *Document) {
	if d != nil {
		b.documents = append(b.documents, d)
	}
}

// Len returns the number of documents added so far.
func (b *Builder) Len() int {
	return len(b.documents)
}

// Build returns the Corpus.
func (b *Builder) Build() *Corpus {
	c := &Corpus{documents: b.documents}
	b.documents = nil
	return c
}
