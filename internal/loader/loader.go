// Package loader discovers scripture files and reads them into a corpus.
//
// A corpus path is a directory (read non-recursively, files in name order),
// a .tar.gz/.tar.xz archive, or a single scripture file. The reader for each
// file is chosen by its extension, case-insensitively.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/internal/archive"
	"github.com/FocuswithJustin/JuniperReports/internal/formats/usfm"
	"github.com/FocuswithJustin/JuniperReports/internal/formats/usx"
	"github.com/FocuswithJustin/JuniperReports/internal/logging"
	"github.com/FocuswithJustin/JuniperReports/internal/validation"
)

// Reader turns the raw bytes of one file into a document.
type Reader interface {
	Read(path string, raw []byte) (*corpus.Document, error)
}

// Loader maps file extensions to readers.
type Loader struct {
	readers map[string]Reader
}

// Option configures a Loader.
type Option func(*Loader)

// WithReader registers r for files ending in ext (".usfm", "usfm").
// It replaces any existing reader for that extension.
func WithReader(ext string, r Reader) Option {
	return func(l *Loader) {
		l.readers[normalizeExt(ext)] = r
	}
}

// New creates a Loader with the USFM and USX readers registered.
func New(opts ...Option) *Loader {
	sfm := usfm.NewReader()
	l := &Loader{
		readers: map[string]Reader{
			".sfm":  sfm,
			".usfm": sfm,
			".usx":  usx.NewReader(),
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path with the default readers.
func Load(ctx context.Context, path string) (*corpus.Corpus, error) {
	return New().Load(ctx, path)
}

// Extensions returns the registered extensions in sorted order.
func (l *Loader) Extensions() []string {
	exts := make([]string, 0, len(l.readers))
	for ext := range l.readers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Supports reports whether name has a registered extension.
func (l *Loader) Supports(name string) bool {
	return l.readerFor(name) != nil
}

func (l *Loader) readerFor(name string) Reader {
	return l.readers[strings.ToLower(filepath.Ext(name))]
}

// Load discovers and reads every supported file under path. Files that
// cannot be read or parsed are logged and skipped; a corpus with no
// documents is not an error here.
func (l *Loader) Load(ctx context.Context, path string) (*corpus.Corpus, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}

	b := corpus.NewBuilder()
	switch {
	case info.IsDir():
		err = l.loadDir(ctx, b, path)
	case archive.IsArchive(path):
		err = l.loadArchive(ctx, b, path)
	case l.Supports(path):
		if err := validation.CheckSize(path, info.Size()); err != nil {
			return nil, err
		}
		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, errors.NewIO("read", path, rerr)
		}
		l.add(b, path, raw)
	default:
		return nil, errors.NewUnsupported("corpus path", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}

	if b.Len() == 0 {
		logging.WarnContext(ctx, "corpus_empty", "path", path, "extensions", l.Extensions())
	}
	return b.Build(), nil
}

func (l *Loader) loadDir(ctx context.Context, b *corpus.Builder, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.NewIO("read directory", dir, err)
	}

	// os.ReadDir sorts by file name.
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !l.Supports(path) {
			logging.Debug("file_ignored", "path", path)
			continue
		}
		if info, err := entry.Info(); err == nil {
			if err := validation.CheckSize(path, info.Size()); err != nil {
				logging.Warn("document_skipped", "path", path, "error", err.Error())
				continue
			}
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			logging.Warn("document_skipped", "path", path, "error", err.Error())
			continue
		}
		l.add(b, path, raw)
	}
	return nil
}

func (l *Loader) loadArchive(ctx context.Context, b *corpus.Builder, path string) error {
	entries, err := archive.ReadMatching(path, func(name string) bool {
		return l.Supports(name)
	})
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.add(b, path+"/"+entry.Name, entry.Data)
	}
	return nil
}

func (l *Loader) add(b *corpus.Builder, path string, raw []byte) {
	doc, err := l.readerFor(path).Read(path, raw)
	if err != nil {
		logging.Warn("document_skipped", "path", path, "error", err.Error())
		return
	}
	if doc == nil {
		return
	}
	logging.DocumentLoaded(path, string(doc.Format()), doc.Len(), "book", doc.Book())
	b.Add(doc)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
