// Package archive reads corpus files out of compressed tar archives.
// It supports tar.gz (or .tgz) and tar.xz.
package archive

import (
	"archive/tar"
	"compress/gzip"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/internal/logging"
	"github.com/FocuswithJustin/JuniperReports/internal/validation"
)

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// IsArchive reports whether p names a supported archive.
func IsArchive(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".tar.gz") ||
		strings.HasSuffix(lower, ".tgz") ||
		strings.HasSuffix(lower, ".tar.xz")
}

// NewReader opens the archive at p, choosing the decompressor by extension.
func NewReader(p string) (*Reader, error) {
	if !IsArchive(p) {
		return nil, errors.NewUnsupported("archive format", path.Base(p))
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, errors.NewIO("open", p, err)
	}

	var reader io.Reader
	var decompressor io.Closer

	if strings.HasSuffix(strings.ToLower(p), ".tar.xz") {
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewParse("tar.xz", p, err.Error())
		}
		reader = xzr
	} else {
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewParse("tar.gz", p, err.Error())
		}
		reader = gzr
		decompressor = gzr
	}

	return &Reader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the archive and its decompressor.
func (r *Reader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if err := r.file.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Visitor is called for each regular file in the archive.
// Return true to stop iteration.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks the regular files of the archive. Insecure entry names are
// passed through; callers clean them with validation.EntryName.
func (r *Reader) Iterate(visit Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil && !(header != nil && stderrors.Is(err, tar.ErrInsecurePath)) {
			return fmt.Errorf("read header: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		stop, err := visit(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Entry is one file read from an archive.
type Entry struct {
	Name string
	Data []byte
}

// ReadMatching returns every regular file whose cleaned name satisfies match,
// sorted by name. Entries whose names escape the archive root are skipped;
// entries larger than validation.MaxFileSize are an error.
func ReadMatching(p string, match func(name string) bool) ([]Entry, error) {
	r, err := NewReader(p)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var entries []Entry
	err = r.Iterate(func(header *tar.Header, content io.Reader) (bool, error) {
		name, err := validation.EntryName(header.Name)
		if err != nil {
			logging.Warn("archive_entry_skipped", "archive", p, "entry", header.Name, "error", err.Error())
			return false, nil
		}
		if !match(name) {
			return false, nil
		}
		if err := validation.CheckSize(name, header.Size); err != nil {
			return false, err
		}
		data, err := io.ReadAll(content)
		if err != nil {
			return false, errors.NewIO("read", name, err)
		}
		entries = append(entries, Entry{Name: name, Data: data})
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}
