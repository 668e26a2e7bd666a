// Package render writes analysis reports to files: JSON (optionally xz
// compressed), a self-contained HTML page, or a SQLite database.
package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/internal/logging"
	"github.com/FocuswithJustin/JuniperReports/internal/validation"
)

// Sink kinds.
const (
	KindJSON   = "json"
	KindHTML   = "html"
	KindSQLite = "sqlite"
)

// Sink renders a report to one destination.
type Sink interface {
	Write(ctx context.Context, r *analysis.Report) error
}

// Named is implemented by sinks that know their kind and destination, for
// logging.
type Named interface {
	Kind() string
	Path() string
}

// ForPath returns the sink for path's extension:
// .json, .json.xz, .html, .htm, .db, .sqlite and .sqlite3.
func ForPath(path string) (Sink, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json.xz"):
		return NewJSON(path, WithCompression()), nil
	case strings.HasSuffix(lower, ".json"):
		return NewJSON(path), nil
	}

	switch filepath.Ext(lower) {
	case ".html", ".htm":
		return NewHTML(path), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLite(path), nil
	}
	return nil, errors.NewUnsupported("output format", filepath.Base(path))
}

// ForPaths resolves a sink for every path, failing on the first unsupported one.
func ForPaths(paths []string) ([]Sink, error) {
	sinks := make([]Sink, 0, len(paths))
	for _, p := range paths {
		s, err := ForPath(p)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

// WriteAll writes r to every sink concurrently and returns the first error.
// Every failure is logged.
func WriteAll(ctx context.Context, r *analysis.Report, sinks ...Sink) error {
	var g errgroup.Group
	for _, s := range sinks {
		g.Go(func() error {
			kind, path := describe(s)
			if err := s.Write(ctx, r); err != nil {
				logging.LoggerFromContext(ctx).Error("sink_failed", "sink", kind, "path", path, "error", err.Error())
				return errors.Wrapf(err, "write %s report", kind)
			}
			logging.SinkWritten(ctx, kind, path)
			return nil
		})
	}
	return g.Wait()
}

func describe(s Sink) (kind, path string) {
	if n, ok := s.(Named); ok {
		return n.Kind(), n.Path()
	}
	return "custom", ""
}

// createFile creates path and any missing parent directories.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewIO("create directory", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}
	return f, nil
}
