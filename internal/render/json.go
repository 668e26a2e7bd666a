package render

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
)

// JSON writes the report as indented JSON.
type JSON struct {
	path     string
	w        io.Writer
	compress bool
}

// JSONOption configures a JSON sink.
type JSONOption func(*JSON)

// WithCompression xz-compresses the output file.
func WithCompression() JSONOption {
	return func(j *JSON) { j.compress = true }
}

// NewJSON creates a sink writing to the file at path.
func NewJSON(path string, opts ...JSONOption) *JSON {
	j := &JSON{path: path}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// NewJSONWriter creates a sink writing to w, typically stdout.
func NewJSONWriter(w io.Writer) *JSON {
	return &JSON{path: "-", w: w}
}

// Kind implements Named.
func (j *JSON) Kind() string { return KindJSON }

// Path implements Named.
func (j *JSON) Path() string { return j.path }

// Write implements Sink.
func (j *JSON) Write(_ context.Context, r *analysis.Report) error {
	if j.w != nil {
		return encode(j.w, r)
	}

	f, err := createFile(j.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !j.compress {
		if err := encode(f, r); err != nil {
			return err
		}
		return f.Close()
	}

	xw, err := xz.NewWriter(f)
	if err != nil {
		return errors.Wrap(err, "xz writer")
	}
	if err := encode(xw, r); err != nil {
		xw.Close()
		return err
	}
	if err := xw.Close(); err != nil {
		return errors.Wrap(err, "close xz stream")
	}
	return f.Close()
}

func encode(w io.Writer, r *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newEnvelope(r)); err != nil {
		return errors.Wrap(err, "encode report")
	}
	return nil
}
