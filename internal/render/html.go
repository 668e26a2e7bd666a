package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// HTML writes the report as a single static page.
type HTML struct {
	path string
}

// NewHTML creates a sink writing to path.
func NewHTML(path string) *HTML {
	return &HTML{path: path}
}

// Kind implements Named.
func (h *HTML) Kind() string { return KindHTML }

// Path implements Named.
func (h *HTML) Path() string { return h.path }

// Write implements Sink.
func (h *HTML) Write(_ context.Context, r *analysis.Report) error {
	p, err := newPage(r)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "report.html", p); err != nil {
		return errors.Wrap(err, "execute template")
	}

	f, err := createFile(h.path)
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		return errors.NewIO("write", h.path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", h.path, err)
	}
	return nil
}

type page struct {
	RunID     string
	Started   string
	Elapsed   string
	Documents string
	Sections  []section
}

type section struct {
	Name     string
	Duration string
	Failed   bool
	Panic    bool
	Error    string
	Scalars  []row
	Tables   []table
}

type row struct {
	Key   string
	Value string
}

type table struct {
	Title string
	Rows  []row
}

func newPage(r *analysis.Report) (*page, error) {
	p := &page{
		RunID:     r.RunID,
		Started:   r.Started.Format(time.RFC3339),
		Elapsed:   r.Elapsed().Round(time.Millisecond).String(),
		Documents: humanize.Comma(int64(r.Documents)),
	}

	for _, e := range r.Entries() {
		s := section{
			Name:     e.Name,
			Duration: e.Duration.Round(time.Microsecond).String(),
		}
		if e.Failure != nil {
			s.Failed = true
			s.Panic = e.Failure.Panic
			s.Error = e.Failure.Error
			p.Sections = append(p.Sections, s)
			continue
		}

		leaves, err := Flatten(e.Result)
		if err != nil {
			return nil, errors.Wrapf(err, "render %s", e.Name)
		}
		for _, leaf := range leaves {
			if len(leaf.Path) == 1 {
				s.Scalars = append(s.Scalars, row{Key: leaf.Path[0], Value: FormatValue(leaf.Value)})
				continue
			}
			title := leaf.Path[0]
			if n := len(s.Tables); n == 0 || s.Tables[n-1].Title != title {
				s.Tables = append(s.Tables, table{Title: title})
			}
			t := &s.Tables[len(s.Tables)-1]
			t.Rows = append(t.Rows, row{
				Key:   strings.Join(leaf.Path[1:], " / "),
				Value: FormatValue(leaf.Value),
			})
		}
		p.Sections = append(p.Sections, s)
	}
	return p, nil
}
