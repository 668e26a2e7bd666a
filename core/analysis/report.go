package analysis

import (
	stderrors "errors"
	"time"
)

// Failure marks an analyzer that returned an error or panicked. It takes the
// analyzer's place in the report mapping.
type Failure struct {
	Analyzer string `json:"analyzer"`
	Error    string `json:"error"`
	Panic    bool   `json:"panic,omitempty"`

	err error
}

// Err returns the underlying error.
func (f *Failure) Err() error {
	return f.err
}

// Marker returns the failure as a mapping value.
func (f *Failure) Marker() map[string]any {
	m := map[string]any{
		"failed": true,
		"error":  f.Error,
	}
	if f.Panic {
		m["panic"] = true
	}
	return m
}

// Entry is one analyzer's outcome. Exactly one of Result and Failure is set.
type Entry struct {
	Name     string
	Result   Result
	Failure  *Failure
	Duration time.Duration
}

// Report holds the outcome of one registry run.
type Report struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	// Documents is the number of documents in the analyzed corpus.
	Documents int `json:"documents"`

	// Names lists the analyzers in registration order.
	Names []string `json:"names"`

	Results   map[string]Result        `json:"results"`
	Failures  map[string]*Failure      `json:"failures,omitempty"`
	Durations map[string]time.Duration `json:"-"`
}

func newReport(runID string, names []string, documents int) *Report {
	return &Report{
		RunID:     runID,
		Started:   time.Now(),
		Documents: documents,
		Names:     names,
		Results:   make(map[string]Result, len(names)),
		Failures:  make(map[string]*Failure),
		Durations: make(map[string]time.Duration, len(names)),
	}
}

// Entries returns every analyzer's outcome in registration order.
func (r *Report) Entries() []Entry {
	entries := make([]Entry, 0, len(r.Names))
	for _, name := range r.Names {
		e := Entry{Name: name, Duration: r.Durations[name]}
		if f, ok := r.Failures[name]; ok {
			e.Failure = f
		} else {
			e.Result = r.Results[name]
		}
		entries = append(entries, e)
	}
	return entries
}

// Mapping returns the name-keyed result mapping with failure markers in place
// of failed analyzers' results.
func (r *Report) Mapping() map[string]any {
	m := make(map[string]any, len(r.Names))
	for _, e := range r.Entries() {
		if e.Failure != nil {
			m[e.Name] = e.Failure.Marker()
			continue
		}
		m[e.Name] = map[string]any(e.Result)
	}
	return m
}

// Result returns the named analyzer's result if it succeeded.
func (r *Report) Result(name string) (Result, bool) {
	res, ok := r.Results[name]
	return res, ok
}

// OK reports whether every analyzer succeeded.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Err joins every analyzer failure in registration order, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, name := range r.Names {
		if f, ok := r.Failures[name]; ok {
			errs = append(errs, f.err)
		}
	}
	return stderrors.Join(errs...)
}

// Elapsed returns the wall-clock time of the run.
func (r *Report) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}
