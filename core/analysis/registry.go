package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/internal/logging"
	"github.com/FocuswithJustin/JuniperReports/internal/workerpool"
)

// Registry holds analyzers in registration order, keyed by unique name.
type Registry struct {
	mu        sync.RWMutex
	analyzers []Analyzer
	index     map[string]int
}

// NewRegistry creates a Registry and registers analyzers in order. Any
// registration error is returned and no registry is built, so a run with
// conflicting names never starts.
func NewRegistry(analyzers ...Analyzer) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, a := range analyzers {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends an analyzer. A name already in use returns a
// *errors.DuplicateError and leaves the registry unchanged.
func (r *Registry) Register(a Analyzer) error {
	if a == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil analyzer")
	}
	name := a.Name()
	if name == "" {
		return errors.Wrap(errors.ErrInvalidInput, "analyzer name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[name]; exists {
		return errors.NewDuplicate("analyzer", name)
	}
	r.index[name] = len(r.analyzers)
	r.analyzers = append(r.analyzers, a)
	return nil
}

// Get returns the analyzer registered under name.
func (r *Registry) Get(name string) (Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown analyzer %q: %w", name, errors.ErrNotFound)
	}
	return r.analyzers[i], nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.analyzers))
	for i, a := range r.analyzers {
		names[i] = a.Name()
	}
	return names
}

// Len returns the number of registered analyzers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.analyzers)
}

// Select returns a new registry holding only the named analyzers, kept in this
// registry's order. An unknown name returns ErrNotFound.
func (r *Registry) Select(names ...string) (*Registry, error) {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, err := r.Get(name); err != nil {
			return nil, err
		}
		want[name] = true
	}

	r.mu.RLock()
	picked := make([]Analyzer, 0, len(want))
	for _, a := range r.analyzers {
		if want[a.Name()] {
			picked = append(picked, a)
		}
	}
	r.mu.RUnlock()
	return NewRegistry(picked...)
}

// Options control a run.
type Options struct {
	// Parallel runs analyzers concurrently on a worker pool.
	Parallel bool

	// Workers bounds concurrency when Parallel is set (0 = one per analyzer,
	// capped at workerpool.MaxWorkers).
	Workers int
}

// outcome is what a worker sends to the collector.
type outcome struct {
	name     string
	result   Result
	failure  *Failure
	duration time.Duration
}

// Run executes every registered analyzer once over c and returns the report.
// Failures are recorded per analyzer and never abort the run.
func (r *Registry) Run(ctx context.Context, c *corpus.Corpus, opts Options) *Report {
	r.mu.RLock()
	analyzers := make([]Analyzer, len(r.analyzers))
	copy(analyzers, r.analyzers)
	r.mu.RUnlock()

	if c == nil {
		c = corpus.New()
	}

	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name()
	}

	report := newReport(uuid.NewString(), names, c.Len())
	ctx = logging.WithRunID(ctx, report.RunID)

	logging.InfoContext(ctx, "run_started",
		"analyzers", len(analyzers),
		"documents", c.Len(),
		"parallel", opts.Parallel)

	collect := func(o outcome) {
		report.Durations[o.name] = o.duration
		if o.failure != nil {
			report.Failures[o.name] = o.failure
			return
		}
		report.Results[o.name] = o.result
	}

	if !opts.Parallel || len(analyzers) < 2 {
		for _, a := range analyzers {
			collect(runOne(ctx, a, c))
		}
	} else {
		workers := opts.Workers
		if workers <= 0 {
			workers = min(len(analyzers), workerpool.MaxWorkers)
		}
		pool := workerpool.New[Analyzer, outcome](workers, len(analyzers))
		pool.Start(func(a Analyzer) outcome {
			return runOne(ctx, a, c)
		})
		for _, a := range analyzers {
			pool.Submit(a)
		}
		pool.Close()

		// Single collector: only this goroutine writes the report.
		for o := range pool.Results() {
			collect(o)
		}
	}

	report.Finished = time.Now()
	logging.InfoContext(ctx, "run_finished",
		"succeeded", len(report.Results),
		"failed", len(report.Failures),
		"duration_ms", report.Elapsed().Milliseconds())
	return report
}

// runOne executes a single analyzer, converting errors and panics into a
// Failure.
func runOne(ctx context.Context, a Analyzer, c *corpus.Corpus) (o outcome) {
	name := a.Name()
	o.name = name
	start := time.Now()

	defer func() {
		o.duration = time.Since(start)
		if rec := recover(); rec != nil {
			err := &errors.AnalyzerError{Analyzer: name, Panic: true, Err: fmt.Errorf("%v", rec)}
			o.result = nil
			o.failure = &Failure{Analyzer: name, Error: err.Error(), Panic: true, err: err}
		}
		if o.failure != nil {
			logging.AnalyzerFailed(ctx, name, o.failure.err)
			return
		}
		logging.AnalyzerDone(ctx, name, o.duration)
	}()

	logging.AnalyzerStart(ctx, name, c.Len())
	res, err := a.Analyze(ctx, c)
	if err != nil {
		aerr := errors.NewAnalyzer(name, err)
		o.failure = &Failure{Analyzer: name, Error: aerr.Error(), err: aerr}
		return o
	}
	if res == nil {
		res = Result{}
	}
	o.result = res
	return o
}
