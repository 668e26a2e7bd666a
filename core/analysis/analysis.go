// Package analysis defines the analyzer contract and the registry that runs a
// set of analyzers over a corpus.
//
// Every registered analyzer is executed at most once per run. A failure or panic
// in one analyzer is recorded as a Failure under its name and never prevents
// the others from producing results.
package analysis

import (
	"context"
	"sync"

	"github.com/FocuswithJustin/JuniperReports/core/corpus"
)

// Result is the structured output of one analyzer. Values are JSON-compatible:
// numbers, strings, booleans, slices and nested maps.
type Result map[string]any

// Analyzer computes a Result from a corpus. Implementations must not mutate the
// corpus and must return well-defined zero values for an empty corpus.
type Analyzer interface {
	// Name is the unique key for this analyzer's result.
	Name() string

	// Analyze runs over every document of c.
	Analyze(ctx context.Context, c *corpus.Corpus) (Result, error)
}

// Func adapts a function to the Analyzer interface.
type Func struct {
	name string
	fn   func(ctx context.Context, c *corpus.Corpus) (Result, error)
}

// NewFunc returns an Analyzer named name that calls fn.
func NewFunc(name string, fn func(ctx context.Context, c *corpus.Corpus) (Result, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Analyzer.
func (f *Func) Name() string {
	return f.name
}

// Analyze implements Analyzer.
func (f *Func) Analyze(ctx context.Context, c *corpus.Corpus) (Result, error) {
	return f.fn(ctx, c)
}

// Cached wraps an analyzer and keeps its most recent successful result for
// later rendering. Analyze itself never reads the stored value.
type Cached struct {
	Analyzer

	mu   sync.RWMutex
	last Result
	ok   bool
}

// NewCached wraps a.
func NewCached(a Analyzer) *Cached {
	return &Cached{Analyzer: a}
}

// Analyze runs the wrapped analyzer and stores a successful result.
func (c *Cached) Analyze(ctx context.Context, cp *corpus.Corpus) (Result, error) {
	res, err := c.Analyzer.Analyze(ctx, cp)
	if err != nil {
		return res, err
	}
	c.mu.Lock()
	c.last = res
	c.ok = true
	c.mu.Unlock()
	return res, nil
}

// Last returns the most recent successful result.
func (c *Cached) Last() (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.ok
}
