package ref

import (
	"sync"

	"github.com/FocuswithJustin/JuniperReports/internal/logging"
)

// Resolver parses references and records anomalies. Each distinct anomalous
// input is logged once. A Resolver is safe for concurrent use.
type Resolver struct {
	mu        sync.Mutex
	seen      map[string]bool
	anomalies []Anomaly
	quiet     bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithoutLogging disables anomaly logging.
func WithoutLogging() ResolverOption {
	return func(r *Resolver) {
		r.quiet = true
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{seen: make(map[string]bool)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses s, recording and logging an anomaly if one occurs.
func (r *Resolver) Resolve(s string) (Reference, *Anomaly) {
	parsed, anomaly := Parse(s)
	if anomaly == nil {
		return parsed, nil
	}

	r.mu.Lock()
	first := !r.seen[s]
	if first {
		r.seen[s] = true
	}
	r.anomalies = append(r.anomalies, *anomaly)
	r.mu.Unlock()

	if first && !r.quiet {
		logging.ReferenceAnomaly(s, string(anomaly.Reason))
	}
	return parsed, anomaly
}

// Anomalies returns every anomaly recorded so far, one entry per occurrence, in
// resolution order.
func (r *Resolver) Anomalies() []Anomaly {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Anomaly, len(r.anomalies))
	copy(out, r.anomalies)
	return out
}
