package tokenize

import (
	"slices"

	"github.com/FocuswithJustin/JuniperReports/core/cache"
)

// Cached memoizes another tokenizer's output per input text. Corpora often
// repeat short verses across documents.
type Cached struct {
	inner Tokenizer
	cache cache.Cache[string, []string]
}

// NewCached wraps t with an LRU of at most maxEntries texts (0 = default size).
func NewCached(t Tokenizer, maxEntries int) *Cached {
	cfg := cache.DefaultConfig()
	if maxEntries > 0 {
		cfg.MaxSize = maxEntries
	}
	return &Cached{inner: t, cache: cache.NewLRUCache[string, []string](cfg)}
}

// Unknown implements Tokenizer.
func (c *Cached) Unknown() string {
	return c.inner.Unknown()
}

// Tokenize implements Tokenizer. The returned slice is owned by the caller.
func (c *Cached) Tokenize(text string) []string {
	toks := cache.GetOrCompute(c.cache, text, c.inner.Tokenize)
	return slices.Clone(toks)
}

// Stats returns the underlying cache statistics.
func (c *Cached) Stats() cache.Stats {
	return c.cache.Stats()
}
