package reports

import (
	"context"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/core/stats"
	"github.com/FocuswithJustin/JuniperReports/internal/logging"
	"github.com/FocuswithJustin/JuniperReports/internal/tokenize"
)

// Token reports the token length distribution of verses.
type Token struct {
	tokenizer tokenize.Tokenizer
}

// NewToken creates the token report.
func NewToken(t tokenize.Tokenizer) *Token {
	return &Token{tokenizer: t}
}

// Name implements analysis.Analyzer.
func (t *Token) Name() string {
	return TokenName
}

// Analyze implements analysis.Analyzer. Verses declared without text are
// skipped; an empty verse counts as zero tokens.
func (t *Token) Analyze(ctx context.Context, c *corpus.Corpus) (analysis.Result, error) {
	var lengths []int
	unknown := 0

	for _, v := range c.Verses() {
		if !v.Present {
			continue
		}
		n, unk := tokenize.Count(t.tokenizer, v.Text)
		lengths = append(lengths, n)
		unknown += unk
	}

	if cached, ok := t.tokenizer.(*tokenize.Cached); ok {
		s := cached.Stats()
		logging.LoggerFromContext(ctx).Debug("tokenizer_cache",
			"hits", s.Hits, "misses", s.Misses, "evictions", s.Evictions,
			"hit_ratio", s.HitRatio())
	}

	return analysis.Result{
		"max_tokens":  stats.Max(lengths),
		"unk_tokens":  unknown,
		"histogram":   stats.Histogram(lengths),
		"verses":      len(lengths),
		"mean_tokens": stats.Mean(lengths),
	}, nil
}
