// Package reports implements the built-in corpus analyzers.
package reports

import (
	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/stats"
	"github.com/FocuswithJustin/JuniperReports/internal/script"
	"github.com/FocuswithJustin/JuniperReports/internal/tokenize"
)

// Analyzer names.
const (
	PunctuationName = "punctuation_report"
	TokenName       = "token_report"
	WildebeestName  = "wildebeest_report"
	VrefStatsName   = "vref_stats_report"
)

// DefaultQuoteChars is the set of quotation marks tallied separately by the
// punctuation report.
const DefaultQuoteChars = "\"“”«»„‟‹›‘’"

// Options configure the built-in analyzers. Zero values select defaults.
type Options struct {
	// Step is the rounding granularity for completion percentages.
	Step int

	// QuoteChars lists the characters counted as quotation marks.
	QuoteChars string

	// Tokenizer backs the token report.
	Tokenizer tokenize.Tokenizer

	// Classifier backs the script composition report.
	Classifier script.Classifier

	// Quiet disables per-reference anomaly logging.
	Quiet bool
}

func (o Options) withDefaults() Options {
	if o.Step <= 0 {
		o.Step = stats.DefaultStep
	}
	if o.QuoteChars == "" {
		o.QuoteChars = DefaultQuoteChars
	}
	if o.Tokenizer == nil {
		o.Tokenizer = tokenize.NewCached(tokenize.NewWordTokenizer(), 0)
	}
	if o.Classifier == nil {
		o.Classifier = script.NewClassifier()
	}
	return o
}

// Defaults returns the built-in analyzers in their canonical order.
func Defaults(opts Options) []analysis.Analyzer {
	opts = opts.withDefaults()
	return []analysis.Analyzer{
		NewPunctuation(opts.QuoteChars),
		NewToken(opts.Tokenizer),
		NewWildebeest(opts.Classifier),
		NewVrefStats(opts.Step, opts.Quiet),
	}
}

// Names returns the built-in analyzer names in canonical order.
func Names() []string {
	return []string{PunctuationName, TokenName, WildebeestName, VrefStatsName}
}
