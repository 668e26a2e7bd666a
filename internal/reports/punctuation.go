package reports

import (
	"context"
	"unicode"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/core/stats"
)

// Punctuation counts every punctuation character in each document's raw text,
// markup included, and separately the quotation marks among them.
type Punctuation struct {
	quotes map[rune]bool
}

// NewPunctuation creates the punctuation report. Non-punctuation characters in
// quoteChars are never counted.
func NewPunctuation(quoteChars string) *Punctuation {
	q := make(map[rune]bool)
	for _, r := range quoteChars {
		q[r] = true
	}
	return &Punctuation{quotes: q}
}

// Name implements analysis.Analyzer.
func (p *Punctuation) Name() string {
	return PunctuationName
}

// Analyze implements analysis.Analyzer.
func (p *Punctuation) Analyze(ctx context.Context, c *corpus.Corpus) (analysis.Result, error) {
	punct := stats.NewCounter[string]()
	quotes := stats.NewCounter[string]()

	for doc := range c.Documents() {
		for _, r := range doc.Raw() {
			if !unicode.IsPunct(r) {
				continue
			}
			punct.Add(string(r))
			if p.quotes[r] {
				quotes.Add(string(r))
			}
		}
	}

	return analysis.Result{
		"punctuation_counts": punct.Map(),
		"quote_counts":       quotes.Map(),
	}, nil
}
