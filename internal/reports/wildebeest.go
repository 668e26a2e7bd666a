package reports

import (
	"context"
	"strings"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/internal/script"
)

// Wildebeest reports the script composition of all verse text.
type Wildebeest struct {
	classifier script.Classifier
}

// NewWildebeest creates the script composition report.
func NewWildebeest(c script.Classifier) *Wildebeest {
	return &Wildebeest{classifier: c}
}

// Name implements analysis.Analyzer.
func (w *Wildebeest) Name() string {
	return WildebeestName
}

// Analyze implements analysis.Analyzer. Verse texts are joined one per line in
// document order before classification.
func (w *Wildebeest) Analyze(ctx context.Context, c *corpus.Corpus) (analysis.Result, error) {
	var b strings.Builder
	for _, v := range c.Verses() {
		if !v.Present {
			continue
		}
		b.WriteString(v.Text)
		b.WriteByte('\n')
	}

	return analysis.Result(w.classifier.Analyze(b.String()).Map()), nil
}
