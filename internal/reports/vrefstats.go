package reports

import (
	"context"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/canon"
	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	"github.com/FocuswithJustin/JuniperReports/core/ref"
	"github.com/FocuswithJustin/JuniperReports/core/stats"
)

// VrefStats reports verse totals, range coverage and per-book and per-testament
// completion against the canonical verse table.
type VrefStats struct {
	step  int
	quiet bool
}

// NewVrefStats creates the verse statistics report.
func NewVrefStats(step int, quiet bool) *VrefStats {
	if step <= 0 {
		step = stats.DefaultStep
	}
	return &VrefStats{step: step, quiet: quiet}
}

// Name implements analysis.Analyzer.
func (s *VrefStats) Name() string {
	return VrefStatsName
}

// Analyze implements analysis.Analyzer.
//
// Every reference with text counts once toward its book. A reference using
// range syntax adds its size to "ranges"; anomalous ranges add 1. References
// to books outside the canon are counted in total_verses and listed under
// anomalies but never enter the completion table.
func (s *VrefStats) Analyze(ctx context.Context, c *corpus.Corpus) (analysis.Result, error) {
	var opts []ref.ResolverOption
	if s.quiet {
		opts = append(opts, ref.WithoutLogging())
	}
	resolver := ref.NewResolver(opts...)

	perBook := stats.NewCounter[string]()
	total, ranges := 0, 0

	for _, v := range c.Verses() {
		if !v.Present {
			continue
		}
		total++

		r, anomaly := resolver.Resolve(v.Ref)
		if ref.DeclaresRange(v.Ref) {
			if anomaly != nil {
				ranges++
			} else {
				ranges += r.Size()
			}
		}
		if canon.IsBook(r.Book) {
			perBook.Add(r.Book)
		}
	}

	expected := canon.ExpectedTable()
	translated := perBook.Map()

	completion := make(map[string]int, canon.Len)
	for _, code := range canon.Codes() {
		completion[code] = stats.Completion(translated[code], expected[code], s.step)
	}

	anomalies := make([]map[string]any, 0)
	for _, a := range resolver.Anomalies() {
		anomalies = append(anomalies, map[string]any{
			"reference": a.Reference,
			"reason":    string(a.Reason),
		})
	}

	return analysis.Result{
		"total_verses":    total,
		"ranges":          ranges,
		"verses_per_book": completion,
		"ot_completion":   stats.RatioOfSums(translated, expected, canon.TestamentCodes(canon.OldTestament), s.step),
		"nt_completion":   stats.RatioOfSums(translated, expected, canon.TestamentCodes(canon.NewTestament), s.step),
		"anomalies":       anomalies,
	}, nil
}
