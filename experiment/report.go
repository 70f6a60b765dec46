package experiment

import (
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kelpfork/sliptile/stats"
)

// Report is the final summary of an experiment run.
type Report struct {
	Trials     int
	Seed       uint64
	Elapsed    time.Duration
	Aggregates []*Aggregate
}

// String renders the comparison table and an expansion histogram per
// heuristic. Every mean carries a 99 percent confidence interval.
func (r *Report) String() string {
	p := message.NewPrinter(language.English)
	var sb strings.Builder

	p.Fprintf(&sb, "%d trials in %.2fs (seed %d)\n\n", r.Trials, r.Elapsed.Seconds(), r.Seed)
	p.Fprintf(&sb, "%-10s %7s %16s %22s %22s %20s\n",
		"heuristic", "solved", "avg moves", "avg expansions", "avg peak frontier", "avg seconds")
	for _, agg := range r.Aggregates {
		p.Fprintf(&sb, "%-10s %7d %10.2f ±%.2f %14.1f ±%.1f %14.1f ±%.1f %12.4f ±%.4f\n",
			agg.Name, agg.Solved,
			agg.Moves.Mean(), agg.Moves.CI(stats.Z99),
			agg.Expansions.Mean(), agg.Expansions.CI(stats.Z99),
			agg.Frontier.Mean(), agg.Frontier.CI(stats.Z99),
			agg.Seconds.Mean(), agg.Seconds.CI(stats.Z99))
	}

	for _, agg := range r.Aggregates {
		samples := agg.ExpansionSamples()
		if len(samples) < 2 {
			continue
		}
		p.Fprintf(&sb, "\nexpansions, %s (min %d, max %d):\n",
			agg.Name, int(agg.Expansions.Min()), int(agg.Expansions.Max()))
		hist := histogram.Hist(15, samples)
		histogram.Fprint(&sb, hist, histogram.Linear(40))
	}
	return sb.String()
}
