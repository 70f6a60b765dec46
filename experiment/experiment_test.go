package experiment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/kelpfork/sliptile/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestRunnerDefaults(t *testing.T) {
	is := is.New(t)

	r := NewRunner(Config{})
	is.Equal(r.cfg.Trials, 50)
	is.True(r.cfg.Threads > 0)

	r = NewRunner(Config{Seed: 42})
	is.Equal(r.Seed(), uint64(42))
}

func TestSeededRunsAreReproducible(t *testing.T) {
	is := is.New(t)

	run := func() *Report {
		r := NewRunner(Config{Trials: 30, Threads: 4, Seed: 5})
		rep, err := r.Run(context.Background())
		is.NoErr(err)
		return rep
	}
	a := run()
	b := run()

	is.Equal(a.Trials, 30)
	is.Equal(len(a.Aggregates), 2)
	is.Equal(a.Aggregates[0].Name, "manhattan")
	is.Equal(a.Aggregates[1].Name, "misplaced")

	for i := range a.Aggregates {
		aa, bb := a.Aggregates[i], b.Aggregates[i]
		is.Equal(aa.Solved, 30)
		is.Equal(bb.Solved, 30)

		// the same boards were solved regardless of scheduling
		as, bs := aa.ExpansionSamples(), bb.ExpansionSamples()
		sort.Float64s(as)
		sort.Float64s(bs)
		is.Equal(as, bs)
	}

	// the cheaper evaluator costs more expansions on aggregate
	is.True(a.Aggregates[0].Expansions.Mean() < a.Aggregates[1].Expansions.Mean())
}

func TestTrialLogStream(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	r := NewRunner(Config{Trials: 4, Threads: 2, Seed: 9, LogStream: &buf})
	_, err := r.Run(context.Background())
	is.NoErr(err)

	// the appended single-record lists read back as one YAML list
	var recs []TrialRecord
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &recs))
	is.Equal(len(recs), 8)

	counts := make(map[string]int)
	for _, rec := range recs {
		counts[rec.Heuristic]++
		is.True(rec.Solved)
		is.True(rec.Moves >= 0)
		is.True(rec.Expansions >= 0)
		_, perr := board.Parse(rec.Board)
		is.NoErr(perr)
	}
	is.Equal(counts["manhattan"], 4)
	is.Equal(counts["misplaced"], 4)
}

func TestScrambledTrials(t *testing.T) {
	is := is.New(t)

	r := NewRunner(Config{Trials: 10, Threads: 2, Seed: 3, ScrambleSteps: 12})
	rep, err := r.Run(context.Background())
	is.NoErr(err)

	for _, agg := range rep.Aggregates {
		is.Equal(agg.Solved, 10)
		// a 12-step walk cannot need many more than 12 moves back
		is.True(agg.Moves.Max() <= 20)
	}
}

func TestCanceledRun(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(Config{Trials: 50, Threads: 2, Seed: 1})
	_, err := r.Run(ctx)
	is.True(err != nil)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(r.Trials(), 0)
}

func TestReportString(t *testing.T) {
	is := is.New(t)

	r := NewRunner(Config{Trials: 12, Threads: 3, Seed: 11})
	rep, err := r.Run(context.Background())
	is.NoErr(err)

	out := rep.String()
	is.True(strings.Contains(out, "12 trials"))
	is.True(strings.Contains(out, "heuristic"))
	is.True(strings.Contains(out, "manhattan"))
	is.True(strings.Contains(out, "misplaced"))
	is.True(strings.Contains(out, "expansions, manhattan"))
	is.True(strings.Contains(out, "expansions, misplaced"))
}
