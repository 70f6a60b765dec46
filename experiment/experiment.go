// Package experiment runs batches of solves and aggregates per-heuristic
// statistics: success rate, path length, node counts and wall time. Trials
// are spread over worker goroutines, but each trial's board is derived from
// the base seed and the trial index alone, so a seeded run is reproducible
// at any thread count.
package experiment

import (
	"context"
	"errors"
	"io"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/kelpfork/sliptile/astar"
	"github.com/kelpfork/sliptile/board"
	"github.com/kelpfork/sliptile/heuristic"
	"github.com/kelpfork/sliptile/rules"
	"github.com/kelpfork/sliptile/stats"
)

// A TrialRecord is one solve's outcome. Each record is serialized to the
// trial log as a single-element YAML list, so the log file as a whole reads
// back as one list no matter how many records were appended.
type TrialRecord struct {
	Trial      int     `json:"trial" yaml:"trial"`
	Thread     int     `json:"thread" yaml:"thread"`
	Board      string  `json:"board" yaml:"board"`
	Heuristic  string  `json:"heuristic" yaml:"heuristic"`
	Solved     bool    `json:"solved" yaml:"solved"`
	Moves      int     `json:"moves" yaml:"moves"`
	Expansions int     `json:"expansions" yaml:"expansions"`
	Frontier   int     `json:"frontier" yaml:"frontier"`
	Seconds    float64 `json:"seconds" yaml:"seconds"`
}

// Config describes an experiment run. Zero values fall back to defaults in
// NewRunner.
type Config struct {
	Trials  int
	Threads int
	// Seed of 0 picks a random base seed; the effective seed is logged
	// and reported so any run can be repeated.
	Seed uint64
	// ScrambleSteps of 0 samples boards uniformly from all arrangements;
	// a positive value instead walks that many random moves out of a
	// randomly chosen goal.
	ScrambleSteps int
	// LogStream, when set, receives a YAML TrialRecord stream.
	LogStream io.Writer
}

// Aggregate collects one heuristic's results across trials. Workers record
// concurrently; the embedded mutex guards every field.
type Aggregate struct {
	sync.Mutex
	Name       string
	Solved     int
	Moves      stats.Statistic
	Expansions stats.Statistic
	Frontier   stats.Statistic
	Seconds    stats.Statistic

	samples []float64
}

func (a *Aggregate) record(rec TrialRecord) {
	a.Lock()
	defer a.Unlock()
	if !rec.Solved {
		return
	}
	a.Solved++
	a.Moves.Push(float64(rec.Moves))
	a.Expansions.Push(float64(rec.Expansions))
	a.Frontier.Push(float64(rec.Frontier))
	a.Seconds.Push(rec.Seconds)
	a.samples = append(a.samples, float64(rec.Expansions))
}

// ExpansionSamples returns a copy of the raw expansion counts recorded so
// far, one per solved trial.
func (a *Aggregate) ExpansionSamples() []float64 {
	a.Lock()
	defer a.Unlock()
	out := make([]float64, len(a.samples))
	copy(out, a.samples)
	return out
}

// Runner drives an experiment: a feeder queues trial indexes, workers solve
// each trial's board with every registered heuristic, and an optional
// writer goroutine drains the trial log.
type Runner struct {
	cfg        Config
	goals      []board.Board
	names      []string
	seed       uint64
	aggregates map[string]*Aggregate
	trialCount atomic.Uint64
}

func NewRunner(cfg Config) *Runner {
	if cfg.Trials <= 0 {
		cfg.Trials = 50
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.NumCPU()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64)
	}
	r := &Runner{
		cfg:        cfg,
		goals:      rules.Goals(),
		names:      heuristic.Names(),
		seed:       seed,
		aggregates: make(map[string]*Aggregate),
	}
	for _, n := range r.names {
		r.aggregates[n] = &Aggregate{Name: n}
	}
	return r
}

// Seed returns the effective base seed of this run.
func (r *Runner) Seed() uint64 {
	return r.seed
}

// Trials returns how many trials have completed so far. Safe to call while
// the run is in flight.
func (r *Runner) Trials() int {
	return int(r.trialCount.Load())
}

// Aggregate returns the aggregate for a heuristic name, or nil for an
// unknown name.
func (r *Runner) Aggregate(name string) *Aggregate {
	return r.aggregates[name]
}

// trialSeed derives a per-trial stream so a trial's board depends only on
// the base seed and the trial index, never on worker scheduling.
func (r *Runner) trialSeed(trial int) uint64 {
	return r.seed + uint64(trial+1)*0x9e3779b97f4a7c15
}

func (r *Runner) startBoard(trial int) board.Board {
	rng := board.NewRNG(r.trialSeed(trial))
	if r.cfg.ScrambleSteps > 0 {
		from := r.goals[rng.Intn(len(r.goals))]
		return rules.Scramble(from, r.cfg.ScrambleSteps, rng)
	}
	return board.Random(rng)
}

// Run executes the configured trials and builds the report. It returns the
// context's error if canceled mid-run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	log.Info().
		Int("trials", r.cfg.Trials).
		Int("threads", r.cfg.Threads).
		Uint64("seed", r.seed).
		Int("scramble-steps", r.cfg.ScrambleSteps).
		Msg("experiment-start")
	tstart := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int, 100)
	logChan := make(chan []byte)
	done := make(chan bool)

	writer := errgroup.Group{}
	if r.cfg.LogStream != nil {
		writer.Go(func() error {
			for {
				select {
				case bytes := <-logChan:
					r.cfg.LogStream.Write(bytes)
				case <-done:
					return nil
				}
			}
		})
	}

	g := errgroup.Group{}
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < r.cfg.Trials; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				// a worker carries the real error
				return nil
			}
		}
		return nil
	})
	for t := 0; t < r.cfg.Threads; t++ {
		g.Go(func() error {
			for trial := range jobs {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := r.runTrial(ctx, trial, t, logChan); err != nil {
					cancel()
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if r.cfg.LogStream != nil {
		close(done)
		writer.Wait()
	}
	if err == nil {
		// the feeder can win the race and drain cleanly before any
		// worker observes the cancellation
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(tstart)
	log.Info().
		Float64("time-elapsed-sec", elapsed.Seconds()).
		Uint64("trials-run", r.trialCount.Load()).
		Msg("experiment-ended")

	return &Report{
		Trials:  int(r.trialCount.Load()),
		Seed:    r.seed,
		Elapsed: elapsed,
		Aggregates: lo.Map(r.names, func(n string, _ int) *Aggregate {
			return r.aggregates[n]
		}),
	}, nil
}

func (r *Runner) runTrial(ctx context.Context, trial, thread int, logChan chan []byte) error {
	start := r.startBoard(trial)
	for _, name := range r.names {
		ev, err := heuristic.ByName(name)
		if err != nil {
			return err
		}
		s := &astar.Solver{}
		if err := s.Init(r.goals, ev); err != nil {
			return err
		}
		tsolve := time.Now()
		path, err := s.Solve(ctx, start)
		seconds := time.Since(tsolve).Seconds()
		if err != nil && !errors.Is(err, astar.ErrNoSolution) {
			return err
		}
		moves := 0
		if err == nil {
			moves = len(path) - 1
		}
		rec := TrialRecord{
			Trial:      trial,
			Thread:     thread,
			Board:      start.String(),
			Heuristic:  name,
			Solved:     err == nil,
			Moves:      moves,
			Expansions: s.Expansions(),
			Frontier:   s.PeakFrontier(),
			Seconds:    seconds,
		}
		r.aggregates[name].record(rec)
		if r.cfg.LogStream != nil {
			out, merr := yaml.Marshal([]TrialRecord{rec})
			if merr != nil {
				log.Error().Err(merr).Msg("marshalling trial record")
				return merr
			}
			select {
			case logChan <- out:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	r.trialCount.Add(1)
	return nil
}
