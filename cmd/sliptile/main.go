package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kelpfork/sliptile/astar"
	"github.com/kelpfork/sliptile/board"
	"github.com/kelpfork/sliptile/config"
	"github.com/kelpfork/sliptile/experiment"
	"github.com/kelpfork/sliptile/heuristic"
	"github.com/kelpfork/sliptile/rules"
	"github.com/kelpfork/sliptile/shell"
)

var (
	GitVersion string
)

//go:embed sliptile.txt
var banner string

func main() {

	fmt.Println(banner)
	fmt.Println(GitVersion)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		// the flag package already printed usage
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
	log.Debug().Msgf("Loaded config: %v", cfg.AllSettings())

	if cfg.GetString("cpu-profile") != "" {
		f, err := os.Create(cfg.GetString("cpu-profile"))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	switch {
	case cfg.GetBool("experiment"):
		if err := runExperiment(cfg); err != nil {
			log.Err(err).Msg("experiment-failed")
		}
	case cfg.GetBool("shell") || len(cfg.Args()) > 0:
		runShell(cfg)
	default:
		if err := oneShot(cfg); err != nil {
			log.Err(err).Msg("solve-failed")
		}
	}

	writeMemProfile(cfg)
}

// runShell starts the readline loop, or executes the positional arguments as
// a single command and exits.
func runShell(cfg *config.Config) {
	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg)
	argsLine := strings.TrimSpace(strings.Join(cfg.Args(), " "))
	if argsLine == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, argsLine)
		sig <- syscall.SIGINT
	}

	<-idleConnsClosed
}

// startBoard builds the instance to solve from the board, scramble and
// random settings, falling back to the default instance.
func startBoard(cfg *config.Config) (board.Board, error) {
	rng := board.NewRNG(cfg.GetUint64("seed"))
	if s := cfg.GetString("board"); s != "" {
		return board.Parse(s)
	}
	if n := cfg.GetInt("scramble"); n > 0 {
		goals := rules.Goals()
		return rules.Scramble(goals[rng.Intn(len(goals))], n, rng), nil
	}
	if cfg.GetBool("random") {
		return board.Random(rng), nil
	}
	return rules.DefaultStart, nil
}

// oneShot solves a single instance and prints the path and the search
// counters, once per configured heuristic.
func oneShot(cfg *config.Config) error {
	start, err := startBoard(cfg)
	if err != nil {
		return err
	}
	fmt.Println(start.ToDisplayText())
	fmt.Println()

	names := []string{cfg.GetString("heuristic")}
	if names[0] == "both" {
		names = heuristic.Names()
	}
	for _, name := range names {
		ev, err := heuristic.ByName(name)
		if err != nil {
			return err
		}
		s := &astar.Solver{}
		if err = s.Init(rules.Goals(), ev); err != nil {
			return err
		}
		tstart := time.Now()
		path, err := s.Solve(context.Background(), start)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d moves, %d expansions, peak frontier %d, %.4fs\n",
			name, len(path)-1, s.Expansions(), s.PeakFrontier(),
			time.Since(tstart).Seconds())
		for i, b := range path {
			fmt.Printf("%3d  %s\n", i, b)
		}
		fmt.Println()

		if base := cfg.GetString("tree-file"); base != "" {
			file := treePath(base, name, len(names) > 1)
			if err = writeTree(s, file, cfg.GetInt("visualize")); err != nil {
				return err
			}
			fmt.Printf("wrote search tree to %s\n", file)
		}
	}
	return nil
}

// treePath suffixes the heuristic name when several heuristics run, so the
// exports do not overwrite each other.
func treePath(base, name string, several bool) string {
	if !several {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + name + ext
}

func writeTree(s *astar.Solver, file string, max int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.WriteDOT(f, max)
}

// runExperiment runs the batch harness and prints the report. Ctrl-C cancels
// the run.
func runExperiment(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	ecfg := experiment.Config{
		Trials:        cfg.GetInt("trials"),
		Threads:       cfg.GetInt("threads"),
		Seed:          cfg.GetUint64("seed"),
		ScrambleSteps: cfg.GetInt("scramble"),
	}
	if logfile := cfg.GetString("trial-log"); logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return err
		}
		defer f.Close()
		ecfg.LogStream = f
	}
	runner := experiment.NewRunner(ecfg)
	rep, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(rep.String())
	return nil
}

func writeMemProfile(cfg *config.Config) {
	if cfg.GetString("mem-profile") == "" {
		return
	}
	f, err := os.Create(cfg.GetString("mem-profile"))
	if err != nil {
		panic("could not create memory profile: " + err.Error())
	}
	defer f.Close()
	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	log.Info().Interface("memstats", memstats).Msg("memory-stats")

	if err := pprof.WriteHeapProfile(f); err != nil {
		panic("could not write memory profile: " + err.Error())
	}
	log.Info().Msg("wrote memory profile")
}
