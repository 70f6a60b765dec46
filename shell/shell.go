// Package shell implements the interactive console. It wraps readline with
// history and autocomplete, keeps a current board, and exposes the solver,
// the scramblers and the experiment harness as commands.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/kelpfork/sliptile/astar"
	"github.com/kelpfork/sliptile/board"
	"github.com/kelpfork/sliptile/config"
	"github.com/kelpfork/sliptile/experiment"
	"github.com/kelpfork/sliptile/heuristic"
	"github.com/kelpfork/sliptile/rules"
)

// TreeFile is where the tree command writes its DOT export unless a path
// is given.
const TreeFile = "/tmp/sliptile_tree.dot"

var (
	errQuit              = errors.New("sending quit signal")
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	cur        board.Board
	rng        *frand.RNG
	lastSolver *astar.Solver
	lastPath   []board.Board
	lastName   string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// shellcmd is one parsed console line: the command word, positional args,
// and -key value options.
type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func extractFields(line string) (*shellcmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := strings.ToLower(fields[0])
	var args []string
	options := CmdOptions{}
	lastOption := ""
	for _, field := range fields[1:] {
		if strings.HasPrefix(field, "-") && len(field) > 1 {
			if lastOption != "" {
				return nil, errWrongOptionSyntax
			}
			lastOption = field[1:]
			continue
		}
		if lastOption != "" {
			options[lastOption] = append(options[lastOption], field)
			lastOption = ""
		} else {
			args = append(args, field)
		}
	}
	if lastOption != "" {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := &ShellController{
		cfg: cfg,
		cur: rules.DefaultStart,
		rng: board.NewRNG(cfg.GetUint64("seed")),
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31msliptile>\033[0m ",
		HistoryFile:     "/tmp/sliptile_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		AutoComplete:        NewShellCompleter(sc),
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Loop reads and dispatches commands until exit, EOF or an interrupt on an
// empty line, then notifies sig so main can shut down.
func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		resp, err := sc.dispatch(line, sig)
		if err == errQuit {
			break
		}
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Execute runs a single command line, for non-interactive invocations.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	defer sc.l.Close()
	resp, err := sc.dispatch(line, sig)
	if err != nil && err != errQuit {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) dispatch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "show":
		return sc.show(cmd)
	case "set":
		return sc.setBoard(cmd)
	case "random":
		return sc.random(cmd)
	case "scramble":
		return sc.scramble(cmd)
	case "goals":
		return sc.goals(cmd)
	case "solve":
		return sc.solve(cmd)
	case "compare":
		return sc.compare(cmd)
	case "path":
		return sc.path(cmd)
	case "tree":
		return sc.tree(cmd)
	case "seed":
		return sc.seed(cmd)
	case "experiment":
		return sc.experiment(cmd)
	case "exit":
		sig <- syscall.SIGINT
		return nil, errQuit
	default:
		return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
	}
}

// boardSummary renders a board with both heuristic estimates under it.
func (sc *ShellController) boardSummary(b board.Board) string {
	goals := rules.Goals()
	var sb strings.Builder
	sb.WriteString(b.ToDisplayText())
	fmt.Fprintf(&sb, "\n\nmanhattan %d, misplaced %d",
		heuristic.Manhattan(b, goals), heuristic.Misplaced(b, goals))
	if rules.IsGoal(b) {
		sb.WriteString(" (goal position)")
	}
	return sb.String()
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.boardSummary(sc.cur)), nil
}

func (sc *ShellController) setBoard(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a board, e.g. set 1 2 3/4 0 5/7 8 6")
	}
	b, err := board.Parse(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	sc.cur = b
	return msg(sc.boardSummary(sc.cur)), nil
}

func (sc *ShellController) random(cmd *shellcmd) (*Response, error) {
	sc.cur = board.Random(sc.rng)
	return msg(sc.boardSummary(sc.cur)), nil
}

func (sc *ShellController) scramble(cmd *shellcmd) (*Response, error) {
	steps := 20
	if len(cmd.args) > 0 {
		var err error
		steps, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	goals := rules.Goals()
	from := goals[sc.rng.Intn(len(goals))]
	sc.cur = rules.Scramble(from, steps, sc.rng)
	return msg(sc.boardSummary(sc.cur)), nil
}

func (sc *ShellController) goals(cmd *shellcmd) (*Response, error) {
	parts := lo.Map(rules.Goals(), func(g board.Board, _ int) string {
		return g.ToDisplayText()
	})
	return msg(strings.Join(parts, "\n\n")), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	name := sc.cfg.GetString("heuristic")
	if len(cmd.args) > 0 {
		name = cmd.args[0]
	}
	if name == "both" {
		return sc.compare(cmd)
	}
	ev, err := heuristic.ByName(name)
	if err != nil {
		return nil, err
	}
	s := &astar.Solver{}
	if err = s.Init(rules.Goals(), ev); err != nil {
		return nil, err
	}
	tstart := time.Now()
	path, err := s.Solve(context.Background(), sc.cur)
	if err != nil {
		return nil, err
	}
	sc.lastSolver = s
	sc.lastPath = path
	sc.lastName = name
	return msg(fmt.Sprintf(
		"%s solved in %d moves (%d expansions, peak frontier %d, %.4fs)\nuse path to list the moves, tree to export the search tree",
		name, len(path)-1, s.Expansions(), s.PeakFrontier(),
		time.Since(tstart).Seconds())), nil
}

func (sc *ShellController) compare(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-10s %6s %11s %14s %8s\n",
		"heuristic", "moves", "expansions", "peak frontier", "seconds")
	for _, name := range heuristic.Names() {
		ev, err := heuristic.ByName(name)
		if err != nil {
			return nil, err
		}
		s := &astar.Solver{}
		if err = s.Init(rules.Goals(), ev); err != nil {
			return nil, err
		}
		tstart := time.Now()
		path, err := s.Solve(context.Background(), sc.cur)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "%-10s %6d %11d %14d %8.4f\n",
			name, len(path)-1, s.Expansions(), s.PeakFrontier(),
			time.Since(tstart).Seconds())
		sc.lastSolver = s
		sc.lastPath = path
		sc.lastName = name
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) path(cmd *shellcmd) (*Response, error) {
	if sc.lastPath == nil {
		return nil, errors.New("please solve a board first")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s path, %d moves\n", sc.lastName, len(sc.lastPath)-1)
	for i, b := range sc.lastPath {
		fmt.Fprintf(&sb, "%3d  %s\n", i, b)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) tree(cmd *shellcmd) (*Response, error) {
	if sc.lastSolver == nil {
		return nil, errors.New("please solve a board first")
	}
	max := sc.cfg.GetInt("visualize")
	file := TreeFile
	if len(cmd.args) > 0 {
		var err error
		max, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if len(cmd.args) > 1 {
		file = cmd.args[1]
	}
	f, err := os.Create(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err = sc.lastSolver.WriteDOT(f, max); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("wrote %d search-tree edges to %s",
		len(sc.lastSolver.SearchTree(max)), file)), nil
}

func (sc *ShellController) seed(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a seed value")
	}
	n, err := strconv.ParseUint(cmd.args[0], 10, 64)
	if err != nil {
		return nil, err
	}
	sc.rng = board.NewRNG(n)
	return msg("reseeded random source"), nil
}

func (sc *ShellController) experiment(cmd *shellcmd) (*Response, error) {
	trials, err := cmd.options.IntDefault("trials", sc.cfg.GetInt("trials"))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.cfg.GetInt("threads"))
	if err != nil {
		return nil, err
	}
	scramble, err := cmd.options.IntDefault("scramble", sc.cfg.GetInt("scramble"))
	if err != nil {
		return nil, err
	}
	seed := sc.cfg.GetUint64("seed")
	if s := cmd.options.String("seed"); s != "" {
		seed, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
	}
	ecfg := experiment.Config{
		Trials:        trials,
		Threads:       threads,
		Seed:          seed,
		ScrambleSteps: scramble,
	}
	logfile := cmd.options.String("log")
	if logfile == "" {
		logfile = sc.cfg.GetString("trial-log")
	}
	if logfile != "" {
		f, ferr := os.Create(logfile)
		if ferr != nil {
			return nil, ferr
		}
		defer f.Close()
		ecfg.LogStream = f
		sc.showMessage("trial records will stream to " + logfile)
	}
	runner := experiment.NewRunner(ecfg)
	rep, err := runner.Run(context.Background())
	if err != nil {
		return nil, err
	}
	return msg(rep.String()), nil
}
