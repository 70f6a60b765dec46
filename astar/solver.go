// Package astar implements best-first search over the puzzle's move model.
// Cost is one per move, estimates come from a heuristic evaluator, and the
// frontier uses lazy deletion: superseded entries stay queued and are
// discarded on pop via the closed set.
package astar

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kelpfork/sliptile/board"
	"github.com/kelpfork/sliptile/heuristic"
	"github.com/kelpfork/sliptile/rules"
)

// ErrNoSolution is returned when the frontier drains without reaching a
// goal, or when the position fails the solvability check up front.
var ErrNoSolution = errors.New("no path to any goal")

// expansions between context cancellation checks
const ctxCheckInterval = 1024

// An Edge records that child was put on the frontier while expanding
// parent. Edges are kept in discovery order.
type Edge struct {
	Parent board.Board
	Child  board.Board
}

// Solver runs A* over the slide-and-swap move model. Init it once with a
// goal set and an evaluator; every Solve resets the counters and the search
// tree, so both always describe the most recent run. A Solver is not safe
// for concurrent use. Experiment workers each hold their own.
type Solver struct {
	goals []board.Board
	ev    heuristic.Evaluator

	expansions   atomic.Uint64
	peakFrontier int
	tree         []Edge
}

func (s *Solver) Init(goals []board.Board, ev heuristic.Evaluator) error {
	if len(goals) == 0 {
		return errors.New("at least one goal board is required")
	}
	if ev == nil {
		return errors.New("an evaluator is required")
	}
	s.goals = make([]board.Board, len(goals))
	copy(s.goals, goals)
	s.ev = ev
	return nil
}

// Expansions returns the number of boards expanded by the last Solve.
func (s *Solver) Expansions() int {
	return int(s.expansions.Load())
}

// PeakFrontier returns the largest frontier size seen during the last
// Solve, sampled at the top of the loop before each pop.
func (s *Solver) PeakFrontier() int {
	return s.peakFrontier
}

// SearchTree returns the first max edges of the last Solve's search tree in
// discovery order, or every edge if max <= 0.
func (s *Solver) SearchTree(max int) []Edge {
	if max <= 0 || max > len(s.tree) {
		max = len(s.tree)
	}
	out := make([]Edge, max)
	copy(out, s.tree[:max])
	return out
}

// Solve searches from start and returns the move sequence to the first goal
// reached, start and goal included. It returns ErrNoSolution if no goal is
// reachable, and the context's error if the search is canceled mid-run.
func (s *Solver) Solve(ctx context.Context, start board.Board) ([]board.Board, error) {
	if s.ev == nil || len(s.goals) == 0 {
		return nil, errors.New("solver not initialized")
	}
	s.expansions.Store(0)
	s.peakFrontier = 0
	s.tree = s.tree[:0]

	if !rules.Solvable(start) {
		return nil, ErrNoSolution
	}
	tstart := time.Now()

	g := &errgroup.Group{}
	done := make(chan bool)
	var path []board.Board

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.expansions.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("expansions-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		var err error
		path, err = s.search(ctx, start)
		done <- true
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug().
		Int("path-length", len(path)).
		Uint64("expansions", s.expansions.Load()).
		Int("peak-frontier", s.peakFrontier).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return path, nil
}

func (s *Solver) search(ctx context.Context, start board.Board) ([]board.Board, error) {
	open := frontier{{state: start, f: s.ev(start, s.goals)}}
	heap.Init(&open)
	var seq uint64

	gcost := map[board.Board]int{start: 0}
	parent := make(map[board.Board]board.Board)
	closed := make(map[board.Board]struct{})

	for open.Len() > 0 {
		if open.Len() > s.peakFrontier {
			s.peakFrontier = open.Len()
		}
		cur := heap.Pop(&open).(entry)
		if s.isGoal(cur.state) {
			return reconstructPath(parent, cur.state), nil
		}
		if _, ok := closed[cur.state]; ok {
			// stale entry superseded by a cheaper push
			continue
		}
		closed[cur.state] = struct{}{}

		n := s.expansions.Add(1)
		if n%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("search aborted after %d expansions: %w", n, ctx.Err())
			default:
			}
		}

		curG := gcost[cur.state]
		for _, nb := range rules.Neighbors(cur.state) {
			if _, ok := closed[nb]; ok {
				continue
			}
			tentative := curG + 1
			if prev, ok := gcost[nb]; ok && tentative >= prev {
				continue
			}
			gcost[nb] = tentative
			parent[nb] = cur.state
			s.tree = append(s.tree, Edge{Parent: cur.state, Child: nb})
			seq++
			heap.Push(&open, entry{state: nb, f: tentative + s.ev(nb, s.goals), seq: seq})
		}
	}
	return nil, ErrNoSolution
}

func (s *Solver) isGoal(b board.Board) bool {
	for _, g := range s.goals {
		if b == g {
			return true
		}
	}
	return false
}

func reconstructPath(parent map[board.Board]board.Board, goal board.Board) []board.Board {
	path := []board.Board{goal}
	cur := goal
	for {
		p, ok := parent[cur]
		if !ok {
			break
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
