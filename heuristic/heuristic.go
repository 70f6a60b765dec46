// Package heuristic provides the evaluators that guide the search. Each
// evaluator scores a board against every acceptable goal and keeps the
// minimum, so moving toward any one goal lowers the estimate.
package heuristic

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/kelpfork/sliptile/board"
)

// An Evaluator estimates remaining cost from b to the nearest of the given
// goals. Evaluators panic on an empty goal set; a minimum over nothing has
// no value to return.
type Evaluator func(b board.Board, goals []board.Board) int

// Manhattan sums, tile by tile, the row plus column distance between a
// tile's cell and its cell in the goal, skipping the blank, and returns the
// smallest sum over all goals.
func Manhattan(b board.Board, goals []board.Board) int {
	if len(goals) == 0 {
		panic("empty goal set")
	}
	tiles := b.Tiles()
	best := -1
	for _, g := range goals {
		var pos [board.Cells]int8
		for i, t := range g.Tiles() {
			pos[t] = int8(i)
		}
		sum := 0
		for i, t := range tiles {
			if t == board.Blank {
				continue
			}
			j := int(pos[t])
			dr := i/board.Dim - j/board.Dim
			dc := i%board.Dim - j%board.Dim
			if dr < 0 {
				dr = -dr
			}
			if dc < 0 {
				dc = -dc
			}
			sum += dr + dc
		}
		if best < 0 || sum < best {
			best = sum
		}
	}
	return best
}

// Misplaced counts the non-blank tiles that are not on their goal cell and
// returns the smallest count over all goals.
func Misplaced(b board.Board, goals []board.Board) int {
	if len(goals) == 0 {
		panic("empty goal set")
	}
	tiles := b.Tiles()
	best := -1
	for _, g := range goals {
		gt := g.Tiles()
		count := 0
		for i, t := range tiles {
			if t == board.Blank {
				continue
			}
			if t != gt[i] {
				count++
			}
		}
		if best < 0 || count < best {
			best = count
		}
	}
	return best
}

var evaluators = map[string]Evaluator{
	"manhattan": Manhattan,
	"misplaced": Misplaced,
}

// ByName returns the evaluator registered under name.
func ByName(name string) (Evaluator, error) {
	ev, ok := evaluators[name]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q, have %v", name, Names())
	}
	return ev, nil
}

// Names lists the registered evaluator names in sorted order.
func Names() []string {
	names := lo.Keys(evaluators)
	sort.Strings(names)
	return names
}
