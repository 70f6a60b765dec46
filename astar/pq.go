package astar

import "github.com/kelpfork/sliptile/board"

// A frontier entry pairs a board with the f-cost it was pushed under and a
// monotonic sequence number. Rediscovering a board on a cheaper path pushes
// a second entry rather than reprioritizing the first; the stale one is
// recognized and dropped when popped.
type entry struct {
	state board.Board
	f     int
	seq   uint64
}

// frontier is a min-heap ordered by f-cost, with the sequence number
// breaking ties first-in first-out. Every (f, seq) key is unique, so pop
// order and with it every node count is reproducible run to run.
type frontier []entry

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x any) {
	*q = append(*q, x.(entry))
}

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}
