package astar

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kelpfork/sliptile/board"
)

// WriteDOT renders the first max edges of the last Solve's search tree as a
// Graphviz digraph, or the whole tree if max <= 0. Nodes are keyed by board
// fingerprint and labeled with the board layout, so the same board reached
// along different branches collapses into one node.
func (s *Solver) WriteDOT(w io.Writer, max int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph searchtree {")
	fmt.Fprintln(bw, `  node [shape=box fontname="monospace"];`)
	seen := make(map[uint64]bool)
	node := func(b board.Board) uint64 {
		fp := b.Fingerprint()
		if !seen[fp] {
			seen[fp] = true
			label := strings.ReplaceAll(b.ToDisplayText(), "\n", `\n`)
			fmt.Fprintf(bw, "  n%016x [label=\"%s\"];\n", fp, label)
		}
		return fp
	}
	for _, e := range s.SearchTree(max) {
		pf := node(e.Parent)
		cf := node(e.Child)
		fmt.Fprintf(bw, "  n%016x -> n%016x;\n", pf, cf)
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
