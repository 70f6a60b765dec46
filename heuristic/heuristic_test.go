package heuristic

import (
	"testing"

	"github.com/matryer/is"

	"github.com/kelpfork/sliptile/board"
	"github.com/kelpfork/sliptile/rules"
)

func mustParse(t *testing.T, s string) board.Board {
	t.Helper()
	b, err := board.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestEvaluatorsAgainstKnownBoards(t *testing.T) {
	is := is.New(t)
	goals := rules.Goals()

	cases := []struct {
		board     string
		manhattan int
		misplaced int
	}{
		{"123/405/786", 2, 2},
		{"103/245/786", 5, 4},
		{"143/025/786", 5, 4},
		{"253/416/078", 6, 5},
		{"413/205/786", 6, 5},
		{"867/254/301", 5, 3},
		{"528/417/036", 14, 6},
	}
	for _, c := range cases {
		b := mustParse(t, c.board)
		is.Equal(Manhattan(b, goals), c.manhattan)
		is.Equal(Misplaced(b, goals), c.misplaced)
	}
}

func TestEvaluatorsAreZeroAtGoals(t *testing.T) {
	is := is.New(t)
	goals := rules.Goals()

	for _, g := range goals {
		is.Equal(Manhattan(g, goals), 0)
		is.Equal(Misplaced(g, goals), 0)
	}
}

func TestMinimumOverGoals(t *testing.T) {
	is := is.New(t)
	goals := rules.Goals()

	// against the classic goal alone the estimates can only go up
	b := mustParse(t, "253/416/078")
	is.Equal(Manhattan(b, goals[:1]), 6)
	is.True(Manhattan(b, goals[:1]) >= Manhattan(b, goals))
	is.True(Misplaced(b, goals[:1]) >= Misplaced(b, goals))
}

func TestEmptyGoalSetPanics(t *testing.T) {
	is := is.New(t)

	defer func() {
		is.True(recover() != nil)
	}()
	Manhattan(mustParse(t, "123/405/786"), nil)
}

func TestManhattanDominatesMisplaced(t *testing.T) {
	is := is.New(t)
	goals := rules.Goals()

	rng := board.NewRNG(4)
	for i := 0; i < 1000; i++ {
		b := board.Random(rng)
		is.True(Manhattan(b, goals) >= Misplaced(b, goals))
	}
}

// slideDistances runs a multi-source BFS from the goals over plain slides,
// returning the exact slide-only distance of every arrangement that can
// reach a goal without the swap rule.
func slideDistances() map[board.Board]int {
	dist := make(map[board.Board]int, 181440)
	queue := make([]board.Board, 0, 181440)
	for _, g := range rules.Goals() {
		dist[g] = 0
		queue = append(queue, g)
	}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		d := dist[cur]
		for _, dir := range board.Directions {
			nb, ok := cur.Slide(dir)
			if !ok {
				continue
			}
			if _, seen := dist[nb]; !seen {
				dist[nb] = d + 1
				queue = append(queue, nb)
			}
		}
	}
	return dist
}

func TestAdmissibleOnSlideOnlyDistances(t *testing.T) {
	is := is.New(t)
	goals := rules.Goals()

	// The automatic swaps can shorten true distances below the estimates,
	// so admissibility is stated against the plain sliding model. All four
	// goals have even tile parity and share one component of half the
	// arrangements.
	dist := slideDistances()
	is.Equal(len(dist), 181440)

	for b, d := range dist {
		if m := Manhattan(b, goals); m > d {
			t.Fatalf("manhattan overestimates %v: h=%d, true distance %d", b, m, d)
		}
		if m := Misplaced(b, goals); m > d {
			t.Fatalf("misplaced overestimates %v: h=%d, true distance %d", b, m, d)
		}
	}
}

func TestByName(t *testing.T) {
	is := is.New(t)
	goals := rules.Goals()

	ev, err := ByName("manhattan")
	is.NoErr(err)
	is.Equal(ev(mustParse(t, "123/405/786"), goals), 2)

	ev, err = ByName("misplaced")
	is.NoErr(err)
	is.Equal(ev(mustParse(t, "867/254/301"), goals), 3)

	_, err = ByName("euclidean")
	is.True(err != nil)

	is.Equal(Names(), []string{"manhattan", "misplaced"})
}
