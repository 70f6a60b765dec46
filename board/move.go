package board

// Direction is one of the four orthogonal blank moves.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all moves in the canonical expansion order. Successor
// generation iterates this order so that search traces are reproducible.
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

func (d Direction) delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// Slide moves the blank one cell in the given direction. It returns the new
// board and true, or the zero board and false if the move would leave the
// grid. The receiver is never modified.
func (b Board) Slide(d Direction) (Board, bool) {
	br, bc := b.Blank()
	dr, dc := d.delta()
	nr, nc := br+dr, bc+dc
	if nr < 0 || nr >= Dim || nc < 0 || nc >= Dim {
		return Board{}, false
	}
	return b.Swap(int(b.blank), nr*Dim+nc), true
}
