// Package board implements the 3x3 sliding-tile board. A Board is a plain
// comparable value type; two boards compare equal exactly when every cell
// matches, so boards can be used directly as map keys and set members.
package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
)

const (
	// Dim is the side length of the board. The move model and the
	// companion-swap rule are specific to 3x3.
	Dim = 3
	// Cells is the total number of cells.
	Cells = Dim * Dim
	// Blank is the tile value of the empty cell.
	Blank = Tile(0)
)

// Tile is a single cell value, 0 through 8. Zero marks the empty cell.
type Tile int8

// Board is a 3x3 arrangement of the tiles 0 through 8 in row-major order,
// with the blank's cell index cached. It is immutable; all operations return
// new values.
type Board struct {
	tiles [Cells]Tile
	blank int8
}

// New builds a board from a grid and validates that it is a permutation of
// 0..8 with exactly one blank.
func New(grid [Dim][Dim]int) (Board, error) {
	var b Board
	var seen [Cells]bool
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			v := grid[r][c]
			if v < 0 || v >= Cells {
				return Board{}, fmt.Errorf("tile value %d at row %d, col %d out of range", v, r, c)
			}
			if seen[v] {
				return Board{}, fmt.Errorf("duplicate tile %d at row %d, col %d", v, r, c)
			}
			seen[v] = true
			i := r*Dim + c
			b.tiles[i] = Tile(v)
			if v == 0 {
				b.blank = int8(i)
			}
		}
	}
	return b, nil
}

// MustNew is like New but panics on a malformed grid. Meant for fixed
// positions known at compile time.
func MustNew(grid [Dim][Dim]int) Board {
	b, err := New(grid)
	if err != nil {
		panic(err)
	}
	return b
}

// FromTiles builds a board from a flat row-major tile array, with the same
// validation as New.
func FromTiles(tiles [Cells]Tile) (Board, error) {
	var grid [Dim][Dim]int
	for i, t := range tiles {
		grid[i/Dim][i%Dim] = int(t)
	}
	return New(grid)
}

// Parse reads a board from text. Rows are separated by '/' or newlines and a
// row is either three space-separated values or three contiguous digits.
// The blank may be written as 0, '_' or '.'. Both "1 2 3/4 0 5/7 8 6" and
// "123/4_5/786" parse to the same board.
func Parse(s string) (Board, error) {
	rows := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '/' || r == '\n'
	})
	if len(rows) != Dim {
		return Board{}, fmt.Errorf("expected %d rows, got %d", Dim, len(rows))
	}
	var grid [Dim][Dim]int
	for r, row := range rows {
		cells := strings.Fields(row)
		if len(cells) == 1 && len(cells[0]) == Dim {
			contiguous := cells[0]
			cells = make([]string, 0, Dim)
			for _, ch := range contiguous {
				cells = append(cells, string(ch))
			}
		}
		if len(cells) != Dim {
			return Board{}, fmt.Errorf("row %d: expected %d cells, got %q", r, Dim, row)
		}
		for c, cell := range cells {
			if cell == "_" || cell == "." {
				grid[r][c] = 0
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				return Board{}, fmt.Errorf("row %d: bad tile %q", r, cell)
			}
			grid[r][c] = v
		}
	}
	return New(grid)
}

// Tile returns the value at the given row and column.
func (b Board) Tile(row, col int) Tile {
	return b.tiles[row*Dim+col]
}

// Tiles returns the cells in row-major order.
func (b Board) Tiles() [Cells]Tile {
	return b.tiles
}

// Grid returns the board as a nested int grid, the same shape New accepts.
func (b Board) Grid() [Dim][Dim]int {
	var grid [Dim][Dim]int
	for i, t := range b.tiles {
		grid[i/Dim][i%Dim] = int(t)
	}
	return grid
}

// Blank returns the row and column of the empty cell.
func (b Board) Blank() (row, col int) {
	return int(b.blank) / Dim, int(b.blank) % Dim
}

// Swap returns a copy of the board with cells i and j exchanged. Indexes are
// row-major. The blank cache is kept consistent if either cell is the blank.
func (b Board) Swap(i, j int) Board {
	b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	if b.tiles[i] == Blank {
		b.blank = int8(i)
	} else if b.tiles[j] == Blank {
		b.blank = int8(j)
	}
	return b
}

// String renders the board on one line, rows separated by slashes, the blank
// as 0. The output round-trips through Parse.
func (b Board) String() string {
	var sb strings.Builder
	for i, t := range b.tiles {
		if i > 0 {
			if i%Dim == 0 {
				sb.WriteByte('/')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('0' + byte(t))
	}
	return sb.String()
}

// ToDisplayText renders the board as three lines with the blank shown as an
// underscore, for the shell and for search-tree labels.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	for i, t := range b.tiles {
		if i > 0 {
			if i%Dim == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		if t == Blank {
			sb.WriteByte('_')
		} else {
			sb.WriteByte('0' + byte(t))
		}
	}
	return sb.String()
}

// Fingerprint returns a 64-bit content hash of the board. Equal boards have
// equal fingerprints.
func (b Board) Fingerprint() uint64 {
	var buf [Cells]byte
	for i, t := range b.tiles {
		buf[i] = byte(t)
	}
	return xxhash.Sum64(buf[:])
}
