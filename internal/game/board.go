package game

import (
	"errors"
	"fmt"
	"strings"
)

type Cell uint8

const (
	Empty Cell = iota
	Human
	Computer
)

var ErrBadBoard = errors.New("board must be a non-empty square of . X O glyphs")

func (c Cell) String() string {
	switch c {
	case Human:
		return "X"
	case Computer:
		return "O"
	default:
		return "."
	}
}

func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case ".":
		*c = Empty
	case "X":
		*c = Human
	case "O":
		*c = Computer
	default:
		return fmt.Errorf("unknown cell glyph %q", text)
	}
	return nil
}

// Board is a square grid stored row-major. Coordinates are not validated;
// callers check InBounds and IsEmpty before a real move.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard(size int) *Board {
	return &Board{size: size, cells: make([]Cell, size*size)}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) At(row, col int) Cell {
	return b.cells[row*b.size+col]
}

func (b *Board) Set(row, col int, cell Cell) {
	b.cells[row*b.size+col] = cell
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

func (b *Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == Empty
}

// Full reports whether no cell is Empty.
func (b *Board) Full() bool {
	for _, c := range b.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

func (b *Board) Clone() *Board {
	clone := &Board{size: b.size, cells: make([]Cell, len(b.cells))}
	copy(clone.cells, b.cells)
	return clone
}

// Cells returns a row-by-row copy of the grid.
func (b *Board) Cells() [][]Cell {
	rows := make([][]Cell, b.size)
	for r := range rows {
		rows[r] = make([]Cell, b.size)
		copy(rows[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return rows
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b.cells) + b.size)
	for r := 0; r < b.size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.size; c++ {
			sb.WriteString(b.At(r, c).String())
		}
	}
	return sb.String()
}

// ParseBoard reads the String form back into a board.
func ParseBoard(text string) (*Board, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	size := len(lines)
	if size == 0 || lines[0] == "" {
		return nil, ErrBadBoard
	}
	b := NewBoard(size)
	for r, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != size {
			return nil, ErrBadBoard
		}
		for c, ch := range line {
			switch ch {
			case '.':
			case 'X':
				b.Set(r, c, Human)
			case 'O':
				b.Set(r, c, Computer)
			default:
				return nil, ErrBadBoard
			}
		}
	}
	return b, nil
}

func (b *Board) place(row, col int, player Cell) {
	b.cells[row*b.size+col] = player
}

func (b *Board) undo(row, col int) {
	b.cells[row*b.size+col] = Empty
}

// simulate places player at an Empty cell for the duration of fn and
// restores the cell on every way out of fn.
func (b *Board) simulate(row, col int, player Cell, fn func() int) int {
	b.place(row, col, player)
	defer b.undo(row, col)
	return fn()
}
