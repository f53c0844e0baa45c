package game

// runLength is the number of equal marks in a line that wins the game.
const runLength = 4

// HasWon reports whether player owns four contiguous cells in a row, a
// column or either diagonal. Empty never wins.
func (b *Board) HasWon(player Cell) bool {
	if player == Empty {
		return false
	}
	return b.horizontal(player) || b.vertical(player) ||
		b.diagonalDown(player) || b.diagonalUp(player)
}

// Winner returns the player holding four in a row, or Empty.
func (b *Board) Winner() Cell {
	switch {
	case b.HasWon(Computer):
		return Computer
	case b.HasWon(Human):
		return Human
	default:
		return Empty
	}
}

func (b *Board) horizontal(p Cell) bool {
	for r := 0; r < b.size; r++ {
		for c := 0; c+runLength-1 < b.size; c++ {
			if b.At(r, c) == p && b.At(r, c+1) == p && b.At(r, c+2) == p && b.At(r, c+3) == p {
				return true
			}
		}
	}
	return false
}

func (b *Board) vertical(p Cell) bool {
	for r := 0; r+runLength-1 < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if b.At(r, c) == p && b.At(r+1, c) == p && b.At(r+2, c) == p && b.At(r+3, c) == p {
				return true
			}
		}
	}
	return false
}

// diagonalDown scans runs going towards row+1, col+1.
func (b *Board) diagonalDown(p Cell) bool {
	for r := 0; r+runLength-1 < b.size; r++ {
		for c := 0; c+runLength-1 < b.size; c++ {
			if b.At(r, c) == p && b.At(r+1, c+1) == p && b.At(r+2, c+2) == p && b.At(r+3, c+3) == p {
				return true
			}
		}
	}
	return false
}

// diagonalUp scans runs going towards row+1, col-1, so the first cell
// needs three columns to its left.
func (b *Board) diagonalUp(p Cell) bool {
	for r := 0; r+runLength-1 < b.size; r++ {
		for c := runLength - 1; c < b.size; c++ {
			if b.At(r, c) == p && b.At(r+1, c-1) == p && b.At(r+2, c-2) == p && b.At(r+3, c-3) == p {
				return true
			}
		}
	}
	return false
}
