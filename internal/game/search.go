package game

import "math"

// Move is a candidate placement and its score. Lower scores favour the
// computer, higher scores favour the human.
type Move struct {
	Row    int `json:"row"`
	Column int `json:"column"`
	Score  int `json:"score"`
}

// scoreOnly carries a leaf evaluation without coordinates.
func scoreOnly(score int) Move {
	return Move{Row: -1, Column: -1, Score: score}
}

// Placed reports whether the move names a cell.
func (m Move) Placed() bool {
	return m.Row >= 0 && m.Column >= 0
}

// Searcher runs minimax with alpha-beta pruning directly on a board. Every
// mark it places is removed again before BestMove returns.
type Searcher struct {
	board *Board
	limit int
	nodes int
}

func NewSearcher(board *Board, depthLimit int) *Searcher {
	return &Searcher{board: board, limit: depthLimit}
}

// Nodes returns how many positions the searcher has visited so far.
func (s *Searcher) Nodes() int {
	return s.nodes
}

// BestMove searches remaining plies ahead for the side to move. The computer
// minimises and tightens alpha, the human maximises and tightens beta; both
// stop scanning once beta >= alpha. Ties keep the first move in row-major
// order.
func (s *Searcher) BestMove(computerToMove bool, remaining, alpha, beta int) Move {
	s.nodes++
	if remaining == 0 || s.board.Full() {
		return scoreOnly(evaluate(s.board))
	}

	mover, best := Human, scoreOnly(math.MinInt)
	if computerToMove {
		mover, best = Computer, scoreOnly(math.MaxInt)
	}

	n := s.board.Size()
scan:
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if s.board.At(row, col) != Empty {
				continue
			}
			score := s.board.simulate(row, col, mover, func() int {
				if s.board.HasWon(mover) {
					return s.winScore(mover, remaining)
				}
				return s.BestMove(!computerToMove, remaining-1, alpha, beta).Score
			})

			if computerToMove {
				if score < best.Score {
					best = Move{Row: row, Column: col, Score: score}
				}
				alpha = min(alpha, score)
			} else {
				if score > best.Score {
					best = Move{Row: row, Column: col, Score: score}
				}
				beta = max(beta, score)
			}
			if beta >= alpha {
				break scan
			}
		}
	}
	return best
}

// winScore ranks a win found with remaining plies left: the sooner the win,
// the closer the score sits to the winner's extreme.
func (s *Searcher) winScore(winner Cell, remaining int) int {
	plies := max(s.limit-remaining, 0)
	if winner == Computer {
		return math.MinInt + plies
	}
	return math.MaxInt - plies
}

// evaluate scores a position reached at the search horizon.
func evaluate(b *Board) int {
	switch {
	case b.HasWon(Computer):
		return -1
	case b.HasWon(Human):
		return 1
	default:
		return 0
	}
}
