package game

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Bot picks computer moves with a fixed search depth.
type Bot struct {
	Depth     int
	lastNodes int
}

func NewBot(depth int) *Bot {
	return &Bot{Depth: depth}
}

// ChooseMove searches from the root with the computer to move. The board is
// left exactly as it was. With depth 0 the search cannot name a cell, so the
// first Empty cell in row-major order is taken. The board must not be full.
func (b *Bot) ChooseMove(board *Board) Move {
	start := time.Now()
	s := NewSearcher(board, b.Depth)
	move := s.BestMove(true, b.Depth, math.MaxInt, math.MinInt)
	if !move.Placed() {
		move = firstEmpty(board, move.Score)
	}
	b.lastNodes = s.Nodes()

	log.Debug().
		Int("depth", b.Depth).
		Int("nodes", b.lastNodes).
		Int("row", move.Row).
		Int("column", move.Column).
		Int("score", move.Score).
		Dur("elapsed", time.Since(start)).
		Msg("computer move chosen")
	return move
}

// LastNodes returns the node count of the most recent search.
func (b *Bot) LastNodes() int {
	return b.lastNodes
}

func firstEmpty(board *Board, score int) Move {
	n := board.Size()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if board.At(row, col) == Empty {
				return Move{Row: row, Column: col, Score: score}
			}
		}
	}
	return scoreOnly(score)
}
