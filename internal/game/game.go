package game

import (
	"errors"
	"fmt"
)

type Outcome int

const (
	Continue Outcome = iota
	HumanWon
	ComputerWon
	Draw
)

var (
	ErrInvalidSize  = errors.New("board size must be at least 1")
	ErrInvalidDepth = errors.New("search depth must not be negative")
)

func (o Outcome) String() string {
	switch o {
	case HumanWon:
		return "human_won"
	case ComputerWon:
		return "computer_won"
	case Draw:
		return "draw"
	default:
		return "continue"
	}
}

// Finished reports whether the outcome ends the game.
func (o Outcome) Finished() bool {
	return o != Continue
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range []Outcome{Continue, HumanWon, ComputerWon, Draw} {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Game plays one human against the computer on a single board.
type Game struct {
	board    *Board
	bot      *Bot
	last     Move
	hasMoved bool
}

func NewGame(size, depth int) (*Game, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	if depth < 0 {
		return nil, ErrInvalidDepth
	}
	return &Game{board: NewBoard(size), bot: NewBot(depth)}, nil
}

// NewGameFromBoard resumes play on an existing position.
func NewGameFromBoard(board *Board, depth int) (*Game, error) {
	if board == nil || board.Size() < 1 {
		return nil, ErrInvalidSize
	}
	if depth < 0 {
		return nil, ErrInvalidDepth
	}
	return &Game{board: board, bot: NewBot(depth)}, nil
}

// HumanMove marks (row, column) for the human. The cell must be inside the
// board and Empty; neither is checked here.
func (g *Game) HumanMove(row, column int) Outcome {
	g.board.Set(row, column, Human)
	if g.board.HasWon(Human) {
		return HumanWon
	}
	if g.board.Full() {
		return Draw
	}
	return Continue
}

// ComputerMove searches for the computer's reply and commits it.
func (g *Game) ComputerMove() Outcome {
	if g.board.Full() {
		return Draw
	}
	move := g.bot.ChooseMove(g.board)
	g.board.Set(move.Row, move.Column, Computer)
	g.last, g.hasMoved = move, true

	if g.board.HasWon(Computer) {
		return ComputerWon
	}
	if g.board.Full() {
		return Draw
	}
	return Continue
}

// LastComputerMove returns the computer's most recent move, if any.
func (g *Game) LastComputerMove() (Move, bool) {
	return g.last, g.hasMoved
}

// Board exposes the live board for reads; mutate it only through the game.
func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) Size() int {
	return g.board.Size()
}

func (g *Game) Depth() int {
	return g.bot.Depth
}

// SearchNodes returns the node count of the last computer search.
func (g *Game) SearchNodes() int {
	return g.bot.LastNodes()
}

func (g *Game) String() string {
	return g.board.String()
}
