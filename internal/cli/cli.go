// Package cli plays a game against the computer over a line-oriented
// terminal session.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fourinarow/internal/game"

	"github.com/logrusorgru/aurora"
)

var errBadInput = errors.New(`enter a move as "row column", or "quit"`)

type Session struct {
	game *game.Game
	out  io.Writer
	au   aurora.Aurora
}

func NewSession(g *game.Game, out io.Writer, colour bool) *Session {
	return &Session{game: g, out: out, au: aurora.NewAurora(colour)}
}

// Run reads moves from in until the game ends, the input is exhausted or the
// player types quit. It returns the last outcome.
func (s *Session) Run(in io.Reader) (game.Outcome, error) {
	scanner := bufio.NewScanner(in)
	s.printBoard()
	for {
		fmt.Fprint(s.out, "your move (row column): ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return game.Continue, scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" {
			fmt.Fprintln(s.out, "bye")
			return game.Continue, nil
		}
		row, col, err := s.parseMove(line)
		if err != nil {
			fmt.Fprintln(s.out, s.au.Red(err.Error()))
			continue
		}

		outcome := s.game.HumanMove(row, col)
		if !outcome.Finished() {
			outcome = s.game.ComputerMove()
			if mv, ok := s.game.LastComputerMove(); ok {
				fmt.Fprintf(s.out, "computer plays %d %d\n", mv.Row, mv.Column)
			}
		}
		s.printBoard()
		if outcome.Finished() {
			s.printResult(outcome)
			return outcome, nil
		}
	}
}

func (s *Session) parseMove(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, errBadInput
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, errBadInput
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, errBadInput
	}
	b := s.game.Board()
	if !b.InBounds(row, col) {
		return 0, 0, fmt.Errorf("(%d, %d) is off the %dx%d board", row, col, b.Size(), b.Size())
	}
	if !b.IsEmpty(row, col) {
		return 0, 0, fmt.Errorf("(%d, %d) is already taken", row, col)
	}
	return row, col, nil
}

func (s *Session) printBoard() {
	b := s.game.Board()
	var sb strings.Builder
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(s.glyph(b.At(r, c)))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(s.out, sb.String())
}

func (s *Session) glyph(c game.Cell) string {
	switch c {
	case game.Human:
		return s.au.Yellow(c.String()).String()
	case game.Computer:
		return s.au.Cyan(c.String()).String()
	}
	return s.au.Faint(c.String()).String()
}

func (s *Session) printResult(o game.Outcome) {
	switch o {
	case game.HumanWon:
		fmt.Fprintln(s.out, s.au.Green("you win"))
	case game.ComputerWon:
		fmt.Fprintln(s.out, s.au.Red("the computer wins"))
	case game.Draw:
		fmt.Fprintln(s.out, s.au.Bold("draw"))
	}
}
