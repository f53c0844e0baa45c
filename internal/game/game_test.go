package game

import (
	"encoding/json"
	"strings"
	"testing"
)

func newGame(t *testing.T, size, depth int) *Game {
	t.Helper()
	g, err := NewGame(size, depth)
	if err != nil {
		t.Fatalf("NewGame(%d, %d): %v", size, depth, err)
	}
	return g
}

func gameFrom(t *testing.T, text string, depth int) *Game {
	t.Helper()
	g, err := NewGameFromBoard(mustParse(t, text), depth)
	if err != nil {
		t.Fatalf("NewGameFromBoard: %v", err)
	}
	return g
}

func TestNewGameValidatesArguments(t *testing.T) {
	if _, err := NewGame(0, 1); err != ErrInvalidSize {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := NewGame(4, -1); err != ErrInvalidDepth {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
	g := newGame(t, 4, 0)
	if g.Size() != 4 || g.Depth() != 0 {
		t.Fatalf("unexpected size/depth %d/%d", g.Size(), g.Depth())
	}
	if _, ok := g.LastComputerMove(); ok {
		t.Fatalf("new game should have no computer move")
	}
}

func TestHumanRowWins(t *testing.T) {
	g := newGame(t, 4, 1)
	moves := [][2]int{{0, 0}, {0, 1}, {0, 2}}
	for _, m := range moves {
		if got := g.HumanMove(m[0], m[1]); got != Continue {
			t.Fatalf("move %v: expected Continue, got %v", m, got)
		}
	}
	if got := g.HumanMove(0, 3); got != HumanWon {
		t.Fatalf("expected HumanWon, got %v", got)
	}
}

func TestComputerBlocksImmediateThreat(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		g := gameFrom(t, "XXX.\n....\n....\n....", depth)
		if got := g.ComputerMove(); got != Continue {
			t.Fatalf("depth %d: expected Continue, got %v", depth, got)
		}
		if g.Board().At(0, 3) != Computer {
			t.Fatalf("depth %d: expected block at (0,3), board:\n%s", depth, g)
		}
		mv, ok := g.LastComputerMove()
		if !ok || mv.Row != 0 || mv.Column != 3 {
			t.Fatalf("depth %d: unexpected last move %+v", depth, mv)
		}
	}
}

func TestFullBoardIsDrawWithoutPlacement(t *testing.T) {
	text := "XXOO\nOOXX\nXXOO\nOOXX"
	g := gameFrom(t, text, 3)
	if got := g.ComputerMove(); got != Draw {
		t.Fatalf("expected Draw on a full board, got %v", got)
	}
	if g.String() != text {
		t.Fatalf("board changed on a full-board computer move:\n%s", g)
	}
	if _, ok := g.LastComputerMove(); ok {
		t.Fatalf("no move should be recorded on a full board")
	}
}

func TestHumanFillingLastCellDraws(t *testing.T) {
	g := gameFrom(t, "XXOO\nOOXX\nXXOO\nOOX.", 2)
	if got := g.HumanMove(3, 3); got != Draw {
		t.Fatalf("expected Draw, got %v", got)
	}
}

func TestDepthZeroTakesFirstEmptyCell(t *testing.T) {
	g := newGame(t, 4, 0)
	if got := g.ComputerMove(); got != Continue {
		t.Fatalf("expected Continue, got %v", got)
	}
	if g.Board().At(0, 0) != Computer {
		t.Fatalf("expected computer at (0,0):\n%s", g)
	}

	g = gameFrom(t, "X...\n....\n....\n....", 0)
	g.ComputerMove()
	if g.Board().At(0, 1) != Computer {
		t.Fatalf("expected computer at (0,1):\n%s", g)
	}
	mv, _ := g.LastComputerMove()
	if mv.Score != 0 {
		t.Fatalf("expected static score 0, got %d", mv.Score)
	}
}

func TestComputerWinsWhenItCan(t *testing.T) {
	g := gameFrom(t, "XX..\nOOO.\nX...\n....", 2)
	if got := g.ComputerMove(); got != ComputerWon {
		t.Fatalf("expected ComputerWon, got %v:\n%s", got, g)
	}
	if g.Board().At(1, 3) != Computer {
		t.Fatalf("expected the win at (1,3):\n%s", g)
	}
}

func TestComputerMoveCommitsExactlyOneMark(t *testing.T) {
	g := gameFrom(t, "X...\n.O..\n..X.\n....", 3)
	before := g.Board().Clone()
	g.ComputerMove()
	changed := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if before.At(r, c) != g.Board().At(r, c) {
				changed++
				if before.At(r, c) != Empty || g.Board().At(r, c) != Computer {
					t.Fatalf("unexpected change at (%d,%d)", r, c)
				}
			}
		}
	}
	if changed != 1 {
		t.Fatalf("expected exactly one new mark, got %d", changed)
	}
	if g.SearchNodes() == 0 {
		t.Fatalf("expected search nodes to be recorded")
	}
}

func TestOutcomeStrings(t *testing.T) {
	cases := map[Outcome]string{Continue: "continue", HumanWon: "human_won", ComputerWon: "computer_won", Draw: "draw"}
	for o, want := range cases {
		if o.String() != want {
			t.Fatalf("%d: expected %q, got %q", o, want, o.String())
		}
		if o.Finished() == (o == Continue) {
			t.Fatalf("%v: wrong Finished()", o)
		}
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	g := gameFrom(t, "X...\n.O..\n....\n....", 1)
	snap := Snapshot{Outcome: Draw, Board: g.Board().Cells(), Dump: g.String()}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"outcome":"draw"`) || !strings.Contains(string(data), `["X",".",".","."]`) {
		t.Fatalf("unexpected encoding %s", data)
	}
	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Outcome != Draw || back.Board[1][1] != Computer || back.Board[0][0] != Human {
		t.Fatalf("unexpected decode %+v", back)
	}
	if err := json.Unmarshal([]byte(`{"outcome":"maybe"}`), &back); err == nil {
		t.Fatalf("expected an error for an unknown outcome")
	}
}
