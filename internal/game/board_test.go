package game

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, text string) *Board {
	t.Helper()
	b, err := ParseBoard(text)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return b
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard(5)
	if b.Size() != 5 {
		t.Fatalf("expected size 5, got %d", b.Size())
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if b.At(r, c) != Empty {
				t.Fatalf("expected empty cell at (%d,%d), got %v", r, c, b.At(r, c))
			}
		}
	}
	if b.Full() {
		t.Fatalf("empty board reported full")
	}
}

func TestFullNeedsEveryCell(t *testing.T) {
	for hole := 0; hole < 16; hole++ {
		b := NewBoard(4)
		for i := 0; i < 16; i++ {
			if i != hole {
				b.Set(i/4, i%4, Human)
			}
		}
		if b.Full() {
			t.Fatalf("board with hole at %d reported full", hole)
		}
		b.Set(hole/4, hole%4, Computer)
		if !b.Full() {
			t.Fatalf("board without holes reported not full (hole %d)", hole)
		}
	}
}

func TestStringDump(t *testing.T) {
	b := NewBoard(4)
	b.Set(0, 0, Human)
	b.Set(1, 2, Computer)
	b.Set(3, 3, Human)
	want := "X...\n..O.\n....\n...X"
	if got := b.String(); got != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", got, want)
	}
	if strings.HasPrefix(b.String(), "\n") || strings.HasSuffix(b.String(), "\n") {
		t.Fatalf("dump must not start or end with a separator")
	}
}

func TestParseBoardRoundTrip(t *testing.T) {
	text := "XO..\n.X..\n..O.\nO..X"
	b := mustParse(t, text)
	if b.Size() != 4 {
		t.Fatalf("expected size 4, got %d", b.Size())
	}
	if b.At(0, 1) != Computer || b.At(3, 3) != Human || b.At(2, 0) != Empty {
		t.Fatalf("cells parsed incorrectly:\n%s", b)
	}
	if b.String() != text {
		t.Fatalf("round trip changed the board:\n%s", b)
	}
}

func TestParseBoardRejectsBadInput(t *testing.T) {
	cases := []string{"", "X..\n...", "XX\nX?", "XXX\nXX\nXXX"}
	for _, in := range cases {
		if _, err := ParseBoard(in); err != ErrBadBoard {
			t.Fatalf("expected ErrBadBoard for %q, got %v", in, err)
		}
	}
}

func TestPlaceUndoRoundTrip(t *testing.T) {
	b := mustParse(t, "X...\n.O..\n....\n....")
	before := b.String()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b.At(r, c) != Empty {
				continue
			}
			for _, p := range []Cell{Human, Computer} {
				b.place(r, c, p)
				if b.At(r, c) != p {
					t.Fatalf("place did not mark (%d,%d)", r, c)
				}
				b.undo(r, c)
				if b.String() != before {
					t.Fatalf("place/undo at (%d,%d) changed the board:\n%s", r, c, b)
				}
			}
		}
	}
}

func TestSimulateRestoresOnPanic(t *testing.T) {
	b := NewBoard(4)
	func() {
		defer func() { _ = recover() }()
		b.simulate(2, 2, Computer, func() int {
			panic("boom")
		})
	}()
	if b.At(2, 2) != Empty {
		t.Fatalf("simulate left a mark after panic")
	}
}

func TestCellsIsACopy(t *testing.T) {
	b := NewBoard(4)
	cells := b.Cells()
	cells[0][0] = Human
	if b.At(0, 0) != Empty {
		t.Fatalf("mutating Cells() result changed the board")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard(4)
	clone := b.Clone()
	clone.Set(1, 1, Computer)
	if b.At(1, 1) != Empty {
		t.Fatalf("clone shares storage with the original")
	}
}
