package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fourinarow/internal/game"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.EnsureTables(context.Background()); err != nil {
		t.Fatalf("EnsureTables: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func record(id, player, outcome string) CompletedGame {
	now := time.Now()
	return CompletedGame{
		ID: id, Player: player, Outcome: outcome, Status: game.StatusFinished,
		Size: 4, Depth: 2, Moves: 4, Board: "XXXX\nOOO.\n....\n....",
		StartedAt: now.Add(-time.Minute), EndedAt: now,
	}
}

func TestSQLiteLeaderboard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	games := []CompletedGame{
		record("g1", "alice", "human_won"),
		record("g2", "alice", "computer_won"),
		record("g3", "bob", "human_won"),
		record("g4", "bob", "human_won"),
		record("g5", "carol", "draw"),
	}
	for _, g := range games {
		if err := s.SaveGame(ctx, g); err != nil {
			t.Fatalf("SaveGame(%s): %v", g.ID, err)
		}
	}
	// duplicates are ignored
	if err := s.SaveGame(ctx, games[0]); err != nil {
		t.Fatalf("duplicate SaveGame: %v", err)
	}

	rows, err := s.GetLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	want := []LeaderboardRow{{"bob", 2, 2}, {"alice", 1, 2}, {"carol", 0, 1}}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}

	rows, _ = s.GetLeaderboard(ctx, 1)
	if len(rows) != 1 || rows[0].Player != "bob" {
		t.Fatalf("limit not applied: %+v", rows)
	}
}

func TestOpenWithoutBackends(t *testing.T) {
	s, err := Open(context.Background(), Options{})
	if err != nil || s != nil {
		t.Fatalf("expected nil store without configuration, got %v, %v", s, err)
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "open.db")
	s, err := Open(context.Background(), Options{SQLitePath: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("expected a SQLiteStore, got %T", s)
	}
}

func TestFromSnapshot(t *testing.T) {
	snap := game.Snapshot{ID: "g", Player: "p", Outcome: game.ComputerWon, Status: game.StatusFinished, Size: 4, Depth: 3, HumanMoves: 5, Dump: "...."}
	rec := FromSnapshot(snap)
	if rec.Outcome != "computer_won" || rec.Moves != 5 || rec.Board != "...." {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestSaveGameReturnsWrappedError(t *testing.T) {
	s := openTestStore(t)
	s.Close(context.Background())
	err := s.SaveGame(context.Background(), record("lost", "alice", "draw"))
	if err == nil || !strings.Contains(err.Error(), "save game lost") {
		t.Fatalf("expected a wrapped save error, got %v", err)
	}
}
