package storage

import (
	"context"
	"time"

	"fourinarow/internal/game"
)

type CompletedGame struct {
	ID        string
	Player    string
	Outcome   string
	Status    string
	Size      int
	Depth     int
	Moves     int
	Board     string
	StartedAt time.Time
	EndedAt   time.Time
}

type LeaderboardRow struct {
	Player string `json:"player"`
	Wins   int    `json:"wins"`
	Games  int    `json:"games"`
}

type Store interface {
	SaveGame(ctx context.Context, game CompletedGame) error
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
	Close(ctx context.Context)
}

// FromSnapshot converts a finished session into its stored record.
func FromSnapshot(s game.Snapshot) CompletedGame {
	return CompletedGame{
		ID:        s.ID,
		Player:    s.Player,
		Outcome:   s.Outcome.String(),
		Status:    s.Status,
		Size:      s.Size,
		Depth:     s.Depth,
		Moves:     s.HumanMoves,
		Board:     s.Dump,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

type Options struct {
	PostgresURL string
	SQLitePath  string
}

// Open picks Postgres when a URL is configured, SQLite when a path is, and
// returns a nil Store otherwise.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch {
	case opts.PostgresURL != "":
		pg, err := NewPostgresStore(ctx, opts.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureTables(ctx); err != nil {
			pg.Close(ctx)
			return nil, err
		}
		return pg, nil
	case opts.SQLitePath != "":
		lite, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := lite.EnsureTables(ctx); err != nil {
			lite.Close(ctx)
			return nil, err
		}
		return lite, nil
	}
	return nil, nil
}
