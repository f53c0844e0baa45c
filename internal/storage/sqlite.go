package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serialises writers; one connection keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close(context.Context) {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *SQLiteStore) EnsureTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	player TEXT NOT NULL,
	outcome TEXT NOT NULL,
	status TEXT NOT NULL,
	size INTEGER NOT NULL,
	depth INTEGER NOT NULL,
	moves INTEGER NOT NULL,
	board TEXT NOT NULL,
	started_at TIMESTAMP,
	ended_at TIMESTAMP
);`)
	return err
}

func (s *SQLiteStore) SaveGame(ctx context.Context, g CompletedGame) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO games (id, player, outcome, status, size, depth, moves, board, started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Player, g.Outcome, g.Status, g.Size, g.Depth, g.Moves, g.Board, g.StartedAt, g.EndedAt)
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	rows, err := s.db.QueryContext(ctx, leaderboardQuery("?"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.Player, &row.Wins, &row.Games); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}
