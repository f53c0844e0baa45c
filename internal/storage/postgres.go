package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is safe for concurrent use; each call borrows a connection
// from the pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close(context.Context) {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PostgresStore) EnsureTables(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
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
);
`)
	return err
}

func (p *PostgresStore) SaveGame(ctx context.Context, g CompletedGame) error {
	if p == nil || p.pool == nil {
		return nil
	}
	_, err := p.pool.Exec(ctx, `INSERT INTO games (id, player, outcome, status, size, depth, moves, board, started_at, ended_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) ON CONFLICT (id) DO NOTHING`,
		g.ID, g.Player, g.Outcome, g.Status, g.Size, g.Depth, g.Moves, g.Board, g.StartedAt, g.EndedAt)
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}
	return nil
}

func (p *PostgresStore) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	rows, err := p.pool.Query(ctx, leaderboardQuery("$1"), limit)
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

func leaderboardQuery(limitParam string) string {
	return `
SELECT player,
	SUM(CASE WHEN outcome = 'human_won' THEN 1 ELSE 0 END) AS wins,
	COUNT(*) AS games
FROM games
WHERE player <> ''
GROUP BY player
ORDER BY wins DESC, player ASC
LIMIT ` + limitParam
}
