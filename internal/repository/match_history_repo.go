package repository

import (
	"context"

	"matchpairs/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchHistoryRepository struct {
	db *pgxpool.Pool
}

func NewMatchHistoryRepository(db *pgxpool.Pool) *MatchHistoryRepository {
	return &MatchHistoryRepository{db: db}
}

// Record implements game.HistorySink.
func (r *MatchHistoryRepository) Record(ctx context.Context, rec *domain.MatchRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO match_history
			(room_id, player_name, opponent_name, result, score, moves, hits, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		rec.RoomID,
		rec.PlayerName,
		rec.OpponentName,
		rec.Result,
		rec.Score,
		rec.Moves,
		rec.Hits,
		rec.DurationSeconds,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// ListByPlayer returns a player's most recent games.
func (r *MatchHistoryRepository) ListByPlayer(ctx context.Context, playerName string, limit int) ([]*domain.MatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, player_name, opponent_name, result, score, moves, hits,
				duration_seconds, created_at
		 FROM match_history
		 WHERE player_name = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		playerName, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(&rec.ID, &rec.RoomID, &rec.PlayerName, &rec.OpponentName,
			&rec.Result, &rec.Score, &rec.Moves, &rec.Hits,
			&rec.DurationSeconds, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// TopEntry is one leaderboard row.
type TopEntry struct {
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
	Games      int    `json:"games"`
	Pairs      int    `json:"pairs"`
}

// Top returns the leaderboard over the last month.
func (r *MatchHistoryRepository) Top(ctx context.Context, limit int) ([]*TopEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT player_name,
			COUNT(*) FILTER (WHERE result = 'win') AS wins,
			COUNT(*) AS games,
			COALESCE(SUM(score), 0) AS pairs
		 FROM match_history
		 WHERE created_at >= now() - interval '1 month'
		 GROUP BY player_name
		 ORDER BY wins DESC, pairs DESC, games ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*TopEntry
	for rows.Next() {
		var e TopEntry
		if err := rows.Scan(&e.PlayerName, &e.Wins, &e.Games, &e.Pairs); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
