package db

import (
	"context"

	"matchpairs/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds the pgx pool backing match history. The caller decides
// whether a database is configured at all; the game core never requires
// one.
func Connect(dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return pool
}
