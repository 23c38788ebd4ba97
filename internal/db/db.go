package db

import (
	"context"

	"churchdir/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPostgresConnection(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDSN())
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// email уникален и сравнивается как есть, без lower()
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	email            TEXT NOT NULL UNIQUE,
	nickname         TEXT NOT NULL DEFAULT '',
	role             TEXT NOT NULL DEFAULT 'user',
	mobile           TEXT NOT NULL DEFAULT '',
	alternate_mobile TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	spouse           TEXT NOT NULL DEFAULT '',
	children         TEXT[] NOT NULL DEFAULT '{}',
	native_place     TEXT NOT NULL DEFAULT '',
	church           TEXT NOT NULL DEFAULT '',
	avatar           TEXT NOT NULL DEFAULT '',
	photos           TEXT[] NOT NULL DEFAULT '{}',
	password_hash    TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
