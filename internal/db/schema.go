package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seq keeps insertion order so listing has a stable natural order.
// The unique email index backs the application-level "already taken" check.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	password   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email);
CREATE INDEX IF NOT EXISTS users_seq_idx ON users (seq);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, usersSchema)
	return err
}
