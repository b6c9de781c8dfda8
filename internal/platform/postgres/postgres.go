package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema for the registry tables. Applied idempotently at startup; the
// participants primary key is what enforces one-roster-entry-per-email, and
// position preserves signup order.
const schema = `
CREATE TABLE IF NOT EXISTS activities (
    name             TEXT PRIMARY KEY,
    description      TEXT NOT NULL,
    schedule         TEXT NOT NULL,
    max_participants INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    activity_name TEXT NOT NULL REFERENCES activities(name) ON DELETE CASCADE,
    email         TEXT NOT NULL,
    position      BIGSERIAL,
    PRIMARY KEY (activity_name, email)
);
`

// Connect opens a pgx pool, verifies connectivity, and ensures the schema.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return pool, nil
}
