package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct{ Pool *pgxpool.Pool }

func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: p}, nil
}

// Ping reports whether the pool can still reach Postgres. The health
// endpoint uses it so load balancers see database outages.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}
