package state

import (
	"context"
	"errors"

	"restofront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, ownerID, key string) ([]byte, error) {
	const q = `
SELECT value
FROM client_state
WHERE owner_id = $1 AND key = $2
`
	var value []byte
	if err := r.pool.QueryRow(ctx, q, ownerID, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *postgresRepo) Set(ctx context.Context, ownerID, key string, value []byte) error {
	const q = `
INSERT INTO client_state (owner_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (owner_id, key)
DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, ownerID, key, value)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, ownerID, key string) error {
	const q = `
DELETE FROM client_state
WHERE owner_id = $1 AND key = $2
`
	_, err := r.pool.Exec(ctx, q, ownerID, key)
	return err
}

func (r *postgresRepo) DeleteAll(ctx context.Context, ownerID string) error {
	const q = `
DELETE FROM client_state
WHERE owner_id = $1
`
	_, err := r.pool.Exec(ctx, q, ownerID)
	return err
}
