package state

import (
	"context"
	"errors"
	"os"
	"testing"

	"restofront/internal/domain"
	"restofront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_RoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE client_state`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewPostgres(pool)
	if _, err := repo.Get(ctx, "c1", KeyCart); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Set(ctx, "c1", KeyCart, []byte(`[{"itemId":1}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Upsert on the same key.
	if err := repo.Set(ctx, "c1", KeyCart, []byte(`[{"itemId":2}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := repo.Get(ctx, "c1", KeyCart)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"itemId": 2}]` && string(got) != `[{"itemId":2}]` {
		t.Fatalf("unexpected value %s", got)
	}

	if err := repo.DeleteAll(ctx, "c1"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if _, err := repo.Get(ctx, "c1", KeyCart); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after DeleteAll, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
