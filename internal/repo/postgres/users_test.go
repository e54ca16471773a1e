package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/geocoder89/usershub/internal/db"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

func setupUsersRepo(t *testing.T) (*postgres.UsersRepo, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping postgres tests")
	}

	pool, err := db.NewPool(dsn, 5)
	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	resetUsers(t, pool)
	t.Cleanup(func() { resetUsers(t, pool) })

	return postgres.NewUsersRepo(pool, nil), pool
}

func resetUsers(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `TRUNCATE users RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("failed to truncate users: %v", err)
	}
}

func TestUsersRepo_InsertFindRemove(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	a, err := repo.Insert(ctx, user.User{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	b, err := repo.Insert(ctx, user.User{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	all, err := repo.Find(ctx, user.Filter{}, user.PublicProjection)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("expected insertion order [%s %s], got %+v", a.ID, b.ID, all)
	}
	if all[0].Password != "" {
		t.Fatalf("password should not be projected")
	}

	stored, err := repo.Find(ctx, user.ByID(a.ID), nil)
	if err != nil {
		t.Fatalf("Find by id: %v", err)
	}
	if len(stored) != 1 || stored[0].Password != "pw" {
		t.Fatalf("expected plaintext password stored as received, got %+v", stored)
	}

	n, err := repo.Remove(ctx, user.ByID(a.ID))
	if err != nil || n != 1 {
		t.Fatalf("Remove: n=%d err=%v", n, err)
	}

	n, err = repo.Remove(ctx, user.ByID(a.ID))
	if err != nil || n != 0 {
		t.Fatalf("second Remove: n=%d err=%v", n, err)
	}

	left, err := repo.Find(ctx, user.ByID(a.ID), user.PublicProjection)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected no records, got %+v", left)
	}
}

func TestUsersRepo_ConcurrentInsertSameEmail(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, user.User{Name: "Dup", Email: "dup@example.com", Password: "pw"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, user.ErrEmailTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if created != 1 {
		t.Fatalf("expected exactly one insert to win, got %d", created)
	}
}
