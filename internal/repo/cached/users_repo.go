package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/geocoder89/usershub/internal/cache"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/utils"
)

type UsersStore interface {
	Find(ctx context.Context, f user.Filter, p user.Projection) ([]user.User, error)
	Insert(ctx context.Context, u user.User) (user.User, error)
	Remove(ctx context.Context, f user.Filter) (int64, error)
}

// cachedUser keeps the password field, which user.User hides from JSON.
type cachedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// UsersRepo is a read-through cache in front of a UsersStore. Writes purge
// the whole cache once the inner store has accepted them. Cache faults are
// logged and never fail the call.
//
// gen counts local writes; fills and purges are serialized by mu so a read
// that overlapped a write never fills the cache. Writes from other instances
// are only bounded by the cache TTL.
type UsersRepo struct {
	inner UsersStore
	cache cache.Cache
	log   *slog.Logger
	mu    sync.Mutex
	gen   atomic.Uint64
}

func NewUsersRepo(inner UsersStore, c cache.Cache, log *slog.Logger) *UsersRepo {
	if log == nil {
		log = slog.Default()
	}
	return &UsersRepo{inner: inner, cache: c, log: log}
}

func (r *UsersRepo) Find(ctx context.Context, f user.Filter, p user.Projection) ([]user.User, error) {
	fields, err := p.Fields()
	if err != nil {
		return nil, err
	}

	key := utils.BuildUsersFindCacheKey(f, fields)

	raw, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.WarnContext(ctx, "users cache get failed", "key", key, "err", err)
	}
	if ok {
		var rows []cachedUser
		if err := json.Unmarshal(raw, &rows); err == nil {
			out := make([]user.User, 0, len(rows))
			for _, row := range rows {
				out = append(out, user.User(row))
			}
			return out, nil
		}
		r.log.WarnContext(ctx, "users cache entry unreadable", "key", key)
	}

	gen := r.gen.Load()

	users, err := r.inner.Find(ctx, f, p)
	if err != nil {
		return nil, err
	}

	rows := make([]cachedUser, 0, len(users))
	for _, u := range users {
		rows = append(rows, cachedUser(u))
	}

	raw, err = json.Marshal(rows)
	if err == nil {
		r.mu.Lock()
		if r.gen.Load() == gen {
			err = r.cache.Set(ctx, key, raw)
		}
		r.mu.Unlock()
	}
	if err != nil {
		r.log.WarnContext(ctx, "users cache set failed", "key", key, "err", err)
	}

	return users, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	created, err := r.inner.Insert(ctx, u)
	if err != nil {
		return user.User{}, err
	}

	r.purge(ctx)

	return created, nil
}

func (r *UsersRepo) Remove(ctx context.Context, f user.Filter) (int64, error) {
	n, err := r.inner.Remove(ctx, f)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		r.purge(ctx)
	}

	return n, nil
}

func (r *UsersRepo) purge(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen.Add(1)
	if err := r.cache.Purge(ctx); err != nil {
		r.log.WarnContext(ctx, "users cache purge failed", "err", err)
	}
}
