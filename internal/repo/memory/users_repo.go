package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/google/uuid"
)

// UsersRepo keeps records in insertion order.
type UsersRepo struct {
	mu    sync.RWMutex
	items []user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{}
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *UsersRepo) Find(ctx context.Context, f user.Filter, p user.Projection) ([]user.User, error) {
	if _, err := p.Fields(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0)
	for _, u := range r.items {
		if !f.Matches(u) {
			continue
		}

		projected, err := p.Apply(u)
		if err != nil {
			return nil, err
		}
		out = append(out, projected)
	}

	return out, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	u.ID = uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	// same guarantee as the unique email index in postgres
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	r.items = append(r.items, u)

	return u, nil
}

func (r *UsersRepo) Remove(ctx context.Context, f user.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	var removed int64

	for _, u := range r.items {
		if f.Matches(u) {
			removed++
			continue
		}
		kept = append(kept, u)
	}

	// clear the tail so removed records can be collected
	for i := len(kept); i < len(r.items); i++ {
		r.items[i] = user.User{}
	}
	r.items = kept

	return removed, nil
}
