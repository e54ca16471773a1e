package security

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = 14

	// MaxPasswordBytes is the bcrypt input limit; longer passwords are cut here.
	MaxPasswordBytes = 72
)

type Hasher struct {
	Cost int
}

func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &Hasher{Cost: cost}
}

// Hash runs bcrypt off the caller's goroutine so a cancelled request does not
// wait for a slow work factor.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	type result struct {
		hash string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		hash, err := HashPassword(plain, h.Cost)
		done <- result{hash: hash, err: err}
	}()

	select {
	case r := <-done:
		return r.hash, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// HashPassword hashes a plain text password with bcrypt at the given cost.
// Only the first MaxPasswordBytes bytes take part in the hash.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(plain), cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plain))
}

func truncate(plain string) []byte {
	pw := []byte(plain)
	return pw[:min(len(pw), MaxPasswordBytes)]
}
