package security_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/geocoder89/usershub/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashVerifies(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash(context.Background(), "password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if err := security.CheckPassword(hash, "password123"); err != nil {
		t.Fatalf("expected hash to verify: %v", err)
	}
	if err := security.CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestHasher_SaltedOutput(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	a, err := h.Hash(context.Background(), "same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash(context.Background(), "same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if a == b {
		t.Fatalf("expected different hashes for the same input")
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash(context.Background(), "")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := security.CheckPassword(hash, ""); err != nil {
		t.Fatalf("expected empty password to verify: %v", err)
	}
}

func TestHasher_LongPasswordIsTruncated(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)
	long := strings.Repeat("p", 100)

	hash, err := h.Hash(context.Background(), long)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	// bytes past the limit do not change the hash
	if err := security.CheckPassword(hash, long[:security.MaxPasswordBytes]+"different tail"); err != nil {
		t.Fatalf("expected truncated password to verify: %v", err)
	}
	if err := security.CheckPassword(hash, long[:security.MaxPasswordBytes-1]); err == nil {
		t.Fatalf("expected a shorter password not to verify")
	}
}

func TestHasher_CancelledContext(t *testing.T) {
	h := security.NewHasher(20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "password123")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v want context.Canceled", err)
	}
}

func TestNewHasher_DefaultCost(t *testing.T) {
	if got := security.NewHasher(0).Cost; got != security.DefaultCost {
		t.Fatalf("got cost %d want %d", got, security.DefaultCost)
	}
}
