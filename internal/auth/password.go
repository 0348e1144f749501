// Package auth issues and verifies session tokens, hashes passwords and resolves the caller's
// identity from an HTTP request.
package auth

import (
	"context"
	"runtime"

	"github.com/crucial707/staybook/internal/metrics"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes and compares passwords with bcrypt. At most workers computations run at
// once; callers beyond that wait for a slot or for their context to end.
type PasswordHasher struct {
	cost  int
	slots *semaphore.Weighted
	dummy []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt cost and pool size. Out-of-range
// values fall back to bcrypt.DefaultCost and GOMAXPROCS.
func NewPasswordHasher(cost, workers int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	h := &PasswordHasher{cost: cost, slots: semaphore.NewWeighted(int64(workers))}
	h.dummy, _ = bcrypt.GenerateFromPassword([]byte("staybook-dummy-password"), cost)
	return h
}

// Hash returns the bcrypt digest of password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A mismatch or an unparsable digest is false,
// not an error; the error is only returned when ctx ends while waiting for a worker.
func (h *PasswordHasher) Verify(ctx context.Context, password, digest string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.release()

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil, nil
}

// VerifyDummy spends the same work as Verify against a fixed digest, so a login for an unknown
// account takes as long as one with a wrong password.
func (h *PasswordHasher) VerifyDummy(ctx context.Context, password string) error {
	_, err := h.Verify(ctx, password, string(h.dummy))
	return err
}

func (h *PasswordHasher) acquire(ctx context.Context) error {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	metrics.HashInFlight.Inc()
	return nil
}

func (h *PasswordHasher) release() {
	metrics.HashInFlight.Dec()
	h.slots.Release(1)
}
