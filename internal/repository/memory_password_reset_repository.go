package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/todoapp/gobackend/internal/models"
)

// MemoryPasswordResetRepository is the in-memory reset-token ledger. It
// applies the same supersede, prune, and consume rules as the file
// backend; only the persistence differs.
type MemoryPasswordResetRepository struct {
	mu      sync.Mutex
	records []*models.PasswordResetToken

	// now is swappable for tests.
	now func() time.Time
}

// NewMemoryPasswordResetRepository creates an empty in-memory ledger.
func NewMemoryPasswordResetRepository() *MemoryPasswordResetRepository {
	return &MemoryPasswordResetRepository{now: time.Now}
}

// Store records a reset token for the email, superseding any earlier
// tokens for that address.
func (r *MemoryPasswordResetRepository) Store(ctx context.Context, email, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = dropByEmail(r.records, email)

	now := r.now()
	r.records = append(r.records, &models.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		Used:      false,
		CreatedAt: now,
	})
	return nil
}

// Validate reports whether the (email, token) pair matches a live entry,
// pruning used and expired entries as it goes.
func (r *MemoryPasswordResetRepository) Validate(ctx context.Context, email, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	live := r.records[:0:0]
	for _, rec := range r.records {
		if rec.IsValid(now) {
			live = append(live, rec)
		}
	}
	r.records = live

	for _, rec := range live {
		if strings.EqualFold(rec.Email, email) && rec.Token == token {
			return true, nil
		}
	}
	return false, nil
}

// MarkUsed marks the matching entry as consumed; a missing entry is a
// no-op.
func (r *MemoryPasswordResetRepository) MarkUsed(ctx context.Context, email, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if strings.EqualFold(rec.Email, email) && rec.Token == token {
			rec.Used = true
			return nil
		}
	}
	return nil
}

// CleanupExpired removes every entry whose expiry has passed and returns
// the number removed.
func (r *MemoryPasswordResetRepository) CleanupExpired(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	kept := r.records[:0:0]
	for _, rec := range r.records {
		if !rec.IsExpired(now) {
			kept = append(kept, rec)
		}
	}

	removed := len(r.records) - len(kept)
	r.records = kept
	return removed, nil
}
