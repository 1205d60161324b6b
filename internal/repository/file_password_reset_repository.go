package repository

import (
	"context"
	"strings"
	"time"

	"github.com/todoapp/gobackend/internal/models"
)

// resetTokensFileName is the collection document for the reset-token ledger.
const resetTokensFileName = "reset_tokens.json"

// FilePasswordResetRepository is the file-backed reset-token ledger.
type FilePasswordResetRepository struct {
	file *jsonFile

	// now is swappable for tests.
	now func() time.Time
}

// NewFilePasswordResetRepository creates a file-backed ledger rooted at
// the given data directory.
func NewFilePasswordResetRepository(dataDir string) (*FilePasswordResetRepository, error) {
	f, err := newJSONFile(dataDir, resetTokensFileName)
	if err != nil {
		return nil, err
	}
	return &FilePasswordResetRepository{file: f, now: time.Now}, nil
}

// Store records a reset token for the email, superseding any earlier
// tokens for that address. Requesting a reset twice leaves exactly one
// live token, the newest.
func (r *FilePasswordResetRepository) Store(ctx context.Context, email, token string, ttl time.Duration) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var records []*models.PasswordResetToken
	if err := r.file.load(&records); err != nil {
		return err
	}

	records = dropByEmail(records, email)

	now := r.now()
	records = append(records, &models.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		Used:      false,
		CreatedAt: now,
	})

	return r.file.persist(records)
}

// Validate reports whether the (email, token) pair matches a live entry.
// Entries that are used or expired are pruned while the ledger is loaded;
// the document is rewritten only when pruning removed something.
func (r *FilePasswordResetRepository) Validate(ctx context.Context, email, token string) (bool, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var records []*models.PasswordResetToken
	if err := r.file.load(&records); err != nil {
		return false, err
	}

	now := r.now()
	live := records[:0:0]
	for _, rec := range records {
		if rec.IsValid(now) {
			live = append(live, rec)
		}
	}

	if len(live) != len(records) {
		if err := r.file.persist(live); err != nil {
			return false, err
		}
	}

	for _, rec := range live {
		if strings.EqualFold(rec.Email, email) && rec.Token == token {
			return true, nil
		}
	}
	return false, nil
}

// MarkUsed marks the matching entry as consumed. The match ignores the
// entry's used and expired state; a missing entry is a no-op.
func (r *FilePasswordResetRepository) MarkUsed(ctx context.Context, email, token string) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var records []*models.PasswordResetToken
	if err := r.file.load(&records); err != nil {
		return err
	}

	for _, rec := range records {
		if strings.EqualFold(rec.Email, email) && rec.Token == token {
			rec.Used = true
			return r.file.persist(records)
		}
	}
	return nil
}

// CleanupExpired removes every entry whose expiry has passed, used or
// not, and returns the number removed.
func (r *FilePasswordResetRepository) CleanupExpired(ctx context.Context) (int, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var records []*models.PasswordResetToken
	if err := r.file.load(&records); err != nil {
		return 0, err
	}

	now := r.now()
	kept := records[:0:0]
	for _, rec := range records {
		if !rec.IsExpired(now) {
			kept = append(kept, rec)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.file.persist(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// dropByEmail returns the records with every entry for the email removed.
func dropByEmail(records []*models.PasswordResetToken, email string) []*models.PasswordResetToken {
	kept := records[:0:0]
	for _, rec := range records {
		if !strings.EqualFold(rec.Email, email) {
			kept = append(kept, rec)
		}
	}
	return kept
}
