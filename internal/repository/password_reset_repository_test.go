package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerFixture runs the same assertions against both backends.
type ledgerFixture struct {
	name   string
	ledger PasswordResetRepository
	setNow func(func() time.Time)
}

func newLedgerFixtures(t *testing.T) []ledgerFixture {
	t.Helper()

	fileLedger, err := NewFilePasswordResetRepository(t.TempDir())
	require.NoError(t, err)
	memLedger := NewMemoryPasswordResetRepository()

	return []ledgerFixture{
		{
			name:   "file",
			ledger: fileLedger,
			setNow: func(now func() time.Time) { fileLedger.now = now },
		},
		{
			name:   "memory",
			ledger: memLedger,
			setNow: func(now func() time.Time) { memLedger.now = now },
		},
	}
}

func TestLedgerStoreAndValidate(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-1", time.Hour))

			valid, err := fx.ledger.Validate(ctx, "alice@example.com", "tok-1")
			require.NoError(t, err)
			assert.True(t, valid)

			// Wrong token, wrong email.
			valid, err = fx.ledger.Validate(ctx, "alice@example.com", "tok-other")
			require.NoError(t, err)
			assert.False(t, valid)

			valid, err = fx.ledger.Validate(ctx, "bob@example.com", "tok-1")
			require.NoError(t, err)
			assert.False(t, valid)
		})
	}
}

func TestLedgerValidateMatchesEmailCaseInsensitively(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, fx.ledger.Store(ctx, "Alice@Example.com", "tok-1", time.Hour))

			valid, err := fx.ledger.Validate(ctx, "alice@example.com", "tok-1")
			require.NoError(t, err)
			assert.True(t, valid)
		})
	}
}

func TestLedgerStoreSupersedesPriorToken(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-old", time.Hour))
			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-new", time.Hour))

			// Only the newest token is live.
			valid, err := fx.ledger.Validate(ctx, "alice@example.com", "tok-old")
			require.NoError(t, err)
			assert.False(t, valid, "superseded token must not validate")

			valid, err = fx.ledger.Validate(ctx, "alice@example.com", "tok-new")
			require.NoError(t, err)
			assert.True(t, valid)
		})
	}
}

func TestLedgerStoreDoesNotTouchOtherEmails(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-a", time.Hour))
			require.NoError(t, fx.ledger.Store(ctx, "bob@example.com", "tok-b", time.Hour))

			valid, err := fx.ledger.Validate(ctx, "alice@example.com", "tok-a")
			require.NoError(t, err)
			assert.True(t, valid)
		})
	}
}

func TestLedgerMarkUsedConsumesToken(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-1", time.Hour))
			require.NoError(t, fx.ledger.MarkUsed(ctx, "alice@example.com", "tok-1"))

			valid, err := fx.ledger.Validate(ctx, "alice@example.com", "tok-1")
			require.NoError(t, err)
			assert.False(t, valid, "used token must not validate again")
		})
	}
}

func TestLedgerMarkUsedMissingEntryIsNoOp(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()

			assert.NoError(t, fx.ledger.MarkUsed(ctx, "nobody@example.com", "tok-x"))
		})
	}
}

func TestLedgerExpiredTokenDoesNotValidate(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now()

			fx.setNow(func() time.Time { return base })
			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-1", time.Hour))

			// Just before expiry the token is still live.
			fx.setNow(func() time.Time { return base.Add(time.Hour - time.Second) })
			valid, err := fx.ledger.Validate(ctx, "alice@example.com", "tok-1")
			require.NoError(t, err)
			assert.True(t, valid)

			// At expiry it is not.
			fx.setNow(func() time.Time { return base.Add(time.Hour) })
			valid, err = fx.ledger.Validate(ctx, "alice@example.com", "tok-1")
			require.NoError(t, err)
			assert.False(t, valid)
		})
	}
}

func TestLedgerValidatePrunesDeadEntries(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now()

			fx.setNow(func() time.Time { return base })
			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-a", time.Minute))
			require.NoError(t, fx.ledger.Store(ctx, "bob@example.com", "tok-b", time.Hour))

			// Alice's token expires; a validation pass prunes it.
			fx.setNow(func() time.Time { return base.Add(30 * time.Minute) })
			valid, err := fx.ledger.Validate(ctx, "bob@example.com", "tok-b")
			require.NoError(t, err)
			assert.True(t, valid)

			// The expired entry is gone, so a later cleanup finds nothing.
			removed, err := fx.ledger.CleanupExpired(ctx)
			require.NoError(t, err)
			assert.Zero(t, removed)
		})
	}
}

func TestLedgerCleanupExpired(t *testing.T) {
	for _, fx := range newLedgerFixtures(t) {
		t.Run(fx.name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now()

			fx.setNow(func() time.Time { return base })
			require.NoError(t, fx.ledger.Store(ctx, "alice@example.com", "tok-a", time.Minute))
			require.NoError(t, fx.ledger.Store(ctx, "bob@example.com", "tok-b", time.Hour))

			// A used but unexpired entry survives cleanup.
			require.NoError(t, fx.ledger.MarkUsed(ctx, "bob@example.com", "tok-b"))

			fx.setNow(func() time.Time { return base.Add(10 * time.Minute) })
			removed, err := fx.ledger.CleanupExpired(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			// Cleanup is idempotent.
			removed, err = fx.ledger.CleanupExpired(ctx)
			require.NoError(t, err)
			assert.Zero(t, removed)

			// Once everything expires, used entries are removed too.
			fx.setNow(func() time.Time { return base.Add(2 * time.Hour) })
			removed, err = fx.ledger.CleanupExpired(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
		})
	}
}
