package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/gobackend/internal/repository"
)

// countingLedger wraps the in-memory ledger and counts sweep calls.
type countingLedger struct {
	repository.PasswordResetRepository
	sweeps atomic.Int32
}

func (l *countingLedger) CleanupExpired(ctx context.Context) (int, error) {
	l.sweeps.Add(1)
	return l.PasswordResetRepository.CleanupExpired(ctx)
}

func TestCleanupSchedulerSweepsImmediately(t *testing.T) {
	ledger := &countingLedger{PasswordResetRepository: repository.NewMemoryPasswordResetRepository()}
	ctx := context.Background()

	// One already-expired entry and one live entry.
	require.NoError(t, ledger.Store(ctx, "old@example.com", "tok-old", -time.Minute))
	require.NoError(t, ledger.Store(ctx, "new@example.com", "tok-new", time.Hour))

	scheduler := NewCleanupScheduler(ledger, time.Hour)
	scheduler.Start()
	defer scheduler.Stop()

	// The startup sweep runs without waiting for the first tick.
	assert.Eventually(t, func() bool {
		return ledger.sweeps.Load() >= 1
	}, time.Second, 10*time.Millisecond)

	valid, err := ledger.Validate(ctx, "new@example.com", "tok-new")
	require.NoError(t, err)
	assert.True(t, valid, "live entry must survive the sweep")
}

func TestCleanupSchedulerSweepsPeriodically(t *testing.T) {
	ledger := &countingLedger{PasswordResetRepository: repository.NewMemoryPasswordResetRepository()}

	scheduler := NewCleanupScheduler(ledger, 20*time.Millisecond)
	scheduler.Start()
	defer scheduler.Stop()

	// Startup sweep plus at least two ticks.
	assert.Eventually(t, func() bool {
		return ledger.sweeps.Load() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestCleanupSchedulerStop(t *testing.T) {
	ledger := &countingLedger{PasswordResetRepository: repository.NewMemoryPasswordResetRepository()}
	scheduler := NewCleanupScheduler(ledger, 10*time.Millisecond)
	scheduler.Start()

	// Stop is idempotent and halts the loop.
	scheduler.Stop()
	scheduler.Stop()

	swept := ledger.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, swept, ledger.sweeps.Load())
}
