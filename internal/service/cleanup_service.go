package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/todoapp/gobackend/internal/repository"
)

// CleanupScheduler periodically purges expired entries from the
// reset-token ledger. It runs once immediately on Start and then at the
// configured interval until Stop is called. A failed sweep is logged and
// the schedule continues; the ledger also prunes lazily during
// validation, so a missed sweep only delays reclamation.
type CleanupScheduler struct {
	ledger   repository.PasswordResetRepository
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewCleanupScheduler creates a scheduler over the given ledger.
func NewCleanupScheduler(ledger repository.PasswordResetRepository, interval time.Duration) *CleanupScheduler {
	return &CleanupScheduler{
		ledger:   ledger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background sweep loop. It returns immediately.
func (s *CleanupScheduler) Start() {
	go s.run()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
// It is safe to call more than once.
func (s *CleanupScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *CleanupScheduler) run() {
	defer close(s.done)

	// Sweep entries that expired while the server was down.
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

// sweep runs one cleanup pass. Failures are logged, never propagated.
func (s *CleanupScheduler) sweep() {
	removed, err := s.ledger.CleanupExpired(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("Reset token cleanup failed")
		return
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Expired reset tokens removed")
	} else {
		log.Debug().Msg("Reset token cleanup found nothing to remove")
	}
}
