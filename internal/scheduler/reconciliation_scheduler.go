package scheduler

import (
	"time"

	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// ReconciliationScheduler recomputes stored payment statuses from the
// payment sums once a day, correcting any drift left by failed writes.
type ReconciliationScheduler struct {
	reservationRepo domain.ReservationRepository
	logger          *zap.Logger
	ticker          *time.Ticker
}

// NewReconciliationScheduler creates the daily reconciliation job.
func NewReconciliationScheduler(reservationRepo domain.ReservationRepository, logger *zap.Logger) *ReconciliationScheduler {
	return &ReconciliationScheduler{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// Start runs one reconciliation immediately and then schedules a run
// every day shortly after midnight.
func (s *ReconciliationScheduler) Start() {
	s.logger.Info("payment reconciliation scheduler started")

	s.Run()

	now := time.Now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 1, 0, 0, now.Location())
	s.logger.Info("next reconciliation scheduled", zap.Time("at", nextRun))

	time.AfterFunc(time.Until(nextRun), func() {
		s.Run()

		s.ticker = time.NewTicker(24 * time.Hour)
		go func() {
			for range s.ticker.C {
				s.Run()
			}
		}()
	})
}

// Stop halts the scheduler.
func (s *ReconciliationScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.logger.Info("payment reconciliation scheduler stopped")
	}
}

// Run executes one reconciliation pass.
func (s *ReconciliationScheduler) Run() {
	fixed, err := s.reservationRepo.ReconcilePaymentStatuses()
	if err != nil {
		s.logger.Error("payment reconciliation failed", zap.Error(err))
		return
	}
	if fixed > 0 {
		s.logger.Warn("payment statuses corrected", zap.Int("count", fixed))
		return
	}
	s.logger.Info("payment statuses consistent")
}
