package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medalloc/internal/service"
)

// Sweep runs the daily counter reset once at every 00:00 UTC. Sweep failures
// are logged and the next run is scheduled regardless; the reset is
// idempotent, so overlapping or repeated sweeps are harmless.
type Sweep struct {
	doctors service.DoctorService
	logger  *zap.Logger
	now     func() time.Time
}

func NewSweep(doctors service.DoctorService, logger *zap.Logger) *Sweep {
	return &Sweep{
		doctors: doctors,
		logger:  logger,
		now:     time.Now,
	}
}

// Run blocks until ctx is cancelled. Intended to be started in its own
// goroutine from main.
func (s *Sweep) Run(ctx context.Context) {
	for {
		next := NextMidnightUTC(s.now())
		timer := time.NewTimer(next.Sub(s.now()))

		s.logger.Info("daily reset sweep scheduled", zap.Time("next_run", next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("daily reset sweep stopped")
			return
		case <-timer.C:
			affected, err := s.doctors.ResetAll(ctx)
			if err != nil {
				s.logger.Error("daily reset sweep failed", zap.Error(err))
				continue
			}
			s.logger.Info("daily reset sweep completed", zap.Int64("doctors", affected))
		}
	}
}

// NextMidnightUTC returns the first 00:00 UTC instant strictly after now.
func NextMidnightUTC(now time.Time) time.Time {
	nowUTC := now.UTC()
	midnight := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, 1)
}
