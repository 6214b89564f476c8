// Package schedule computes when a courier should start moving to the branch.
package schedule

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

type estimator interface {
	Minutes(ctx context.Context, from, to *domain.Point) (int, error)
}

// Scheduler derives scheduledMoveAt from prep time and travel time.
type Scheduler struct {
	travel   estimator
	fallback int
	logger   logx.Logger
}

// New creates a Scheduler. fallbackMinutes is used when the estimator fails.
func New(travel estimator, fallbackMinutes int, logger logx.Logger) *Scheduler {
	return &Scheduler{travel: travel, fallback: fallbackMinutes, logger: logger}
}

// Internal returns now + max(0, prep - travel), so the driver arrives when the food is ready.
func (s *Scheduler) Internal(ctx context.Context, now time.Time, prepMinutes int, from, to *domain.Point) time.Time {
	travel, err := s.travel.Minutes(ctx, from, to)
	if err != nil || travel < 0 {
		s.logger.Warn("travel estimate unavailable, using fallback",
			logx.Int("fallback_minutes", s.fallback), logx.Err(err))
		travel = s.fallback
	}
	lead := prepMinutes - travel
	if lead < 0 {
		lead = 0
	}
	return now.Add(time.Duration(lead) * time.Minute)
}

// Taxi returns now + prep. Taxis are summoned when the food is ready.
func (s *Scheduler) Taxi(now time.Time, prepMinutes int) time.Time {
	return now.Add(time.Duration(prepMinutes) * time.Minute)
}
