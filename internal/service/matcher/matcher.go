// Package matcher selects an internal driver for a delivery.
package matcher

import (
	"context"
	"fmt"
	"time"

	"food-dispatch/internal/domain"
)

type driverRepo interface {
	ListOnlineWithActiveContract(ctx context.Context, now time.Time) ([]domain.DriverPresence, error)
}

// OldestIdle picks the eligible driver seen least recently.
// It approximates fair rotation; position and load are not considered.
type OldestIdle struct {
	repo driverRepo
	now  func() time.Time
}

// NewOldestIdle creates an OldestIdle matcher.
func NewOldestIdle(repo driverRepo) *OldestIdle {
	return &OldestIdle{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Match returns one eligible driver, or nil when none qualifies. It performs no writes.
func (m *OldestIdle) Match(ctx context.Context) (*domain.DriverPresence, error) {
	now := m.now()
	drivers, err := m.repo.ListOnlineWithActiveContract(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list eligible drivers: %w", err)
	}

	var best *domain.DriverPresence
	for i := range drivers {
		d := &drivers[i]
		if !d.IsOnline {
			continue
		}
		if best == nil || d.LastSeenAt.Before(best.LastSeenAt) {
			best = d
		}
	}
	return best, nil
}
