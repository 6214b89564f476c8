package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
)

// Drivers is the in-memory presence and contract store.
type Drivers struct{ s *Store }

// GetPresence returns a copy of the driver's presence, or nil.
func (r *Drivers) GetPresence(_ context.Context, driverID string) (*domain.DriverPresence, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.presence[driverID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.LastPosition = copyPtr(p.LastPosition)
	return &cp, nil
}

// UpsertPresence writes the presence record. A nil position keeps the last known one.
func (r *Drivers) UpsertPresence(_ context.Context, p domain.DriverPresence) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := p
	cp.LastPosition = copyPtr(p.LastPosition)
	if prev, ok := r.s.presence[p.DriverUserID]; ok && cp.LastPosition == nil {
		cp.LastPosition = prev.LastPosition
	}
	r.s.presence[p.DriverUserID] = &cp
	return nil
}

// ListOnlineWithActiveContract returns online drivers with a covering ACTIVE contract, least recently seen first.
func (r *Drivers) ListOnlineWithActiveContract(_ context.Context, now time.Time) ([]domain.DriverPresence, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.DriverPresence, 0)
	for _, p := range r.s.presence {
		if p.IsOnline && r.activeContractLocked(p.DriverUserID, now) != nil {
			cp := *p
			cp.LastPosition = copyPtr(p.LastPosition)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastSeenAt.Equal(out[j].LastSeenAt) {
			return out[i].LastSeenAt.Before(out[j].LastSeenAt)
		}
		return out[i].DriverUserID < out[j].DriverUserID
	})
	return out, nil
}

// ActiveContract returns the covering ACTIVE contract with the latest end date, or nil.
func (r *Drivers) ActiveContract(_ context.Context, driverID string, now time.Time) (*domain.DriverContract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.activeContractLocked(driverID, now)
	if c == nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *Drivers) activeContractLocked(driverID string, now time.Time) *domain.DriverContract {
	var best *domain.DriverContract
	for _, c := range r.s.contracts {
		if c.DriverUserID != driverID || !c.Covers(now) {
			continue
		}
		if best == nil || c.EndDate.After(best.EndDate) {
			best = c
		}
	}
	return best
}

// CreateContract stores a contract.
func (r *Drivers) CreateContract(_ context.Context, c domain.DriverContract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := c
	r.s.contracts = append(r.s.contracts, &cp)
	return nil
}

// ExpireContracts marks ACTIVE contracts that ended by now as EXPIRED.
func (r *Drivers) ExpireContracts(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.contracts {
		if c.Status == domain.ContractActive && !c.EndDate.After(now) {
			c.Status = domain.ContractExpired
			n++
		}
	}
	return n, nil
}

// Taxi is the in-memory office directory and attempt store.
type Taxi struct{ s *Store }

// CreateOffice stores an office. A duplicate contact is apperr.ErrInvalid.
func (r *Taxi) CreateOffice(_ context.Context, o domain.TaxiOffice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.offices {
		if existing.Contact == o.Contact {
			return fmt.Errorf("office contact %q taken: %w", o.Contact, apperr.ErrInvalid)
		}
	}
	cp := o
	r.s.offices[o.ID] = &cp
	return nil
}

// ListActiveOffices returns active offices in ascending priority.
func (r *Taxi) ListActiveOffices(_ context.Context) ([]domain.TaxiOffice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.TaxiOffice, 0, len(r.s.offices))
	for _, o := range r.s.offices {
		if o.IsActive {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetOffice returns a copy of the office, or nil.
func (r *Taxi) GetOffice(_ context.Context, id string) (*domain.TaxiOffice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offices[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

// FindActiveOfficeByContact returns the active office with contact, or nil.
func (r *Taxi) FindActiveOfficeByContact(_ context.Context, contact string) (*domain.TaxiOffice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.offices {
		if o.IsActive && o.Contact == contact {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateAttempt stores an attempt.
func (r *Taxi) CreateAttempt(_ context.Context, a *domain.DispatchAttempt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.attempts = append(r.s.attempts, &cp)
	return nil
}

// GetAttempt returns a copy of the attempt, or nil.
func (r *Taxi) GetAttempt(_ context.Context, id string) (*domain.DispatchAttempt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attempts {
		if a.ID == id {
			return copyAttempt(a), nil
		}
	}
	return nil, nil
}

// ResolveAttempt moves a SENT attempt to status. Only the first resolution wins.
func (r *Taxi) ResolveAttempt(_ context.Context, id string, status domain.AttemptStatus, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attempts {
		if a.ID != id {
			continue
		}
		if a.Status != domain.AttemptSent {
			return false, nil
		}
		a.Status = status
		a.RespondedAt = &at
		return true, nil
	}
	return false, nil
}

// LatestSentAttempt returns the most recently sent pending attempt of an office, or nil.
func (r *Taxi) LatestSentAttempt(_ context.Context, officeID string) (*domain.DispatchAttempt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.DispatchAttempt
	for _, a := range r.s.attempts {
		if a.TaxiOfficeID != officeID || a.Status != domain.AttemptSent {
			continue
		}
		if latest == nil || !a.SentAt.Before(latest.SentAt) {
			latest = a
		}
	}
	return copyAttempt(latest), nil
}

// ListAttempts returns the attempts of a delivery in send order.
func (r *Taxi) ListAttempts(_ context.Context, deliveryID string) ([]domain.DispatchAttempt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.DispatchAttempt, 0)
	for _, a := range r.s.attempts {
		if a.DeliveryID == deliveryID {
			out = append(out, *copyAttempt(a))
		}
	}
	return out, nil
}

func copyAttempt(a *domain.DispatchAttempt) *domain.DispatchAttempt {
	if a == nil {
		return nil
	}
	cp := *a
	cp.RespondedAt = copyPtr(a.RespondedAt)
	return &cp
}
