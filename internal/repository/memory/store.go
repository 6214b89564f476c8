// Package memory holds in-process stores with the same conditional-update
// semantics as the Postgres repositories. They back state machine tests and
// local runs without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
)

// Store keeps every record behind one mutex.
type Store struct {
	mu         sync.Mutex
	orders     map[string]*domain.Order
	history    map[string][]domain.OrderStatus
	deliveries map[string]*domain.Delivery
	byOrder    map[string]string
	presence   map[string]*domain.DriverPresence
	contracts  []*domain.DriverContract
	offices    map[string]*domain.TaxiOffice
	attempts   []*domain.DispatchAttempt
}

// New returns an empty store.
func New() *Store {
	return &Store{
		orders:     make(map[string]*domain.Order),
		history:    make(map[string][]domain.OrderStatus),
		deliveries: make(map[string]*domain.Delivery),
		byOrder:    make(map[string]string),
		presence:   make(map[string]*domain.DriverPresence),
		offices:    make(map[string]*domain.TaxiOffice),
	}
}

// Orders returns the order ledger view.
func (s *Store) Orders() *Orders { return &Orders{s: s} }

// Deliveries returns the delivery view.
func (s *Store) Deliveries() *Deliveries { return &Deliveries{s: s} }

// Drivers returns the presence and contract view.
func (s *Store) Drivers() *Drivers { return &Drivers{s: s} }

// Taxi returns the office and attempt view.
func (s *Store) Taxi() *Taxi { return &Taxi{s: s} }

// OrderHistory returns every status the order has held, oldest first.
func (s *Store) OrderHistory(id string) []domain.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OrderStatus(nil), s.history[id]...)
}

// Orders is the in-memory order ledger.
type Orders struct{ s *Store }

// Get returns a copy of the order, or nil.
func (r *Orders) Get(_ context.Context, id string) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.PrepMinutes = copyPtr(o.PrepMinutes)
	cp.Branch.Location = copyPtr(o.Branch.Location)
	return &cp, nil
}

// Create stores an order.
func (r *Orders) Create(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; ok {
		return fmt.Errorf("order %q: %w", o.ID, apperr.ErrInvalid)
	}
	cp := *o
	r.s.orders[o.ID] = &cp
	r.s.history[o.ID] = []domain.OrderStatus{o.Status}
	return nil
}

func (r *Orders) transition(id string, ok func(domain.OrderStatus) bool, to domain.OrderStatus, mutate func(*domain.Order)) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, found := r.s.orders[id]
	if !found || !ok(o.Status) {
		return false
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	if mutate != nil {
		mutate(o)
	}
	r.s.history[id] = append(r.s.history[id], to)
	return true
}

// Transition moves the order from one status to another.
func (r *Orders) Transition(_ context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	return r.transition(id, func(st domain.OrderStatus) bool { return st == from }, to, nil), nil
}

// AcceptByStore moves PENDING_STORE to STORE_ACCEPTED_CONDITIONAL and stores the override.
func (r *Orders) AcceptByStore(_ context.Context, id string, prepMinutes int) (bool, error) {
	return r.transition(id,
		func(st domain.OrderStatus) bool { return st == domain.OrderPendingStore },
		domain.OrderStoreAcceptedConditional,
		func(o *domain.Order) { o.PrepMinutes = &prepMinutes },
	), nil
}

// Cancel moves a non-terminal order to CANCELLED.
func (r *Orders) Cancel(_ context.Context, id string) (bool, error) {
	return r.transition(id, func(st domain.OrderStatus) bool { return !st.Terminal() }, domain.OrderCancelled, nil), nil
}

// Deliveries is the in-memory delivery store.
type Deliveries struct{ s *Store }

// Create stores a delivery. A second delivery for the same order is apperr.ErrInvalidState.
func (r *Deliveries) Create(_ context.Context, d *domain.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.byOrder[d.OrderID]; ok {
		return fmt.Errorf("delivery for order %q: %w", d.OrderID, apperr.ErrInvalidState)
	}
	d.CreatedAt = time.Now().UTC()
	cp := *d
	r.s.deliveries[d.ID] = &cp
	r.s.byOrder[d.OrderID] = d.ID
	return nil
}

// Get returns a copy of the delivery, or nil.
func (r *Deliveries) Get(_ context.Context, id string) (*domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyDelivery(r.s.deliveries[id]), nil
}

// GetByOrderID returns a copy of the order's delivery, or nil.
func (r *Deliveries) GetByOrderID(_ context.Context, orderID string) (*domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyDelivery(r.s.deliveries[r.s.byOrder[orderID]]), nil
}

func (r *Deliveries) update(id string, cond func(*domain.Delivery) bool, mutate func(*domain.Delivery)) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deliveries[id]
	if !ok || !cond(d) {
		return false
	}
	mutate(d)
	return true
}

// ConfirmTaxi binds a pending taxi delivery to the winning office.
func (r *Deliveries) ConfirmTaxi(_ context.Context, id, officeID string, at time.Time) (bool, error) {
	return r.update(id,
		func(d *domain.Delivery) bool {
			return d.Status == domain.DeliveryPending && d.ProviderType == domain.ProviderTaxiOffice
		},
		func(d *domain.Delivery) {
			d.TaxiOfficeID = &officeID
			d.Status = domain.DeliveryConfirmed
			d.ConfirmedAt = &at
		}), nil
}

// SetScheduledMoveAt records when the courier should start moving.
func (r *Deliveries) SetScheduledMoveAt(_ context.Context, id string, at time.Time) (bool, error) {
	return r.update(id,
		func(d *domain.Delivery) bool {
			return d.Status != domain.DeliveryCancelled && d.Status != domain.DeliveryDelivered
		},
		func(d *domain.Delivery) { d.ScheduledMoveAt = &at }), nil
}

// Cancel moves a PENDING or CONFIRMED delivery to CANCELLED.
func (r *Deliveries) Cancel(_ context.Context, id string) (bool, error) {
	return r.update(id,
		func(d *domain.Delivery) bool { return d.Status.Cancellable() },
		func(d *domain.Delivery) { d.Status = domain.DeliveryCancelled }), nil
}

// Claim binds an unclaimed internal delivery to driverID.
func (r *Deliveries) Claim(_ context.Context, id, driverID string) (bool, error) {
	return r.update(id,
		func(d *domain.Delivery) bool {
			return d.Status == domain.DeliveryConfirmed && d.DriverUserID == nil &&
				d.ProviderType == domain.ProviderInternalDriver
		},
		func(d *domain.Delivery) {
			d.DriverUserID = &driverID
			d.Status = domain.DeliveryScheduled
		}), nil
}

// Release returns a delivery claimed by driverID to the pool.
func (r *Deliveries) Release(_ context.Context, id, driverID string) (bool, error) {
	return r.update(id,
		func(d *domain.Delivery) bool { return d.Status == domain.DeliveryScheduled && boundTo(d, driverID) },
		func(d *domain.Delivery) {
			d.DriverUserID = nil
			d.Status = domain.DeliveryConfirmed
		}), nil
}

// Progress moves a delivery bound to driverID from one status to the next.
func (r *Deliveries) Progress(_ context.Context, id, driverID string, from, to domain.DeliveryStatus, at time.Time) (bool, error) {
	return r.update(id,
		func(d *domain.Delivery) bool { return d.Status == from && boundTo(d, driverID) },
		func(d *domain.Delivery) {
			d.Status = to
			switch to {
			case domain.DeliveryPickingUp:
				d.StartedAt = &at
			case domain.DeliveryDelivered:
				d.DeliveredAt = &at
			}
		}), nil
}

// ListAvailable returns unclaimed internal deliveries, earliest move time first.
func (r *Deliveries) ListAvailable(_ context.Context, limit int) ([]domain.Delivery, error) {
	out := r.filter(func(d *domain.Delivery) bool {
		return d.Status == domain.DeliveryConfirmed && d.DriverUserID == nil &&
			d.ProviderType == domain.ProviderInternalDriver
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !timeEqual(a.ScheduledMoveAt, b.ScheduledMoveAt) {
			return timeBefore(a.ScheduledMoveAt, b.ScheduledMoveAt)
		}
		return timeBefore(a.ConfirmedAt, b.ConfirmedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListActiveByDriver returns deliveries the driver is carrying.
func (r *Deliveries) ListActiveByDriver(_ context.Context, driverID string) ([]domain.Delivery, error) {
	out := r.filter(func(d *domain.Delivery) bool {
		switch d.Status {
		case domain.DeliveryScheduled, domain.DeliveryPickingUp, domain.DeliveryOnTheWay:
			return boundTo(d, driverID)
		}
		return false
	})
	sort.SliceStable(out, func(i, j int) bool { return timeBefore(out[i].ScheduledMoveAt, out[j].ScheduledMoveAt) })
	return out, nil
}

// ListDueTaxiMoves returns confirmed taxi deliveries due for a go-now reminder.
func (r *Deliveries) ListDueTaxiMoves(_ context.Context, now time.Time, limit int) ([]domain.Delivery, error) {
	out := r.filter(func(d *domain.Delivery) bool {
		return d.ProviderType == domain.ProviderTaxiOffice && d.Status == domain.DeliveryConfirmed &&
			d.ScheduledMoveAt != nil && !d.ScheduledMoveAt.After(now) && d.MoveNotifiedAt == nil
	})
	sort.SliceStable(out, func(i, j int) bool { return timeBefore(out[i].ScheduledMoveAt, out[j].ScheduledMoveAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkMoveNotified records the reminder once.
func (r *Deliveries) MarkMoveNotified(_ context.Context, id string, at time.Time) (bool, error) {
	return r.update(id,
		func(d *domain.Delivery) bool { return d.MoveNotifiedAt == nil },
		func(d *domain.Delivery) { d.MoveNotifiedAt = &at }), nil
}

func (r *Deliveries) filter(keep func(*domain.Delivery) bool) []domain.Delivery {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Delivery, 0)
	for _, d := range r.s.deliveries {
		if keep(d) {
			out = append(out, *copyDelivery(d))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func boundTo(d *domain.Delivery, driverID string) bool {
	return d.DriverUserID != nil && *d.DriverUserID == driverID
}

func copyDelivery(d *domain.Delivery) *domain.Delivery {
	if d == nil {
		return nil
	}
	cp := *d
	cp.DriverUserID = copyPtr(d.DriverUserID)
	cp.TaxiOfficeID = copyPtr(d.TaxiOfficeID)
	cp.ScheduledMoveAt = copyPtr(d.ScheduledMoveAt)
	cp.ConfirmedAt = copyPtr(d.ConfirmedAt)
	cp.StartedAt = copyPtr(d.StartedAt)
	cp.DeliveredAt = copyPtr(d.DeliveredAt)
	cp.MoveNotifiedAt = copyPtr(d.MoveNotifiedAt)
	return &cp
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// timeBefore orders nil after every set time.
func timeBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
