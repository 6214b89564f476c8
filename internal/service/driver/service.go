// Package driver implements driver presence and the claim/progress operations
// drivers run against internal deliveries.
package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

// Listing bounds for available deliveries.
const (
	DefaultAvailableLimit = 20
	MaxAvailableLimit     = 100
)

// ContractView is a driver's active contract with the days it has left.
type ContractView struct {
	Contract domain.DriverContract
	DaysLeft int
}

// Service serves driver-facing operations.
type Service struct {
	drivers          presenceRepo
	deliveries       deliveryRepo
	orders           orderRepo
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// New creates a Service.
func New(drivers presenceRepo, deliveries deliveryRepo, orders orderRepo, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		drivers:          drivers,
		deliveries:       deliveries,
		orders:           orders,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// GoOnline marks the driver online. A nil position keeps the last known one.
func (s *Service) GoOnline(ctx context.Context, driverID string, pos *domain.Point) (*domain.DriverPresence, error) {
	if _, err := s.Contract(ctx, driverID); err != nil {
		return nil, err
	}
	return s.setPresence(ctx, strings.TrimSpace(driverID), true, pos)
}

// GoOffline marks the driver offline.
func (s *Service) GoOffline(ctx context.Context, driverID string) (*domain.DriverPresence, error) {
	id, err := validateID("driver", driverID)
	if err != nil {
		return nil, err
	}
	return s.setPresence(ctx, id, false, nil)
}

func (s *Service) setPresence(ctx context.Context, driverID string, online bool, pos *domain.Point) (*domain.DriverPresence, error) {
	p := domain.DriverPresence{DriverUserID: driverID, IsOnline: online, LastSeenAt: s.now(), LastPosition: pos}

	opCtx, cancel := s.withTimeout(ctx)
	err := s.drivers.UpsertPresence(opCtx, p)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("upsert presence: %w", err)
	}
	s.logger.Info("driver presence", logx.Event("driver_presence"),
		logx.DriverID(driverID), logx.Bool("online", online))
	return s.Status(ctx, driverID)
}

// Status returns the driver's presence. A driver never seen is reported offline.
func (s *Service) Status(ctx context.Context, driverID string) (*domain.DriverPresence, error) {
	id, err := validateID("driver", driverID)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	p, err := s.drivers.GetPresence(opCtx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &domain.DriverPresence{DriverUserID: id}, nil
	}
	return p, nil
}

// Contract returns the driver's active contract or apperr.ErrContractInactive.
func (s *Service) Contract(ctx context.Context, driverID string) (*ContractView, error) {
	id, err := validateID("driver", driverID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	c, err := s.drivers.ActiveContract(opCtx, id, now)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("driver %q: %w", id, apperr.ErrContractInactive)
	}
	return &ContractView{Contract: *c, DaysLeft: c.DaysLeft(now)}, nil
}

// Available lists unclaimed internal deliveries.
func (s *Service) Available(ctx context.Context, driverID string, limit int) ([]domain.Delivery, error) {
	if _, err := s.Contract(ctx, driverID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultAvailableLimit
	}
	if limit > MaxAvailableLimit {
		limit = MaxAvailableLimit
	}
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.deliveries.ListAvailable(opCtx, limit)
}

// Active lists the deliveries the driver is carrying.
func (s *Service) Active(ctx context.Context, driverID string) ([]domain.Delivery, error) {
	if _, err := s.Contract(ctx, driverID); err != nil {
		return nil, err
	}
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.deliveries.ListActiveByDriver(opCtx, strings.TrimSpace(driverID))
}

// Claim binds an unclaimed delivery to the driver. Exactly one concurrent claim wins.
func (s *Service) Claim(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error) {
	return s.apply(ctx, driverID, deliveryID, "delivery_claimed", func(ctx context.Context, d, id string) (bool, error) {
		return s.deliveries.Claim(ctx, id, d)
	})
}

// Release hands a claimed delivery back to the pool.
func (s *Service) Release(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error) {
	return s.apply(ctx, driverID, deliveryID, "delivery_released", func(ctx context.Context, d, id string) (bool, error) {
		return s.deliveries.Release(ctx, id, d)
	})
}

// Pickup starts the trip to the branch.
func (s *Service) Pickup(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error) {
	return s.progress(ctx, driverID, deliveryID, domain.DeliveryScheduled, domain.DeliveryPickingUp)
}

// Depart marks the food collected. The order becomes READY if the store has not marked it.
func (s *Service) Depart(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error) {
	d, err := s.progress(ctx, driverID, deliveryID, domain.DeliveryPickingUp, domain.DeliveryOnTheWay)
	if err != nil {
		return nil, err
	}
	s.advanceOrder(ctx, d.OrderID, domain.OrderPreparing, domain.OrderReady)
	return d, nil
}

// Deliver completes the delivery and its order.
func (s *Service) Deliver(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error) {
	d, err := s.progress(ctx, driverID, deliveryID, domain.DeliveryOnTheWay, domain.DeliveryDelivered)
	if err != nil {
		return nil, err
	}
	s.advanceOrder(ctx, d.OrderID, domain.OrderReady, domain.OrderCompleted)
	return d, nil
}

func (s *Service) progress(ctx context.Context, driverID, deliveryID string, from, to domain.DeliveryStatus) (*domain.Delivery, error) {
	event := "delivery_" + strings.ToLower(string(to))
	return s.apply(ctx, driverID, deliveryID, event, func(ctx context.Context, d, id string) (bool, error) {
		return s.deliveries.Progress(ctx, id, d, from, to, s.now())
	})
}

// apply runs one conditional delivery update for an eligible driver and reports
// a refused update as ErrNotFound or ErrInvalidState.
func (s *Service) apply(ctx context.Context, driverID, deliveryID, event string, update func(ctx context.Context, driverID, deliveryID string) (bool, error)) (*domain.Delivery, error) {
	if _, err := s.Contract(ctx, driverID); err != nil {
		return nil, err
	}
	driverID = strings.TrimSpace(driverID)
	deliveryID, err := validateID("delivery", deliveryID)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := s.withTimeout(ctx)
	ok, err := update(opCtx, driverID, deliveryID)
	cancel()
	if err != nil {
		return nil, err
	}

	d, err := s.get(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("delivery %q is %s: %w", deliveryID, d.Status, apperr.ErrInvalidState)
	}
	s.logger.Info("delivery updated by driver", logx.Event(event),
		logx.DriverID(driverID), logx.DeliveryID(deliveryID),
		logx.OrderID(d.OrderID), logx.String("status", string(d.Status)))
	return d, nil
}

// advanceOrder follows a delivery step with its order step. A refused update is
// logged only: the order may already be there or cancelled out of band.
func (s *Service) advanceOrder(ctx context.Context, orderID string, from, to domain.OrderStatus) {
	opCtx, cancel := s.withTimeout(ctx)
	ok, err := s.orders.Transition(opCtx, orderID, from, to)
	cancel()
	log := s.logger.With(logx.OrderID(orderID))
	switch {
	case err != nil:
		log.Error("order transition failed", logx.String("to", string(to)), logx.Err(err))
	case ok:
		log.Info("order "+strings.ToLower(string(to)), logx.Event("order_"+strings.ToLower(string(to))))
	default:
		log.Debug("order transition skipped", logx.String("from", string(from)), logx.String("to", string(to)))
	}
}

func (s *Service) get(ctx context.Context, deliveryID string) (*domain.Delivery, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.deliveries.Get(opCtx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("delivery %q: %w", deliveryID, apperr.ErrNotFound)
	}
	return d, nil
}

func validateID(kind, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("empty %s id: %w", kind, apperr.ErrInvalid)
	}
	return id, nil
}
