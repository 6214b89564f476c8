package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

// Prep time bounds accepted from a store, in minutes.
const (
	MinPrepMinutes = 5
	MaxPrepMinutes = 240
)

// OrderView is the polled state of an order and its delivery.
type OrderView struct {
	Order    domain.Order
	Delivery *domain.Delivery
}

// Intake handles store-side order operations and starts dispatch flows.
type Intake struct {
	orders           orderRepo
	deliveries       deliveryRepo
	flows            flowStarter
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewIntake creates an Intake.
func NewIntake(orders orderRepo, deliveries deliveryRepo, flows flowStarter, timeout time.Duration, logger logx.Logger) *Intake {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Intake{orders: orders, deliveries: deliveries, flows: flows, operationTimeout: timeout, logger: logger}
}

func (s *Intake) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Accept records the store's prep time, moves the order to STORE_ACCEPTED_CONDITIONAL
// and starts its dispatch flow in the background.
func (s *Intake) Accept(ctx context.Context, orderID string, prepMinutes int) (*domain.Order, error) {
	orderID, err := validateOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if prepMinutes < MinPrepMinutes || prepMinutes > MaxPrepMinutes {
		return nil, fmt.Errorf("prep minutes %d outside [%d, %d]: %w", prepMinutes, MinPrepMinutes, MaxPrepMinutes, apperr.ErrInvalid)
	}

	opCtx, cancel := s.withTimeout(ctx)
	ok, err := s.orders.AcceptByStore(opCtx, orderID, prepMinutes)
	cancel()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, orderStateError(ctx, s.orders, s.operationTimeout, orderID,
			domain.OrderPendingStore, domain.OrderStoreAcceptedConditional)
	}
	s.logger.Info("order accepted by store", logx.Event("order_store_accepted"),
		logx.OrderID(orderID), logx.Int("prep_minutes", prepMinutes))

	s.flows.Start(orderID)
	return s.get(ctx, orderID)
}

// Reject cancels an order on behalf of the store.
func (s *Intake) Reject(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.Cancel(ctx, orderID)
}

// Cancel moves the order to CANCELLED and cancels its delivery.
// An order whose delivery is already on its way cannot be cancelled.
func (s *Intake) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID, err := validateOrderID(orderID)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := s.withTimeout(ctx)
	d, err := s.deliveries.GetByOrderID(opCtx, orderID)
	cancel()
	if err != nil {
		return nil, err
	}
	if d != nil && !d.Status.Cancellable() {
		return nil, fmt.Errorf("delivery %q is %s: %w", d.ID, d.Status, apperr.ErrInvalidState)
	}

	opCtx, cancel = s.withTimeout(ctx)
	ok, err := s.orders.Cancel(opCtx, orderID)
	cancel()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, orderStateError(ctx, s.orders, s.operationTimeout, orderID, "non-terminal", domain.OrderCancelled)
	}
	s.logger.Info("order cancelled", logx.Event("order_cancelled"), logx.OrderID(orderID))

	// Re-read: a running flow may have created the delivery after the first read.
	opCtx, cancel = s.withTimeout(ctx)
	d, err = s.deliveries.GetByOrderID(opCtx, orderID)
	cancel()
	if err != nil {
		return nil, err
	}
	if d != nil && d.Status.Cancellable() {
		opCtx, cancel = s.withTimeout(ctx)
		ok, err = s.deliveries.Cancel(opCtx, d.ID)
		cancel()
		if err != nil {
			return nil, err
		}
		if ok {
			s.logger.Info("delivery cancelled", logx.Event("delivery_cancelled"),
				logx.OrderID(orderID), logx.DeliveryID(d.ID))
		}
	}
	return s.get(ctx, orderID)
}

// MarkReady moves a PREPARING order to READY.
func (s *Intake) MarkReady(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID, err := validateOrderID(orderID)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := s.withTimeout(ctx)
	ok, err := s.orders.Transition(opCtx, orderID, domain.OrderPreparing, domain.OrderReady)
	cancel()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, orderStateError(ctx, s.orders, s.operationTimeout, orderID, domain.OrderPreparing, domain.OrderReady)
	}
	s.logger.Info("order ready", logx.Event("order_ready"), logx.OrderID(orderID))
	return s.get(ctx, orderID)
}

// View returns the order and its delivery, if any.
func (s *Intake) View(ctx context.Context, orderID string) (*OrderView, error) {
	orderID, err := validateOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.deliveries.GetByOrderID(opCtx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderView{Order: *order, Delivery: d}, nil
}

func (s *Intake) get(ctx context.Context, orderID string) (*domain.Order, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	order, err := s.orders.Get(opCtx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
	}
	return order, nil
}

func validateOrderID(raw string) (string, error) {
	orderID := strings.TrimSpace(raw)
	if orderID == "" {
		return "", fmt.Errorf("empty order id: %w", apperr.ErrInvalid)
	}
	return orderID, nil
}
