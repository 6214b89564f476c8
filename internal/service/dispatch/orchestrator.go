// Package dispatch sequences courier assignment for accepted orders and owns
// the order and delivery transitions it commits.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

// Orchestrator runs one dispatch flow per call.
type Orchestrator struct {
	orders           orderRepo
	deliveries       deliveryRepo
	offices          officeDirectory
	matcher          driverMatcher
	cascade          taxiCascade
	scheduler        moveScheduler
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() string
}

// Deps groups the collaborators of an Orchestrator.
type Deps struct {
	Orders     orderRepo
	Deliveries deliveryRepo
	Offices    officeDirectory
	Matcher    driverMatcher
	Cascade    taxiCascade
	Scheduler  moveScheduler
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(d Deps, timeout time.Duration, logger logx.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Orchestrator{
		orders:           d.Orders,
		deliveries:       d.Deliveries,
		offices:          d.Offices,
		matcher:          d.Matcher,
		cascade:          d.Cascade,
		scheduler:        d.Scheduler,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.operationTimeout)
}

// Dispatch assigns a courier to a STORE_ACCEPTED_CONDITIONAL order.
// Steps commit in order; a failing step aborts the rest and keeps what was committed.
// When no courier is found both the delivery and the order are cancelled and
// apperr.ErrNoCourierAvailable is returned. An order cancelled while the flow
// runs stops it with apperr.ErrCancelled and leaves no claimable delivery.
func (o *Orchestrator) Dispatch(ctx context.Context, orderID string) (*domain.DispatchResult, error) {
	order, err := o.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStoreAcceptedConditional {
		return nil, fmt.Errorf("order %q is %s: %w", orderID, order.Status, apperr.ErrInvalidState)
	}
	log := o.logger.With(logx.OrderID(orderID))

	if err := o.transitionOrder(ctx, orderID, domain.OrderStoreAcceptedConditional, domain.OrderDeliveryConfirming); err != nil {
		return nil, err
	}
	log.Info("order delivery confirming", logx.Event("order_delivery_confirming"))

	matchCtx, cancel := o.withTimeout(ctx)
	driver, err := o.matcher.Match(matchCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("match driver: %w", err)
	}

	if driver != nil {
		return o.assignInternal(ctx, log, order, driver)
	}
	return o.assignTaxi(ctx, log, order)
}

func (o *Orchestrator) assignInternal(ctx context.Context, log logx.Logger, order *domain.Order, driver *domain.DriverPresence) (*domain.DispatchResult, error) {
	now := o.now()
	d := &domain.Delivery{
		ID:           o.newID(),
		OrderID:      order.ID,
		ProviderType: domain.ProviderInternalDriver,
		Status:       domain.DeliveryConfirmed,
		ConfirmedAt:  &now,
	}
	if err := o.createDelivery(ctx, d); err != nil {
		return nil, err
	}
	log = log.With(logx.DeliveryID(d.ID))
	log.Info("internal delivery confirmed", logx.Event("delivery_confirmed"),
		logx.String("provider", string(d.ProviderType)), logx.String("matched_driver", driver.DriverUserID))

	if err := o.transitionOrder(ctx, order.ID, domain.OrderDeliveryConfirming, domain.OrderPreparing); err != nil {
		return nil, o.abandon(ctx, log, order.ID, d.ID, err)
	}
	log.Info("order preparing", logx.Event("order_preparing"))

	moveAt := o.scheduler.Internal(ctx, now, order.EffectivePrepMinutes(), driver.LastPosition, order.Branch.Location)
	if err := o.schedule(ctx, log, order.ID, d.ID, moveAt); err != nil {
		return nil, err
	}

	return &domain.DispatchResult{
		OrderID:         order.ID,
		DeliveryID:      d.ID,
		ProviderType:    d.ProviderType,
		ScheduledMoveAt: moveAt,
	}, nil
}

func (o *Orchestrator) assignTaxi(ctx context.Context, log logx.Logger, order *domain.Order) (*domain.DispatchResult, error) {
	d := &domain.Delivery{
		ID:           o.newID(),
		OrderID:      order.ID,
		ProviderType: domain.ProviderTaxiOffice,
		Status:       domain.DeliveryPending,
	}
	if err := o.createDelivery(ctx, d); err != nil {
		return nil, err
	}
	log = log.With(logx.DeliveryID(d.ID))
	log.Info("taxi delivery pending", logx.Event("delivery_pending"))

	// The order is read after the delivery exists so a concurrent cancel sees one or the other.
	if err := o.ensureConfirming(ctx, order.ID); err != nil {
		return nil, o.abandon(ctx, log, order.ID, d.ID, err)
	}

	listCtx, cancel := o.withTimeout(ctx)
	offices, err := o.offices.ListActiveOffices(listCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("list taxi offices: %w", err)
	}

	office, err := o.cascade.Run(ctx, *d, offices)
	if err != nil {
		if errors.Is(err, apperr.ErrCancelled) {
			log.Info("taxi cascade stopped, delivery cancelled", logx.Event("dispatch_cancelled"))
		}
		return nil, fmt.Errorf("taxi cascade: %w", err)
	}
	if office == nil {
		return nil, o.giveUp(ctx, log, order.ID, d.ID)
	}

	now := o.now()
	opCtx, cancel := o.withTimeout(ctx)
	ok, err := o.deliveries.ConfirmTaxi(opCtx, d.ID, office.ID, now)
	cancel()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, o.deliveryStateError(ctx, order.ID, d.ID, "confirm")
	}
	log.Info("taxi delivery confirmed", logx.Event("delivery_confirmed"),
		logx.String("provider", string(d.ProviderType)), logx.String("taxi_office_id", office.ID))

	if err := o.transitionOrder(ctx, order.ID, domain.OrderDeliveryConfirming, domain.OrderPreparing); err != nil {
		return nil, o.abandon(ctx, log, order.ID, d.ID, err)
	}
	log.Info("order preparing", logx.Event("order_preparing"))

	moveAt := o.scheduler.Taxi(now, order.EffectivePrepMinutes())
	if err := o.schedule(ctx, log, order.ID, d.ID, moveAt); err != nil {
		return nil, err
	}

	officeID := office.ID
	return &domain.DispatchResult{
		OrderID:         order.ID,
		DeliveryID:      d.ID,
		ProviderType:    d.ProviderType,
		TaxiOfficeID:    &officeID,
		ScheduledMoveAt: moveAt,
	}, nil
}

// giveUp cancels the delivery, then the order.
// A delivery or order that was cancelled meanwhile counts as done.
func (o *Orchestrator) giveUp(ctx context.Context, log logx.Logger, orderID, deliveryID string) error {
	opCtx, cancel := o.withTimeout(ctx)
	ok, err := o.deliveries.Cancel(opCtx, deliveryID)
	cancel()
	if err != nil {
		return err
	}
	if !ok {
		return o.deliveryStateError(ctx, orderID, deliveryID, "cancel")
	}
	log.Info("delivery cancelled", logx.Event("delivery_cancelled"))

	if err := o.transitionOrder(ctx, orderID, domain.OrderDeliveryConfirming, domain.OrderCancelled); err != nil {
		if o.orderCancelled(ctx, orderID) {
			return fmt.Errorf("order %q: %w", orderID, apperr.ErrCancelled)
		}
		return err
	}
	log.Info("order cancelled, no courier", logx.Event("order_cancelled"))
	return fmt.Errorf("order %q: %w", orderID, apperr.ErrNoCourierAvailable)
}

// abandon cancels a delivery this flow created once the order has been taken
// away from it. cause is returned unless the order was cancelled, which
// yields apperr.ErrCancelled.
func (o *Orchestrator) abandon(ctx context.Context, log logx.Logger, orderID, deliveryID string, cause error) error {
	if !errors.Is(cause, apperr.ErrInvalidState) && !errors.Is(cause, apperr.ErrNotFound) {
		return cause
	}
	opCtx, cancel := o.withTimeout(ctx)
	ok, err := o.deliveries.Cancel(opCtx, deliveryID)
	cancel()
	if err != nil {
		return errors.Join(cause, fmt.Errorf("cancel delivery %q: %w", deliveryID, err))
	}
	if ok {
		log.Info("delivery cancelled, order withdrawn", logx.Event("delivery_cancelled"), logx.Err(cause))
	}
	if o.orderCancelled(ctx, orderID) {
		return fmt.Errorf("order %q: %w", orderID, apperr.ErrCancelled)
	}
	return cause
}

// deliveryStateError explains a refused delivery update.
func (o *Orchestrator) deliveryStateError(ctx context.Context, orderID, deliveryID, op string) error {
	opCtx, cancel := o.withTimeout(ctx)
	current, err := o.deliveries.GetByOrderID(opCtx, orderID)
	cancel()
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%s delivery %q: %w", op, deliveryID, apperr.ErrNotFound)
	}
	if current.Status == domain.DeliveryCancelled {
		return fmt.Errorf("%s delivery %q: %w", op, deliveryID, apperr.ErrCancelled)
	}
	return fmt.Errorf("%s delivery %q is %s: %w", op, deliveryID, current.Status, apperr.ErrInvalidState)
}

func (o *Orchestrator) ensureConfirming(ctx context.Context, orderID string) error {
	order, err := o.getOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderDeliveryConfirming {
		return fmt.Errorf("order %q is %s: %w", orderID, order.Status, apperr.ErrInvalidState)
	}
	return nil
}

func (o *Orchestrator) orderCancelled(ctx context.Context, orderID string) bool {
	order, err := o.getOrder(ctx, orderID)
	return err == nil && order.Status == domain.OrderCancelled
}

func (o *Orchestrator) schedule(ctx context.Context, log logx.Logger, orderID, deliveryID string, at time.Time) error {
	opCtx, cancel := o.withTimeout(ctx)
	ok, err := o.deliveries.SetScheduledMoveAt(opCtx, deliveryID, at)
	cancel()
	if err != nil {
		return err
	}
	if !ok {
		return o.deliveryStateError(ctx, orderID, deliveryID, "schedule")
	}
	log.Info("move scheduled", logx.Event("move_scheduled"), logx.Time("scheduled_move_at", at))
	return nil
}

func (o *Orchestrator) createDelivery(ctx context.Context, d *domain.Delivery) error {
	opCtx, cancel := o.withTimeout(ctx)
	defer cancel()
	if err := o.deliveries.Create(opCtx, d); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

func (o *Orchestrator) getOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	opCtx, cancel := o.withTimeout(ctx)
	defer cancel()
	order, err := o.orders.Get(opCtx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
	}
	return order, nil
}

// transitionOrder applies from → to and explains a refused update.
func (o *Orchestrator) transitionOrder(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	opCtx, cancel := o.withTimeout(ctx)
	ok, err := o.orders.Transition(opCtx, orderID, from, to)
	cancel()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return orderStateError(ctx, o.orders, o.operationTimeout, orderID, from, to)
}

func orderStateError(ctx context.Context, orders orderRepo, timeout time.Duration, orderID string, from, to domain.OrderStatus) error {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	current, err := orders.Get(opCtx, orderID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
	}
	return fmt.Errorf("order %q is %s, want %s for %s: %w", orderID, current.Status, from, to, apperr.ErrInvalidState)
}
