// Package cascade offers a delivery to taxi offices one at a time, in priority order.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/gateway/notify"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
)

// Config holds cascade timing.
type Config struct {
	// Window is how long each office has to answer.
	Window time.Duration
	// PollInterval bounds how often a waiting attempt is re-read without a signal.
	PollInterval time.Duration
	// OperationTimeout bounds each repository call.
	OperationTimeout time.Duration
}

// Dispatcher runs taxi cascades.
type Dispatcher struct {
	repo       attemptRepo
	deliveries deliveryReader
	sender     sender
	signals    subscriber
	metrics    *metrics.Dispatch
	logger     logx.Logger
	cfg        Config
	now        func() time.Time
	newID      func() string
}

// New creates a Dispatcher. deliveries is read between and during offers so a cancelled
// delivery stops the cascade.
func New(repo attemptRepo, deliveries deliveryReader, s sender, signals subscriber, m *metrics.Dispatch, logger logx.Logger, cfg Config) *Dispatcher {
	if cfg.Window <= 0 {
		cfg.Window = 60 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 3 * time.Second
	}
	if m == nil {
		m = metrics.NewNopDispatch()
	}
	return &Dispatcher{
		repo:       repo,
		deliveries: deliveries,
		sender:     s,
		signals:    signals,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

func (d *Dispatcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.cfg.OperationTimeout)
}

// Run offers delivery to offices in the given order and returns the first office that accepts.
// It returns nil when every office rejected or timed out. Once the delivery leaves PENDING
// no further office is asked and the error explains why (apperr.ErrCancelled after a cancel).
func (d *Dispatcher) Run(ctx context.Context, delivery domain.Delivery, offices []domain.TaxiOffice) (*domain.TaxiOffice, error) {
	start := time.Now()
	defer func() { d.metrics.CascadeDuration.Observe(time.Since(start).Seconds()) }()

	log := d.logger.With(logx.OrderID(delivery.OrderID), logx.DeliveryID(delivery.ID))
	for i := range offices {
		office := offices[i]
		if err := d.ensurePending(ctx, delivery.ID); err != nil {
			log.Info("taxi cascade stopped", logx.Event("cascade_stopped"), logx.Err(err))
			return nil, err
		}
		status, err := d.offer(ctx, log, delivery, office)
		if err != nil {
			if errors.Is(err, apperr.ErrCancelled) {
				log.Info("taxi cascade stopped", logx.Event("cascade_stopped"), logx.Err(err))
			}
			return nil, err
		}
		if status == domain.AttemptAccepted {
			return &office, nil
		}
	}
	log.Info("taxi cascade exhausted", logx.Event("cascade_exhausted"), logx.Int("offices", len(offices)))
	return nil, nil
}

func (d *Dispatcher) offer(ctx context.Context, log logx.Logger, delivery domain.Delivery, office domain.TaxiOffice) (domain.AttemptStatus, error) {
	attempt := &domain.DispatchAttempt{
		ID:           d.newID(),
		DeliveryID:   delivery.ID,
		TaxiOfficeID: office.ID,
		Status:       domain.AttemptSent,
		SentAt:       d.now(),
	}
	log = log.With(logx.AttemptID(attempt.ID), logx.String("taxi_office_id", office.ID))

	// Subscribe first so a reply racing the insert is not missed.
	wake, unsubscribe := d.signals.Subscribe(attempt.ID)
	defer unsubscribe()

	opCtx, cancel := d.withTimeout(ctx)
	err := d.repo.CreateAttempt(opCtx, attempt)
	cancel()
	if err != nil {
		return "", fmt.Errorf("create attempt for office %q: %w", office.ID, err)
	}
	log.Info("taxi offer sent", logx.Event("attempt_sent"), logx.Int("priority", office.Priority))

	d.send(ctx, log, office, attempt.ID)

	status, err := d.await(ctx, delivery.ID, attempt.ID, wake)
	if err != nil {
		return "", err
	}
	d.metrics.Attempts.WithLabelValues(strings.ToLower(string(status))).Inc()
	log.Info("taxi attempt resolved", logx.Event("attempt_resolved"), logx.String("status", string(status)))

	if status == domain.AttemptAccepted {
		if err := d.ensurePending(ctx, delivery.ID); err != nil {
			d.withdraw(ctx, log, office, attempt.ID)
			return "", err
		}
	}
	return status, nil
}

// ensurePending returns apperr.ErrCancelled for a cancelled delivery, apperr.ErrNotFound for a
// missing one and apperr.ErrInvalidState for any other status than PENDING.
func (d *Dispatcher) ensurePending(ctx context.Context, deliveryID string) error {
	opCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	cur, err := d.deliveries.Get(opCtx, deliveryID)
	if err != nil {
		return fmt.Errorf("get delivery %q: %w", deliveryID, err)
	}
	switch {
	case cur == nil:
		return fmt.Errorf("delivery %q: %w", deliveryID, apperr.ErrNotFound)
	case cur.Status == domain.DeliveryCancelled:
		return fmt.Errorf("delivery %q: %w", deliveryID, apperr.ErrCancelled)
	case cur.Status != domain.DeliveryPending:
		return fmt.Errorf("delivery %q is %s: %w", deliveryID, cur.Status, apperr.ErrInvalidState)
	}
	return nil
}

// withdraw tells an office its accepted offer is void.
func (d *Dispatcher) withdraw(ctx context.Context, log logx.Logger, office domain.TaxiOffice, attemptID string) {
	opCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	if err := d.sender.Send(opCtx, office.Contact, notify.WithdrawnMessage(attemptID)); err != nil {
		d.metrics.NotificationsFailed.Inc()
		log.Warn("taxi withdrawal notification failed", logx.Err(err))
		return
	}
	log.Info("taxi offer withdrawn", logx.Event("attempt_withdrawn"))
}

func (d *Dispatcher) send(ctx context.Context, log logx.Logger, office domain.TaxiOffice, attemptID string) {
	opCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	msg := notify.OfferMessage(attemptID, humanWindow(d.cfg.Window))
	if err := d.sender.Send(opCtx, office.Contact, msg); err != nil {
		d.metrics.NotificationsFailed.Inc()
		log.Warn("taxi offer notification failed", logx.Err(err))
	}
}

// await blocks until the attempt leaves SENT or the window elapses, then returns its final status.
// Every poll tick also re-reads the delivery; once it is gone the attempt is closed as TIMEOUT
// so a late reply finds nothing to accept.
func (d *Dispatcher) await(ctx context.Context, deliveryID, attemptID string, wake <-chan struct{}) (domain.AttemptStatus, error) {
	deadline := time.NewTimer(d.cfg.Window)
	defer deadline.Stop()
	poll := time.NewTicker(d.cfg.PollInterval)
	defer poll.Stop()

	for {
		a, err := d.get(ctx, attemptID)
		if err != nil {
			return "", err
		}
		if a.Resolved() {
			return a.Status, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-wake:
		case <-poll.C:
			if err := d.ensurePending(ctx, deliveryID); err != nil {
				return d.abandon(ctx, attemptID, err)
			}
		case <-deadline.C:
			return d.expire(ctx, attemptID)
		}
	}
}

// expire records TIMEOUT unless a reply won the race, in which case the reply stands.
func (d *Dispatcher) expire(ctx context.Context, attemptID string) (domain.AttemptStatus, error) {
	opCtx, cancel := d.withTimeout(ctx)
	won, err := d.repo.ResolveAttempt(opCtx, attemptID, domain.AttemptTimeout, d.now())
	cancel()
	if err != nil {
		return "", fmt.Errorf("expire attempt %q: %w", attemptID, err)
	}
	if won {
		return domain.AttemptTimeout, nil
	}
	a, err := d.get(ctx, attemptID)
	if err != nil {
		return "", err
	}
	return a.Status, nil
}

// abandon closes a still-SENT attempt after its delivery went away and returns cause.
// If a reply won the race the attempt keeps that reply; an ACCEPTED one is then withdrawn by offer.
func (d *Dispatcher) abandon(ctx context.Context, attemptID string, cause error) (domain.AttemptStatus, error) {
	opCtx, cancel := d.withTimeout(ctx)
	won, err := d.repo.ResolveAttempt(opCtx, attemptID, domain.AttemptTimeout, d.now())
	cancel()
	if err != nil {
		return "", errors.Join(cause, fmt.Errorf("close attempt %q: %w", attemptID, err))
	}
	if won {
		return "", cause
	}
	a, err := d.get(ctx, attemptID)
	if err != nil {
		return "", errors.Join(cause, err)
	}
	return a.Status, nil
}

func (d *Dispatcher) get(ctx context.Context, attemptID string) (*domain.DispatchAttempt, error) {
	opCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	a, err := d.repo.GetAttempt(opCtx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("get attempt %q: %w", attemptID, err)
	}
	if a == nil {
		return nil, fmt.Errorf("attempt %q: %w", attemptID, apperr.ErrNotFound)
	}
	return a, nil
}

func humanWindow(w time.Duration) string {
	if w%time.Second == 0 {
		return fmt.Sprintf("%d seconds", int(w/time.Second))
	}
	return w.String()
}
