package dispatch

import (
	"context"
	"errors"
	"sync"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
)

type dispatcher interface {
	Dispatch(ctx context.Context, orderID string) (*domain.DispatchResult, error)
}

// Runner executes dispatch flows in the background, at most one per order.
// Flows are detached from the caller and end only on their own outcome.
type Runner struct {
	flows   dispatcher
	metrics *metrics.Dispatch
	logger  logx.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

// NewRunner creates a Runner.
func NewRunner(flows dispatcher, m *metrics.Dispatch, logger logx.Logger) *Runner {
	if m == nil {
		m = metrics.NewNopDispatch()
	}
	return &Runner{flows: flows, metrics: m, logger: logger, inflight: make(map[string]struct{})}
}

// Start launches the flow for orderID. It returns false if one is already running.
func (r *Runner) Start(orderID string) bool {
	r.mu.Lock()
	if _, busy := r.inflight[orderID]; busy {
		r.mu.Unlock()
		r.logger.Debug("dispatch already running", logx.OrderID(orderID))
		return false
	}
	r.inflight[orderID] = struct{}{}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			delete(r.inflight, orderID)
			r.mu.Unlock()
		}()
		r.run(context.Background(), orderID)
	}()
	return true
}

// Run executes the flow for orderID synchronously and records its outcome.
func (r *Runner) Run(ctx context.Context, orderID string) (*domain.DispatchResult, error) {
	return r.run(ctx, orderID)
}

func (r *Runner) run(ctx context.Context, orderID string) (*domain.DispatchResult, error) {
	res, err := r.flows.Dispatch(ctx, orderID)
	switch {
	case err == nil:
		outcome := metrics.OutcomeInternalDriver
		if res.ProviderType == domain.ProviderTaxiOffice {
			outcome = metrics.OutcomeTaxiOffice
		}
		r.metrics.Outcomes.WithLabelValues(outcome).Inc()
		r.logger.Info("dispatch done", logx.Event("dispatch_done"),
			logx.OrderID(orderID), logx.DeliveryID(res.DeliveryID),
			logx.String("provider", string(res.ProviderType)), logx.Time("scheduled_move_at", res.ScheduledMoveAt))
	case errors.Is(err, apperr.ErrNoCourierAvailable):
		r.metrics.Outcomes.WithLabelValues(metrics.OutcomeNoCourier).Inc()
		r.logger.Info("dispatch found no courier", logx.Event("dispatch_no_courier"), logx.OrderID(orderID))
	case errors.Is(err, apperr.ErrCancelled):
		r.metrics.Outcomes.WithLabelValues(metrics.OutcomeCancelled).Inc()
		r.logger.Info("dispatch stopped, order cancelled", logx.Event("dispatch_cancelled"), logx.OrderID(orderID))
	default:
		r.metrics.Outcomes.WithLabelValues(metrics.OutcomeError).Inc()
		r.logger.Error("dispatch failed", logx.Event("dispatch_failed"), logx.OrderID(orderID), logx.Err(err))
	}
	return res, err
}

// InFlight returns the number of running flows.
func (r *Runner) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inflight)
}

// Wait blocks until every started flow ends or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
