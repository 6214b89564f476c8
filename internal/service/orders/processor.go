package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/logx"
)

// ErrPermanent marks an event that will never succeed on redelivery.
var ErrPermanent = errors.New("permanent event failure")

type eventKind int

const (
	kindIgnored eventKind = iota
	kindAccepted
	kindCancelled
)

// Both spellings of cancelled are in use by upstream producers.
var kindByStatus = map[string]eventKind{
	"store_accepted":             kindAccepted,
	"store_accepted_conditional": kindAccepted,
	"cancelled":                  kindCancelled,
	"canceled":                   kindCancelled,
}

func kindOf(status string) eventKind {
	return kindByStatus[strings.ToLower(strings.TrimSpace(status))]
}

// Processor turns order events into dispatch actions: an accepted order starts its
// flow, a cancelled one is cancelled along with its delivery.
type Processor struct {
	flows  FlowStarter
	orders OrderCanceller
	logger logx.Logger
	now    func() time.Time
}

// NewProcessor creates a Processor that starts flows through flows and cancels through orders.
func NewProcessor(flows FlowStarter, orders OrderCanceller, logger logx.Logger) *Processor {
	return &Processor{flows: flows, orders: orders, logger: logger, now: time.Now}
}

// Handle applies one event. Statuses other than accept and cancel are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	switch kindOf(e.Status) {
	case kindAccepted:
		if !p.flows.Start(e.OrderID) {
			p.logger.Debug("dispatch already in flight", logx.OrderID(e.OrderID))
		}
		return nil
	case kindCancelled:
		return p.cancel(ctx, e)
	default:
		p.logger.Debug("order event ignored", logx.OrderID(e.OrderID), logx.String("status", e.Status))
		return nil
	}
}

func (p *Processor) cancel(ctx context.Context, e Event) error {
	_, err := p.orders.Cancel(ctx, e.OrderID)
	switch {
	case err == nil:
		p.logger.Info("order cancelled by event",
			logx.OrderID(e.OrderID),
			logx.String("reason", e.Reason),
			logx.Duration("event_age", e.Age(p.now())))
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrInvalid):
		return errors.Join(ErrPermanent, err)
	default:
		return err
	}
}
