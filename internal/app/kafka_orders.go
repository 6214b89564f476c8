package app

import (
	"context"
	"strings"
	"time"

	"food-dispatch/internal/service/orders"
	"food-dispatch/internal/transport/kafka"
)

const orderEventTimeout = 5 * time.Second

type orderEventHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

// makeOrdersKafka bounds each event by timeout before handing it to the processor.
func makeOrdersKafka(p orderEventHandler, timeout time.Duration) kafka.HandleFunc {
	if timeout <= 0 {
		timeout = orderEventTimeout
	}
	return func(ctx context.Context, event orders.Event) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		event.OrderID = strings.TrimSpace(event.OrderID)
		return p.Handle(ctx, event)
	}
}
