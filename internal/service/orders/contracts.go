//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"food-dispatch/internal/domain"
)

// FlowStarter starts the background dispatch flow of an accepted order.
type FlowStarter interface {
	Start(orderID string) bool
}

// OrderCanceller cancels an order and its delivery.
type OrderCanceller interface {
	Cancel(ctx context.Context, orderID string) (*domain.Order, error)
}
