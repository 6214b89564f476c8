//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=dispatch

package dispatch

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
)

type orderRepo interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	Transition(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)
	AcceptByStore(ctx context.Context, id string, prepMinutes int) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
}

type deliveryRepo interface {
	Create(ctx context.Context, d *domain.Delivery) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	ConfirmTaxi(ctx context.Context, id, officeID string, at time.Time) (bool, error)
	SetScheduledMoveAt(ctx context.Context, id string, at time.Time) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
}

type officeDirectory interface {
	ListActiveOffices(ctx context.Context) ([]domain.TaxiOffice, error)
}

type driverMatcher interface {
	Match(ctx context.Context) (*domain.DriverPresence, error)
}

type taxiCascade interface {
	Run(ctx context.Context, delivery domain.Delivery, offices []domain.TaxiOffice) (*domain.TaxiOffice, error)
}

type moveScheduler interface {
	Internal(ctx context.Context, now time.Time, prepMinutes int, from, to *domain.Point) time.Time
	Taxi(now time.Time, prepMinutes int) time.Time
}

type flowStarter interface {
	Start(orderID string) bool
}
