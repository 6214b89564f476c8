package driver

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
)

type presenceRepo interface {
	GetPresence(ctx context.Context, driverID string) (*domain.DriverPresence, error)
	UpsertPresence(ctx context.Context, p domain.DriverPresence) error
	ActiveContract(ctx context.Context, driverID string, now time.Time) (*domain.DriverContract, error)
}

type deliveryRepo interface {
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	Claim(ctx context.Context, id, driverID string) (bool, error)
	Release(ctx context.Context, id, driverID string) (bool, error)
	Progress(ctx context.Context, id, driverID string, from, to domain.DeliveryStatus, at time.Time) (bool, error)
	ListAvailable(ctx context.Context, limit int) ([]domain.Delivery, error)
	ListActiveByDriver(ctx context.Context, driverID string) ([]domain.Delivery, error)
}

type orderRepo interface {
	Transition(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)
}
