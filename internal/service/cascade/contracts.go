package cascade

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
)

type attemptRepo interface {
	CreateAttempt(ctx context.Context, a *domain.DispatchAttempt) error
	GetAttempt(ctx context.Context, id string) (*domain.DispatchAttempt, error)
	ResolveAttempt(ctx context.Context, id string, status domain.AttemptStatus, at time.Time) (bool, error)
}

type deliveryReader interface {
	Get(ctx context.Context, id string) (*domain.Delivery, error)
}

type sender interface {
	Send(ctx context.Context, contact, message string) error
}

type subscriber interface {
	Subscribe(attemptID string) (<-chan struct{}, func())
}
