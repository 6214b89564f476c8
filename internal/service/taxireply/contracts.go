package taxireply

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
)

type taxiRepo interface {
	FindActiveOfficeByContact(ctx context.Context, contact string) (*domain.TaxiOffice, error)
	LatestSentAttempt(ctx context.Context, officeID string) (*domain.DispatchAttempt, error)
	GetAttempt(ctx context.Context, id string) (*domain.DispatchAttempt, error)
	ResolveAttempt(ctx context.Context, id string, status domain.AttemptStatus, at time.Time) (bool, error)
}
