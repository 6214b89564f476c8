package handlers

import (
	"context"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/service/driver"
	"food-dispatch/internal/service/taxireply"
)

type storeUsecase interface {
	Accept(ctx context.Context, orderID string, prepMinutes int) (*domain.Order, error)
	Reject(ctx context.Context, orderID string) (*domain.Order, error)
	MarkReady(ctx context.Context, orderID string) (*domain.Order, error)
	View(ctx context.Context, orderID string) (*dispatch.OrderView, error)
}

type driverUsecase interface {
	GoOnline(ctx context.Context, driverID string, pos *domain.Point) (*domain.DriverPresence, error)
	GoOffline(ctx context.Context, driverID string) (*domain.DriverPresence, error)
	Status(ctx context.Context, driverID string) (*domain.DriverPresence, error)
	Contract(ctx context.Context, driverID string) (*driver.ContractView, error)
	Available(ctx context.Context, driverID string, limit int) ([]domain.Delivery, error)
	Active(ctx context.Context, driverID string) ([]domain.Delivery, error)
	Claim(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error)
	Release(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error)
	Pickup(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error)
	Depart(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error)
	Deliver(ctx context.Context, driverID, deliveryID string) (*domain.Delivery, error)
}

type replyUsecase interface {
	Handle(ctx context.Context, from, text string) (*domain.ReplyResult, error)
}

// NewStoreUsecase wires the order intake into a storeUsecase.
func NewStoreUsecase(svc *dispatch.Intake) storeUsecase {
	return svc
}

// NewDriverUsecase wires the driver service into a driverUsecase.
func NewDriverUsecase(svc *driver.Service) driverUsecase {
	return svc
}

// NewReplyUsecase wires the taxi reply intake into a replyUsecase.
func NewReplyUsecase(svc *taxireply.Service) replyUsecase {
	return svc
}
