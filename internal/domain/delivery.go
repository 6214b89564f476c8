package domain

import "time"

type (
	// ProviderType tells who carries a delivery.
	ProviderType string
	// DeliveryStatus represents the status of a delivery.
	DeliveryStatus string
)

// List of possible provider types
const (
	ProviderInternalDriver ProviderType = "INTERNAL_DRIVER"
	ProviderTaxiOffice     ProviderType = "TAXI_OFFICE"
)

// List of possible delivery statuses
const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryConfirmed DeliveryStatus = "CONFIRMED"
	DeliveryScheduled DeliveryStatus = "SCHEDULED"
	DeliveryPickingUp DeliveryStatus = "PICKING_UP"
	DeliveryOnTheWay  DeliveryStatus = "ON_THE_WAY"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
)

// Delivery is the courier assignment of one order.
// DriverUserID is set only for INTERNAL_DRIVER, TaxiOfficeID only for TAXI_OFFICE.
type Delivery struct {
	ID              string
	OrderID         string
	ProviderType    ProviderType
	Status          DeliveryStatus
	DriverUserID    *string
	TaxiOfficeID    *string
	ScheduledMoveAt *time.Time
	ConfirmedAt     *time.Time
	StartedAt       *time.Time
	DeliveredAt     *time.Time
	MoveNotifiedAt  *time.Time
	CreatedAt       time.Time
}

var deliveryEdges = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:   {DeliveryConfirmed, DeliveryCancelled},
	DeliveryConfirmed: {DeliveryScheduled, DeliveryCancelled},
	DeliveryScheduled: {DeliveryPickingUp, DeliveryConfirmed},
	DeliveryPickingUp: {DeliveryOnTheWay},
	DeliveryOnTheWay:  {DeliveryDelivered},
}

// CanTransitionTo reports whether s → to is an edge of the delivery graph.
func (s DeliveryStatus) CanTransitionTo(to DeliveryStatus) bool {
	for _, next := range deliveryEdges[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether the delivery may still be cancelled.
func (s DeliveryStatus) Cancellable() bool {
	return s.CanTransitionTo(DeliveryCancelled)
}

// DispatchResult is what the orchestrator committed for one order.
type DispatchResult struct {
	OrderID         string
	DeliveryID      string
	ProviderType    ProviderType
	DriverUserID    *string
	TaxiOfficeID    *string
	ScheduledMoveAt time.Time
}
