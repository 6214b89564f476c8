package domain

import "time"

// OrderStatus represents the fulfillment status of an order.
type OrderStatus string

// List of possible order statuses
const (
	OrderPendingStore             OrderStatus = "PENDING_STORE"
	OrderStoreAcceptedConditional OrderStatus = "STORE_ACCEPTED_CONDITIONAL"
	OrderDeliveryConfirming       OrderStatus = "DELIVERY_CONFIRMING"
	OrderPreparing                OrderStatus = "PREPARING"
	OrderReady                    OrderStatus = "READY"
	OrderCompleted                OrderStatus = "COMPLETED"
	OrderCancelled                OrderStatus = "CANCELLED"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// Branch is the store branch an order is prepared at.
type Branch struct {
	ID              string
	PrepTimeMinutes int
	Location        *Point
}

// Order is the ledger record of a customer order.
// PrepMinutes is the store's override; nil means the branch default applies.
type Order struct {
	ID          string
	Status      OrderStatus
	PrepMinutes *int
	StoreID     string
	Branch      Branch
	AddressID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectivePrepMinutes returns the store override, else the branch default.
func (o *Order) EffectivePrepMinutes() int {
	if o.PrepMinutes != nil {
		return *o.PrepMinutes
	}
	return o.Branch.PrepTimeMinutes
}

// orderNext is the forward edge of the order graph; CANCELLED is handled separately.
var orderNext = map[OrderStatus]OrderStatus{
	OrderPendingStore:             OrderStoreAcceptedConditional,
	OrderStoreAcceptedConditional: OrderDeliveryConfirming,
	OrderDeliveryConfirming:       OrderPreparing,
	OrderPreparing:                OrderReady,
	OrderReady:                    OrderCompleted,
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo reports whether s → to is an edge of the order graph.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if !s.Valid() || s.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return orderNext[s] == to
}
