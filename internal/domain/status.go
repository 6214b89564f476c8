package domain

var allowedOrderStatuses = [...]OrderStatus{
	OrderPendingStore, OrderStoreAcceptedConditional, OrderDeliveryConfirming,
	OrderPreparing, OrderReady, OrderCompleted, OrderCancelled,
}

var allowedDeliveryStatuses = [...]DeliveryStatus{
	DeliveryPending, DeliveryConfirmed, DeliveryScheduled, DeliveryPickingUp,
	DeliveryOnTheWay, DeliveryDelivered, DeliveryCancelled,
}

var allowedProviderTypes = [...]ProviderType{
	ProviderInternalDriver, ProviderTaxiOffice,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedDeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the ProviderType is valid
func (t ProviderType) Valid() bool {
	for _, v := range allowedProviderTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Valid checks if the AttemptStatus is valid
func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptSent, AttemptAccepted, AttemptRejected, AttemptTimeout:
		return true
	}
	return false
}
