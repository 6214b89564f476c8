package kafka

import (
	"strings"
	"time"

	"food-dispatch/internal/service/orders"
)

// orderMessage is the JSON payload on the orders topic.
// Producers older than the reason field send only order_id, status and created_at.
type orderMessage struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (m orderMessage) event() orders.Event {
	return orders.Event{
		OrderID:    strings.TrimSpace(m.OrderID),
		Status:     strings.ToLower(strings.TrimSpace(m.Status)),
		Reason:     strings.TrimSpace(m.Reason),
		OccurredAt: m.CreatedAt,
	}
}
