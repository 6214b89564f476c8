package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"food-dispatch/internal/service/orders"
)

func TestOrderMessage_Event(t *testing.T) {
	t.Parallel()

	raw := `{"order_id":" order-1 ","status":" Cancelled ","reason":" customer ","created_at":"2025-01-02T03:04:05Z"}`

	var m orderMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	require.Equal(t, orders.Event{
		OrderID:    "order-1",
		Status:     "cancelled",
		Reason:     "customer",
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}, m.event())
}

func TestOrderMessage_EventWithoutOptionalFields(t *testing.T) {
	t.Parallel()

	var m orderMessage
	require.NoError(t, json.Unmarshal([]byte(`{"order_id":"o1","status":"store_accepted"}`), &m))

	ev := m.event()
	require.Equal(t, "o1", ev.OrderID)
	require.Empty(t, ev.Reason)
	require.True(t, ev.OccurredAt.IsZero())
}
