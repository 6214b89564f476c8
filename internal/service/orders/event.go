package orders

import "time"

// Event is an order lifecycle notification from the ordering system.
// Only a restaurant accept and a cancellation change dispatch state.
type Event struct {
	OrderID    string
	Status     string
	Reason     string
	OccurredAt time.Time
}

// Age returns how long ago the event happened. Zero when OccurredAt is unset.
func (e Event) Age(now time.Time) time.Duration {
	if e.OccurredAt.IsZero() || now.Before(e.OccurredAt) {
		return 0
	}
	return now.Sub(e.OccurredAt)
}
