package logx

import "time"

// Field is one key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func Any(key string, value any) Field { return Field{Key: key, Value: value} }

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Time(key string, value time.Time) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err holds the error text under "err". A nil error yields an empty value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "err", Value: ""}
	}
	return Field{Key: "err", Value: err.Error()}
}

// Event tags a dispatch state transition, e.g. "cascade_exhausted".
func Event(name string) Field { return Field{Key: "event", Value: name} }

// Identifiers shared across flow, cascade and handler logs so one order can be traced end to end.

func OrderID(id string) Field { return Field{Key: "order_id", Value: id} }

func DeliveryID(id string) Field { return Field{Key: "delivery_id", Value: id} }

func DriverID(id string) Field { return Field{Key: "driver_id", Value: id} }

func AttemptID(id string) Field { return Field{Key: "attempt_id", Value: id} }
