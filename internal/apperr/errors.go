package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that a referenced order, delivery, office or attempt does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidState indicates that the record is not in the status the operation requires.
// No mutation has been applied when it is returned.
var ErrInvalidState = errors.New("invalid state")

// ErrNoCourierAvailable is returned when neither a driver nor a taxi office took the delivery.
var ErrNoCourierAvailable = errors.New("no courier available")

// ErrTimeout marks an individual taxi offer that expired.
var ErrTimeout = errors.New("offer timed out")

// ErrCancelled indicates the order or its delivery was cancelled while a flow was working on it.
var ErrCancelled = errors.New("cancelled during dispatch")

// ErrContractInactive indicates the driver has no active contract covering now.
var ErrContractInactive = errors.New("driver contract inactive")
