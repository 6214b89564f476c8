package domain

import (
	"strings"
	"time"
)

// AttemptStatus represents the status of a dispatch attempt.
type AttemptStatus string

// List of possible attempt statuses
const (
	AttemptSent     AttemptStatus = "SENT"
	AttemptAccepted AttemptStatus = "ACCEPTED"
	AttemptRejected AttemptStatus = "REJECTED"
	AttemptTimeout  AttemptStatus = "TIMEOUT"
)

// TaxiOffice is an external dispatch partner. Lower Priority is tried first.
type TaxiOffice struct {
	ID       string
	Name     string
	Contact  string
	Priority int
	IsActive bool
}

// DispatchAttempt is one timed offer of one delivery to one office.
type DispatchAttempt struct {
	ID           string
	DeliveryID   string
	TaxiOfficeID string
	Status       AttemptStatus
	SentAt       time.Time
	RespondedAt  *time.Time
}

// Resolved reports whether the attempt left SENT.
func (a DispatchAttempt) Resolved() bool {
	return a.Status != AttemptSent
}

// ReplyDecision maps a taxi office reply to an attempt resolution.
// ok is false for any text other than "1" (accept) or "2" (reject).
func ReplyDecision(text string) (status AttemptStatus, ok bool) {
	switch strings.TrimSpace(text) {
	case "1":
		return AttemptAccepted, true
	case "2":
		return AttemptRejected, true
	default:
		return "", false
	}
}

// NormalizeContact strips whitespace and a leading '+' from a contact channel id.
func NormalizeContact(raw string) string {
	c := strings.Join(strings.Fields(raw), "")
	return strings.TrimPrefix(c, "+")
}

// ReplyNote describes the outcome of a reply that did not fail.
type ReplyNote string

// List of possible reply notes
const (
	ReplyApplied         ReplyNote = ""
	ReplyNoPending       ReplyNote = "NO_PENDING_ATTEMPT"
	ReplyIgnoredText     ReplyNote = "IGNORED_TEXT"
	ReplyAlreadyResolved ReplyNote = "ALREADY_RESOLVED"
)

// ReplyResult is the outcome of one external acknowledgement.
type ReplyResult struct {
	AttemptID string
	Status    AttemptStatus
	Note      ReplyNote
}
