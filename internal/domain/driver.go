package domain

import "time"

// ContractStatus represents the status of a driver contract.
type ContractStatus string

// List of possible contract statuses
const (
	ContractActive     ContractStatus = "ACTIVE"
	ContractExpired    ContractStatus = "EXPIRED"
	ContractSuspended  ContractStatus = "SUSPENDED"
	ContractTerminated ContractStatus = "TERMINATED"
)

// DriverPresence is the online/offline record a driver maintains for itself.
type DriverPresence struct {
	DriverUserID string
	IsOnline     bool
	LastSeenAt   time.Time
	LastPosition *Point
}

// DriverContract is a driver's validity window with the platform.
type DriverContract struct {
	ID             string
	DriverUserID   string
	StartDate      time.Time
	EndDate        time.Time
	Status         ContractStatus
	CommissionRate float64
	AutoRenew      bool
}

// Covers reports whether the contract makes its driver dispatch-eligible at now.
// The window is half-open: [StartDate, EndDate).
func (c DriverContract) Covers(now time.Time) bool {
	return c.Status == ContractActive && !c.StartDate.After(now) && c.EndDate.After(now)
}

// DaysLeft returns the whole days remaining, rounded up.
func (c DriverContract) DaysLeft(now time.Time) int {
	left := c.EndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	days := left / (24 * time.Hour)
	if left%(24*time.Hour) != 0 {
		days++
	}
	return int(days)
}
