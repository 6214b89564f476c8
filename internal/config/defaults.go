package config

import "time"

const defaultPort = 8080

const (
	defaultDebugPort      = 6060
	defaultAttemptChannel = "dispatch:attempt-resolved"
	defaultNotifyQueue    = "taxi.notifications"
	minPollInterval       = 100 * time.Millisecond
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "dispatch_db",
}

var defaultDispatch = Dispatch{
	ResponseWindow:       60 * time.Second,
	PollInterval:         time.Second,
	OperationTimeout:     3 * time.Second,
	DefaultTravelMinutes: 12,
}

var defaultJobs = Jobs{
	MoveReminderSpec:   "*/15 * * * * *",
	ContractExpirySpec: "0 * * * * *",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultDispatch returns the default dispatch settings.
func DefaultDispatch() Dispatch {
	return defaultDispatch
}

// DefaultJobs returns the default cron specs.
func DefaultJobs() Jobs {
	return defaultJobs
}

// DefaultRateLimit returns the default rate limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
