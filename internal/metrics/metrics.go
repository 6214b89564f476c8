package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dispatch outcome label values.
const (
	OutcomeInternalDriver = "internal_driver"
	OutcomeTaxiOffice     = "taxi_office"
	OutcomeNoCourier      = "no_courier"
	OutcomeCancelled      = "cancelled"
	OutcomeError          = "error"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// Dispatch groups the counters and histograms of dispatch flows.
type Dispatch struct {
	Outcomes            *prometheus.CounterVec
	Attempts            *prometheus.CounterVec
	CascadeDuration     prometheus.Histogram
	NotificationsFailed prometheus.Counter
}

// NewDispatch creates dispatch metrics and registers them on reg when it is not nil.
func NewDispatch(reg prometheus.Registerer) (*Dispatch, error) {
	m := &Dispatch{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_outcomes_total",
			Help: "Total number of finished dispatch flows by outcome",
		}, []string{"outcome"}),
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_dispatch_attempts_total",
			Help: "Total number of resolved taxi dispatch attempts by result",
		}, []string{"result"}),
		CascadeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxi_cascade_duration_seconds",
			Help:    "Duration of taxi cascades from first offer to result",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 180, 300, 600},
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of outbound notifications that could not be sent",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Outcomes, m.Attempts, m.CascadeDuration, m.NotificationsFailed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNopDispatch returns unregistered dispatch metrics for tests and tools.
func NewNopDispatch() *Dispatch {
	m, _ := NewDispatch(nil)
	return m
}

// HTTP groups request counters of the API listener.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP creates HTTP metrics and registers them on reg when it is not nil.
func NewHTTP(reg prometheus.Registerer) (*HTTP, error) {
	labels := []string{"method", "path", "status"}
	m := &HTTP{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, labels),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}
	if reg == nil {
		return m, nil
	}
	if err := reg.Register(m.Requests); err != nil {
		return nil, err
	}
	if err := reg.Register(m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}
