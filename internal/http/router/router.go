package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"food-dispatch/internal/http/handlers"
)

const requestTimeout = 5 * time.Second

// Deps holds what the API router mounts. Nil middleware is skipped and a nil Metrics
// handler serves the default Prometheus registry.
type Deps struct {
	Probes *handlers.Probes
	Store  *handlers.StoreHandler
	Driver *handlers.DriverHandler
	Taxi   *handlers.TaxiHandler

	Observability func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	Metrics       http.Handler
}

// New constructs the chi router of the dispatch API.
// Store and driver routes are rate limited; the taxi webhook and probes are not.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if d.Observability != nil {
		r.Use(d.Observability)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	metricsHandler := d.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r.Get("/ping", d.Probes.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Probes.Healthcheck))
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	r.NotFound(d.Probes.NotFound)
	r.MethodNotAllowed(d.Probes.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}

		r.Route("/store/orders", func(r chi.Router) {
			r.Post("/accept", d.Store.Accept)
			r.Post("/reject", d.Store.Reject)
			r.Post("/ready", d.Store.Ready)
		})
		r.Get("/orders/{id}", d.Store.Get)

		r.Route("/driver", func(r chi.Router) {
			r.Post("/online", d.Driver.Online)
			r.Post("/offline", d.Driver.Offline)
			r.Get("/status", d.Driver.Status)
			r.Get("/contract", d.Driver.Contract)
			r.Get("/deliveries/available", d.Driver.Available)
			r.Get("/deliveries/active", d.Driver.Active)
			r.Route("/deliveries/{id}", func(r chi.Router) {
				r.Post("/claim", d.Driver.Claim)
				r.Post("/release", d.Driver.Release)
				r.Post("/pickup", d.Driver.Pickup)
				r.Post("/depart", d.Driver.Depart)
				r.Post("/deliver", d.Driver.Deliver)
			})
		})
	})

	r.Post("/taxi/whatsapp-reply", d.Taxi.Reply)

	return r
}
