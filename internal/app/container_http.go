package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"food-dispatch/internal/config"
	"food-dispatch/internal/http/handlers"
	"food-dispatch/internal/http/middleware"
	"food-dispatch/internal/http/middleware/ratelimit"
	"food-dispatch/internal/http/router"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
)

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.NewProbes,
		handlers.NewStoreUsecase,
		handlers.NewStoreHandler,
		handlers.NewDriverUsecase,
		handlers.NewDriverHandler,
		handlers.NewReplyUsecase,
		handlers.NewTaxiHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newAPIServer,
	)
}

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucket(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In

	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter).WithKey(ratelimit.ByDriverOrIP(handlers.DriverHeader))
}

type routerIn struct {
	dig.In

	Probes    *handlers.Probes
	Store     *handlers.StoreHandler
	Driver    *handlers.DriverHandler
	Taxi      *handlers.TaxiHandler
	RateLimit *ratelimit.Middleware
	Metrics   *metrics.HTTP
	Gatherer  prometheus.Gatherer
	Logger    logx.Logger
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Probes:        in.Probes,
		Store:         in.Store,
		Driver:        in.Driver,
		Taxi:          in.Taxi,
		Observability: middleware.Observability(in.Logger, in.Metrics),
		RateLimit:     in.RateLimit.Handler(),
		Metrics:       promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{}),
	})
}

func newAPIServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
