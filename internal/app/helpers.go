package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"food-dispatch/internal/config"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
	"food-dispatch/internal/repository"
)

var (
	newPool = repository.NewPool
	migrate = repository.Migrate
)

func connectDbWithRetry(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
	var lastErr error
	const attemptTimeout = 3 * time.Second
	for i := 1; i <= retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		pool, err := newPool(attemptCtx, dsn)
		cancel()
		if err == nil {
			logger.Info("db connected", logx.Int("attempt", i))
			return pool, nil
		}
		lastErr = err
		logger.Warn("db connect failed", logx.Int("attempt", i), logx.Int("retries", retries), logx.Err(err))
		if i < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", retries, lastErr)
}

func newLogger(cfg *config.Config, service serviceName) logx.Logger {
	return logx.NewJSON(os.Stdout, logx.ParseLevel(cfg.LogLevel), string(service))
}

type hook struct {
	name string
	fn   func() error
}

// shutdownHooks releases opened resources in reverse order of acquisition.
type shutdownHooks struct {
	mu    sync.Mutex
	hooks []hook
}

func newShutdownHooks() *shutdownHooks { return &shutdownHooks{} }

func (h *shutdownHooks) add(name string, fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook{name: name, fn: fn})
}

func (h *shutdownHooks) run(logger logx.Logger) {
	h.mu.Lock()
	hooks := h.hooks
	h.hooks = nil
	h.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(); err != nil {
			logger.Error("close failed", logx.String("resource", hooks[i].name), logx.Err(err))
		}
	}
}

type registryOut struct {
	dig.Out

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func provideRegistry() registryOut {
	return registryOut{Registerer: prometheus.DefaultRegisterer, Gatherer: prometheus.DefaultGatherer}
}

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	Dispatch               *metrics.Dispatch
	HTTP                   *metrics.HTTP
}

func provideMetrics(reg prometheus.Registerer) (metricsOut, error) {
	rl, err := registerCounter(reg, metrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}
	d, err := metrics.NewDispatch(reg)
	if err != nil {
		return metricsOut{}, fmt.Errorf("register dispatch metrics: %w", err)
	}
	h, err := metrics.NewHTTP(reg)
	if err != nil {
		return metricsOut{}, fmt.Errorf("register http metrics: %w", err)
	}
	return metricsOut{RateLimitExceededTotal: rl, Dispatch: d, HTTP: h}, nil
}

// registerCounter returns the already registered collector when c is a duplicate.
func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
			return existing, nil
		}
	}
	return nil, err
}
