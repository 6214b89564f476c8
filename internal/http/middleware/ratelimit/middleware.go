package ratelimit

import (
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"food-dispatch/internal/logx"
)

// KeyFunc extracts the rate limit key from a request.
type KeyFunc func(r *http.Request) string

// Middleware rejects requests over the limit with 429.
type Middleware struct {
	logger  logx.Logger
	counter prometheus.Counter
	limiter Limiter
	key     KeyFunc
}

// New creates a Middleware keyed by ByDriverOrIP. nil counter and limiter are allowed.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter) *Middleware {
	if logger == nil {
		logger = logx.Nop()
	}
	if limiter == nil {
		limiter = NopLimiter{}
	}
	return &Middleware{
		logger:  logger,
		counter: counter,
		limiter: limiter,
		key:     ByDriverOrIP("X-Driver-ID"),
	}
}

// WithKey replaces the key function.
func (m *Middleware) WithKey(fn KeyFunc) *Middleware {
	if fn != nil {
		m.key = fn
	}
	return m
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := m.key(r)
			if m.limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("key", key),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte(`{"error":"too many requests"}` + "\n")); err != nil {
				m.logger.Debug("rate limit response write failed", logx.String("key", key), logx.Err(err))
			}
		})
	}
}

// ByDriverOrIP keys authenticated drivers by their id and everyone else by client address.
func ByDriverOrIP(header string) KeyFunc {
	return func(r *http.Request) string {
		if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
			return "driver:" + id
		}
		return "ip:" + clientIP(r)
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
