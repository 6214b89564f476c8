package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
)

// Observability records request metrics and writes one access log line per request.
// Metrics are labelled with the chi route pattern so ids in the path do not blow up cardinality.
func Observability(logger logx.Logger, m *metrics.HTTP) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := pathPattern(r)
			elapsed := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			status := strconv.Itoa(code)

			if m != nil {
				m.Requests.WithLabelValues(r.Method, path, status).Inc()
				m.Duration.WithLabelValues(r.Method, path, status).Observe(elapsed.Seconds())
			}

			fields := []logx.Field{
				logx.String("req_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", code),
				logx.Duration("duration", elapsed),
			}
			if driver := r.Header.Get("X-Driver-ID"); driver != "" {
				fields = append(fields, logx.DriverID(driver))
			}
			if code >= http.StatusInternalServerError {
				logger.Warn("http request", fields...)
				return
			}
			logger.Info("http request", fields...)
		})
	}
}

func pathPattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
