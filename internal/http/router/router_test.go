package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"food-dispatch/internal/http/handlers"
	"food-dispatch/internal/http/router"
	"food-dispatch/internal/logx"
)

func newDeps() router.Deps {
	l := logx.Nop()
	return router.Deps{
		Probes: handlers.NewProbes(l),
		Store:  handlers.NewStoreHandler(l, nil),
		Driver: handlers.NewDriverHandler(l, nil),
		Taxi:   handlers.NewTaxiHandler(l, nil),
	}
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNew_Probes(t *testing.T) {
	t.Parallel()

	h := router.New(newDeps())

	rr := do(h, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"message":"pong"}`, rr.Body.String())

	require.Equal(t, http.StatusNoContent, do(h, http.MethodHead, "/healthcheck", "").Code)
	require.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/nope", "").Code)
	rr = do(h, http.MethodGet, "/store/orders/accept", "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.JSONEq(t, `{"error":"method not allowed"}`, rr.Body.String())
}

func TestNew_MetricsHandler(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	require.Equal(t, http.StatusTeapot, do(router.New(d), http.MethodGet, "/metrics", "").Code)
}

func TestNew_StoreRoutesDecodeBody(t *testing.T) {
	t.Parallel()

	rr := do(router.New(newDeps()), http.MethodPost, "/store/orders/accept", "{")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNew_RateLimitCoversPublicAPIOnly(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.RateLimit = func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	h := router.New(d)

	require.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/store/orders/accept", "{}").Code)
	require.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/driver/deliveries/d1/claim", "").Code)
	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/ping", "").Code)
	require.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/taxi/whatsapp-reply", "{").Code)
}

func TestNew_ObservabilityWrapsRoutes(t *testing.T) {
	t.Parallel()

	seen := 0
	d := newDeps()
	d.Observability = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen++
			next.ServeHTTP(w, r)
		})
	}
	h := router.New(d)

	do(h, http.MethodGet, "/ping", "")
	do(h, http.MethodGet, "/nope", "")
	require.Equal(t, 2, seen)
}
