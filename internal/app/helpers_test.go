package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
	testlog "food-dispatch/internal/testutil"
)

func withStubNewPool(t *testing.T, stub func(context.Context, string) (*pgxpool.Pool, error)) {
	t.Helper()
	orig := newPool
	newPool = stub
	t.Cleanup(func() { newPool = orig })
}

func TestConnectDbWithRetry_SuccessFirstAttempt(t *testing.T) {
	want := &pgxpool.Pool{}
	calls := 0
	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		calls++
		return want, nil
	})

	pool, err := connectDbWithRetry(context.Background(), logx.Nop(), "postgres://stub", 3, 10*time.Millisecond)
	require.NoError(t, err)
	require.Same(t, want, pool)
	require.Equal(t, 1, calls)
}

func TestConnectDbWithRetry_ExhaustsRetries(t *testing.T) {
	sentinel := errors.New("db boom")
	calls := 0
	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		calls++
		return nil, sentinel
	})
	rec := testlog.New()

	pool, err := connectDbWithRetry(context.Background(), rec.Logger(), "postgres://stub", 3, 0)
	require.ErrorIs(t, err, sentinel)
	require.Nil(t, pool)
	require.Equal(t, 3, calls)
	require.Len(t, rec.ByLevel("warn"), 3)
}

func TestConnectDbWithRetry_ContextCanceledBetweenRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		return nil, errors.New("db boom")
	})

	pool, err := connectDbWithRetry(ctx, logx.Nop(), "postgres://stub", 3, 50*time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, pool)
}

func TestShutdownHooks_RunInReverseAndLogFailures(t *testing.T) {
	t.Parallel()

	var order []string
	h := newShutdownHooks()
	h.add("first", func() error { order = append(order, "first"); return nil })
	h.add("second", func() error { order = append(order, "second"); return errors.New("close boom") })

	rec := testlog.New()
	h.run(rec.Logger())
	h.run(rec.Logger())

	require.Equal(t, []string{"second", "first"}, order, "hooks run once, newest first")
	errs := rec.ByLevel("error")
	require.Len(t, errs, 1)
	name, _ := errs[0].Field("resource")
	require.Equal(t, "second", name)
}

func TestProvideMetrics_AlreadyRegisteredCounterIsReused(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	existing := metrics.NewRateLimitExceededTotal()
	require.NoError(t, reg.Register(existing))

	out, err := provideMetrics(reg)
	require.NoError(t, err)
	require.Same(t, existing, out.RateLimitExceededTotal)
	require.NotNil(t, out.Dispatch)
	require.NotNil(t, out.HTTP)
}

type errRegisterer struct{ err error }

func (e errRegisterer) Register(prometheus.Collector) error  { return e.err }
func (e errRegisterer) MustRegister(...prometheus.Collector) {}
func (e errRegisterer) Unregister(prometheus.Collector) bool { return false }

func TestProvideMetrics_RegisterError(t *testing.T) {
	t.Parallel()

	_, err := provideMetrics(errRegisterer{err: errors.New("boom")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "register rate_limit_exceeded_total")
}
