package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"food-dispatch/internal/logx"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/transport/redisbus"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the API process
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := containerLogger(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		log.Fatalf("run error: %v", err)
	}
}

func containerLogger(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type apiIn struct {
	dig.In

	Ctx        context.Context
	Logger     logx.Logger
	Server     *http.Server
	Flows      *dispatch.Runner
	Subscriber *redisbus.Subscriber
	Hooks      *shutdownHooks
}

func run(container *dig.Container) error {
	return container.Invoke(apiRun)
}

func apiRun(in apiIn) error {
	defer in.Hooks.run(in.Logger)

	serveErr := startServer(in.Server, in.Logger, "api")
	startSubscriber(in.Ctx, in.Subscriber, in.Logger)

	var err error
	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down service-dispatch")
		err = in.Ctx.Err()
	case err = <-serveErr:
		in.Logger.Error("http server stopped", logx.Err(err))
	}

	gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
	waitFlows(in.Flows, in.Logger, shutdownTimeout)
	return err
}

// startServer serves in the background. The channel receives the error that stopped it,
// http.ErrServerClosed excluded.
func startServer(server *http.Server, logger logx.Logger, name string) <-chan error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("%s listen: %w", name, err)
		}
	}()
	return errc
}

func startSubscriber(ctx context.Context, sub *redisbus.Subscriber, logger logx.Logger) {
	if sub == nil {
		return
	}
	go func() {
		for {
			if err := sub.Run(ctx); err != nil {
				logger.Warn("attempt signal bridge failed", logx.Err(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func waitFlows(flows *dispatch.Runner, logger logx.Logger, timeout time.Duration) {
	if flows == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := flows.Wait(ctx); err != nil {
		logger.Warn("dispatch flows still running at exit", logx.Int("in_flight", flows.InFlight()))
	}
}
