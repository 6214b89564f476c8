package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"food-dispatch/internal/jobs"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/transport/kafka"
	"food-dispatch/internal/transport/redisbus"
)

// WorkerRunner runs the background worker
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

type workerIn struct {
	dig.In

	Ctx        context.Context
	Logger     logx.Logger
	Consumer   *kafka.Consumer
	Jobs       *jobs.Manager
	Flows      *dispatch.Runner
	Subscriber *redisbus.Subscriber
	Debug      *http.Server `name:"debug_server"`
	Hooks      *shutdownHooks
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(in workerIn) error {
	if in.Jobs == nil {
		return errors.New("jobs manager is nil: worker container misconfigured")
	}
	defer in.Hooks.run(in.Logger)

	debugErr := startServer(in.Debug, in.Logger, "debug")
	in.Jobs.StartAll()
	startSubscriber(in.Ctx, in.Subscriber, in.Logger)
	in.Logger.Info("dispatch-worker started", logx.Bool("kafka", in.Consumer != nil))

	g, ctx := errgroup.WithContext(in.Ctx)
	g.Go(func() error { return in.Consumer.Run(ctx) })
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case err := <-debugErr:
			return err
		}
	})
	err := g.Wait()
	if err == nil {
		err = in.Ctx.Err()
	}
	in.Logger.Info("shutting down dispatch-worker")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopErr := in.Jobs.StopAll(stopCtx); stopErr != nil {
		in.Logger.Warn("jobs did not stop in time", logx.Err(stopErr))
	}
	gracefulShutdown(in.Debug, in.Logger, time.Second)
	waitFlows(in.Flows, in.Logger, shutdownTimeout)
	return err
}
