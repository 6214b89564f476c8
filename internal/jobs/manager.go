// Package jobs runs the worker's periodic tasks on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"food-dispatch/internal/logx"
)

// Job is one periodic task.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Manager schedules jobs on a seconds-resolution cron.
// A run that is still going when its next tick fires skips that tick.
type Manager struct {
	cron    *cron.Cron
	logger  logx.Logger
	timeout time.Duration
}

// NewManager creates a Manager. timeout bounds a single run.
func NewManager(logger logx.Logger, timeout time.Duration) *Manager {
	cl := cronLogger{l: logger.With(logx.String("component", "cron"))}
	return &Manager{
		cron:    cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:  logger,
		timeout: timeout,
	}
}

// Add schedules job at spec.
func (m *Manager) Add(spec string, job Job) error {
	log := m.logger.With(logx.String("job", job.Name()))
	_, err := m.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			log.Error("job failed", logx.Err(err), logx.Duration("took", time.Since(start)))
			return
		}
		log.Debug("job done", logx.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("schedule job %s at %q: %w", job.Name(), spec, err)
	}
	log.Info("job scheduled", logx.String("spec", spec))
	return nil
}

// StartAll starts the scheduler in its own goroutine.
func (m *Manager) StartAll() {
	m.cron.Start()
	m.logger.Info("jobs started", logx.Int("count", len(m.cron.Entries())))
}

// StopAll stops scheduling and waits for running jobs or ctx.
func (m *Manager) StopAll(ctx context.Context) error {
	done := m.cron.Stop()
	select {
	case <-done.Done():
		m.logger.Info("jobs stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct{ l logx.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(kvFields(keysAndValues), logx.Err(err))...)
}

func kvFields(kv []interface{}) []logx.Field {
	out := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logx.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
