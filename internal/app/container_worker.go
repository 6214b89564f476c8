package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"food-dispatch/internal/config"
	"food-dispatch/internal/gateway/notify"
	"food-dispatch/internal/http/pprofserver"
	"food-dispatch/internal/jobs"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/repository"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/service/orders"
	"food-dispatch/internal/transport/kafka"
)

var newKafkaConsumer = kafka.NewConsumer

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(flows *dispatch.Runner, intake *dispatch.Intake, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(flows, intake, logger)
		},
		newOrdersConsumer,
		newJobsManager,
		newDebugServer,
	)
}

// newOrdersConsumer returns nil when Kafka is not configured.
func newOrdersConsumer(cfg *config.Config, p *orders.Processor, logger logx.Logger, hooks *shutdownHooks) (*kafka.Consumer, error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("kafka disabled, order events are not consumed")
		return nil, nil
	}
	c, err := newKafkaConsumer(logger, kafka.Options{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topic:   cfg.Kafka.OrdersTopic,
	}, makeOrdersKafka(p, orderEventTimeout))
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	hooks.add("kafka", c.Close)
	return c, nil
}

type jobsIn struct {
	dig.In

	Config     *config.Config
	Logger     logx.Logger
	Deliveries *repository.DeliveryRepo
	Taxi       *repository.TaxiRepo
	Drivers    *repository.DriverRepo
	Sender     notify.Sender
}

func newJobsManager(in jobsIn) (*jobs.Manager, error) {
	m := jobs.NewManager(in.Logger, 30*time.Second)
	if err := m.Add(in.Config.Jobs.MoveReminderSpec, jobs.NewMoveReminderJob(in.Deliveries, in.Taxi, in.Sender, in.Logger)); err != nil {
		return nil, err
	}
	if err := m.Add(in.Config.Jobs.ContractExpirySpec, jobs.NewContractExpiryJob(in.Drivers, in.Logger)); err != nil {
		return nil, err
	}
	return m, nil
}

type debugServerOut struct {
	dig.Out

	Server *http.Server `name:"debug_server"`
}

func newDebugServer(cfg *config.Config, gatherer prometheus.Gatherer) debugServerOut {
	return debugServerOut{Server: &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Debug.Port),
		Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.Debug.User, Pass: cfg.Debug.Pass}, gatherer),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
}
