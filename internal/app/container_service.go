package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"food-dispatch/internal/config"
	"food-dispatch/internal/gateway/notify"
	"food-dispatch/internal/gateway/travel"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
	"food-dispatch/internal/repository"
	"food-dispatch/internal/service/cascade"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/service/driver"
	"food-dispatch/internal/service/matcher"
	"food-dispatch/internal/service/schedule"
	"food-dispatch/internal/service/taxireply"
	"food-dispatch/internal/signal"
	"food-dispatch/internal/transport/redisbus"
)

var dialAMQP = notify.DialAMQP

func registerInfra(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrderRepo,
		repository.NewDeliveryRepo,
		repository.NewDriverRepo,
		repository.NewTaxiRepo,
		signal.NewHub,
		newRedisClient,
		newAttemptNotifier,
		newAttemptSubscriber,
		newSender,
		newTravelEstimator,
	)
}

// newRedisClient returns nil when the cross-process bridge is disabled.
func newRedisClient(cfg *config.Config, hooks *shutdownHooks) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}
	client := redisbus.NewClient(cfg.Redis.Addr)
	hooks.add("redis", client.Close)
	return client
}

func newAttemptNotifier(cfg *config.Config, hub *signal.Hub, client *redis.Client) signal.Notifier {
	if client == nil {
		return hub
	}
	return signal.Fanout{hub, redisbus.NewPublisher(client, cfg.Redis.AttemptChannel)}
}

func newAttemptSubscriber(cfg *config.Config, hub *signal.Hub, client *redis.Client, logger logx.Logger) *redisbus.Subscriber {
	if client == nil {
		return nil
	}
	return redisbus.NewSubscriber(client, cfg.Redis.AttemptChannel, hub, logger)
}

func newSender(ctx context.Context, cfg *config.Config, logger logx.Logger, hooks *shutdownHooks) (notify.Sender, error) {
	if !cfg.RabbitMQ.Enabled() {
		logger.Info("rabbitmq disabled, notifications go to the log")
		return notify.NewLogSender(logger), nil
	}
	s, err := dialAMQP(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.NotifyQueue, logger)
	if err != nil {
		return nil, err
	}
	hooks.add("rabbitmq", s.Close)
	return s, nil
}

func newTravelEstimator(cfg *config.Config, logger logx.Logger) (travel.Estimator, error) {
	if cfg.Maps.APIKey == "" {
		return travel.Constant(cfg.Dispatch.DefaultTravelMinutes), nil
	}
	d, err := travel.NewDirections(cfg.Maps.APIKey)
	if err != nil {
		return nil, err
	}
	logger.Info("travel estimates from google maps directions")
	return d, nil
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(est travel.Estimator, cfg *config.Config, logger logx.Logger) *schedule.Scheduler {
			return schedule.New(est, cfg.Dispatch.DefaultTravelMinutes, logger)
		},
		func(drivers *repository.DriverRepo) *matcher.OldestIdle {
			return matcher.NewOldestIdle(drivers)
		},
		func(
			repo *repository.TaxiRepo,
			deliveries *repository.DeliveryRepo,
			sender notify.Sender,
			hub *signal.Hub,
			m *metrics.Dispatch,
			cfg *config.Config,
			logger logx.Logger,
		) *cascade.Dispatcher {
			return cascade.New(repo, deliveries, sender, hub, m, logger, cascade.Config{
				Window:           cfg.Dispatch.ResponseWindow,
				PollInterval:     cfg.Dispatch.PollInterval,
				OperationTimeout: cfg.Dispatch.OperationTimeout,
			})
		},
		newOrchestrator,
		func(o *dispatch.Orchestrator, m *metrics.Dispatch, logger logx.Logger) *dispatch.Runner {
			return dispatch.NewRunner(o, m, logger)
		},
		func(
			orders *repository.OrderRepo,
			deliveries *repository.DeliveryRepo,
			flows *dispatch.Runner,
			cfg *config.Config,
			logger logx.Logger,
		) *dispatch.Intake {
			return dispatch.NewIntake(orders, deliveries, flows, cfg.Dispatch.OperationTimeout, logger)
		},
		func(
			drivers *repository.DriverRepo,
			deliveries *repository.DeliveryRepo,
			orders *repository.OrderRepo,
			cfg *config.Config,
			logger logx.Logger,
		) *driver.Service {
			return driver.New(drivers, deliveries, orders, cfg.Dispatch.OperationTimeout, logger)
		},
		func(repo *repository.TaxiRepo, n signal.Notifier, cfg *config.Config, logger logx.Logger) *taxireply.Service {
			return taxireply.New(repo, n, cfg.Dispatch.OperationTimeout, logger)
		},
	)
}

type orchestratorIn struct {
	dig.In

	Orders     *repository.OrderRepo
	Deliveries *repository.DeliveryRepo
	Taxi       *repository.TaxiRepo
	Matcher    *matcher.OldestIdle
	Cascade    *cascade.Dispatcher
	Scheduler  *schedule.Scheduler
	Config     *config.Config
	Logger     logx.Logger
}

func newOrchestrator(in orchestratorIn) *dispatch.Orchestrator {
	return dispatch.NewOrchestrator(dispatch.Deps{
		Orders:     in.Orders,
		Deliveries: in.Deliveries,
		Offices:    in.Taxi,
		Matcher:    in.Matcher,
		Cascade:    in.Cascade,
		Scheduler:  in.Scheduler,
	}, in.Config.Dispatch.OperationTimeout, in.Logger)
}
