// Package kafka consumes order lifecycle events from the ordering system's topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"food-dispatch/internal/logx"
	"food-dispatch/internal/service/orders"
)

// HandleFunc processes one decoded order event.
type HandleFunc func(context.Context, orders.Event) error

// Options selects the orders topic and consumer group.
type Options struct {
	Brokers []string
	GroupID string
	Topic   string
}

func (o Options) complete() bool {
	return len(o.Brokers) > 0 && strings.TrimSpace(o.GroupID) != "" && strings.TrimSpace(o.Topic) != ""
}

var newConsumerGroup = sarama.NewConsumerGroup

const rejoinDelay = time.Second

// Consumer feeds the orders topic into a HandleFunc, committing an offset only once
// the event is handled or known to be unrecoverable.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	logger  logx.Logger
}

// NewConsumer joins the consumer group. Incomplete Options yield nil, nil.
func NewConsumer(logger logx.Logger, opts Options, h HandleFunc) (*Consumer, error) {
	if !opts.complete() {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.ClientID = "dispatch-worker"
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}

	group, err := newConsumerGroup(opts.Brokers, opts.GroupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		group:   group,
		topic:   strings.TrimSpace(opts.Topic),
		handler: h,
		logger:  logger.With(logx.String("topic", opts.Topic)),
	}, nil
}

// Run blocks until ctx is done, rejoining the group after every session or error.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}
	go c.logGroupErrors(ctx)

	h := &groupHandler{c: c}
	for {
		err := c.group.Consume(ctx, []string{c.topic}, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			continue
		}
		c.logger.Warn("kafka consume error", logx.Err(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rejoinDelay):
		}
	}
}

func (c *Consumer) logGroupErrors(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-c.group.Errors():
			if !ok {
				return
			}
			c.logger.Warn("kafka group error", logx.Err(err))
		}
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

// verdict says what to do with the offset of a message after handling it.
type verdict int

const (
	commit verdict = iota
	retry
)

func (c *Consumer) handle(ctx context.Context, msg *sarama.ConsumerMessage) (verdict, error) {
	var m orderMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		c.logger.Warn("kafka bad json", logx.Err(err), logx.Int("partition", int(msg.Partition)))
		return commit, nil
	}
	ev := m.event()
	if ev.OrderID == "" {
		c.logger.Warn("kafka empty order_id", logx.String("status", ev.Status))
		return commit, nil
	}

	err := c.handler(ctx, ev)
	switch {
	case err == nil:
		return commit, nil
	case errors.Is(err, orders.ErrPermanent):
		c.logger.Warn("kafka handle failed, skipping message",
			logx.OrderID(ev.OrderID), logx.String("status", ev.Status), logx.Err(err))
		return commit, nil
	default:
		c.logger.Error("kafka handle failed, will retry",
			logx.OrderID(ev.OrderID), logx.String("status", ev.Status), logx.Err(err))
		return retry, err
	}
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim stops at the first retryable failure so the message is redelivered
// after the rebalance.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		v, err := h.c.handle(sess.Context(), msg)
		if v == retry {
			return err
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
