// Package redisbus bridges attempt resolution signals between processes over Redis pub/sub.
package redisbus

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"food-dispatch/internal/logx"
	"food-dispatch/internal/signal"
)

// NewClient returns a Redis client for addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher publishes attempt ids on a channel.
type Publisher struct {
	client  publisher
	channel string
}

// NewPublisher creates a Publisher.
func NewPublisher(client publisher, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Notify publishes attemptID.
func (p *Publisher) Notify(ctx context.Context, attemptID string) error {
	if err := p.client.Publish(ctx, p.channel, attemptID).Err(); err != nil {
		return fmt.Errorf("publish attempt %q: %w", attemptID, err)
	}
	return nil
}

var _ signal.Notifier = (*Publisher)(nil)

// Subscriber forwards ids received on a channel to a local notifier.
type Subscriber struct {
	client  *redis.Client
	channel string
	local   signal.Notifier
	logger  logx.Logger
}

// NewSubscriber creates a Subscriber.
func NewSubscriber(client *redis.Client, channel string, local signal.Notifier, logger logx.Logger) *Subscriber {
	return &Subscriber{client: client, channel: channel, local: local, logger: logger}
}

// Run blocks until ctx is done or the subscription fails.
func (s *Subscriber) Run(ctx context.Context) error {
	ps := s.client.Subscribe(ctx, s.channel)
	defer func() { _ = ps.Close() }()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %q: %w", s.channel, err)
	}
	s.logger.Info("attempt signal bridge subscribed", logx.String("channel", s.channel))

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			s.forward(ctx, msg.Payload)
		}
	}
}

func (s *Subscriber) forward(ctx context.Context, payload string) {
	id := strings.TrimSpace(payload)
	if id == "" {
		return
	}
	if err := s.local.Notify(ctx, id); err != nil {
		s.logger.Warn("forward attempt signal", logx.AttemptID(id), logx.Err(err))
	}
}
