package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"food-dispatch/internal/logx"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type outbound struct {
	To     string    `json:"to"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// AMQPSender publishes messages to a durable queue read by the WhatsApp bridge.
type AMQPSender struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     channel
	queue  string
	logger logx.Logger
	now    func() time.Time
}

// DialAMQP connects to url with retries and declares queue.
func DialAMQP(ctx context.Context, url, queue string, logger logx.Logger) (*AMQPSender, error) {
	const maxRetries = 5
	delay := time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		s, err := dial(url, queue, logger)
		if err == nil {
			logger.Info("rabbitmq connected", logx.String("queue", queue), logx.Int("attempt", attempt))
			return s, nil
		}
		lastErr = err
		logger.Warn("rabbitmq connect failed",
			logx.Int("attempt", attempt), logx.Int("max_retries", maxRetries), logx.Err(err))

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				delay = delay * 3 / 2
			}
		}
	}
	return nil, fmt.Errorf("rabbitmq connect failed after %d attempts: %w", maxRetries, lastErr)
}

func dial(url, queue string, logger logx.Logger) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}
	s := newAMQPSender(ch, queue, logger)
	s.conn = conn
	return s, nil
}

func newAMQPSender(ch channel, queue string, logger logx.Logger) *AMQPSender {
	return &AMQPSender{
		ch:     ch,
		queue:  queue,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Send publishes the message as JSON to the queue.
func (s *AMQPSender) Send(ctx context.Context, contact, message string) error {
	body, err := json.Marshal(outbound{To: contact, Text: message, SentAt: s.now()})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return fmt.Errorf("rabbitmq channel closed")
	}
	err = s.ch.PublishWithContext(publishCtx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    s.now(),
	})
	if err != nil {
		return fmt.Errorf("publish to %q: %w", s.queue, err)
	}
	return nil
}

// Close closes the channel and connection.
func (s *AMQPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
		s.ch = nil
	}
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
