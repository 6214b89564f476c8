// Package notify sends text messages to taxi office contact channels.
package notify

import (
	"context"
	"fmt"

	"food-dispatch/internal/logx"
)

// Sender delivers one message to one contact. Delivery is not guaranteed.
type Sender interface {
	Send(ctx context.Context, contact, message string) error
}

// OfferMessage is the accept/reject prompt of one dispatch attempt.
func OfferMessage(attemptID string, window string) string {
	return fmt.Sprintf("New delivery request\nReply within %s:\n1) Accept\n2) Reject\n(Attempt:%s)", window, attemptID)
}

// GoNowMessage tells a taxi office to head to the branch.
func GoNowMessage(orderID string) string {
	return fmt.Sprintf("GO NOW\nOrder %s is ready for pickup", orderID)
}

// WithdrawnMessage tells a taxi office that an offer it accepted no longer stands.
func WithdrawnMessage(attemptID string) string {
	return fmt.Sprintf("Delivery request withdrawn, the order was cancelled\n(Attempt:%s)", attemptID)
}

// LogSender writes messages to the log instead of a transport.
type LogSender struct {
	logger logx.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger logx.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message.
func (s *LogSender) Send(_ context.Context, contact, message string) error {
	s.logger.Info("taxi message", logx.String("to", contact), logx.String("text", message))
	return nil
}
