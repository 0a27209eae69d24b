// Package notification delivers templated customer and operator messages.
package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is a single outbound email-equivalent notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Gateway sends notifications. Callers treat delivery as best-effort.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// LogGateway writes every message to the log instead of a mail provider.
type LogGateway struct {
	sender string
	logger *zap.Logger
}

// NewLogGateway creates a LogGateway that reports messages as sent from sender.
func NewLogGateway(sender string, logger *zap.Logger) *LogGateway {
	return &LogGateway{sender: sender, logger: logger}
}

// Send logs the message and always succeeds.
func (g *LogGateway) Send(_ context.Context, msg Message) error {
	g.logger.Info("sending email",
		zap.String("from", g.sender),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
