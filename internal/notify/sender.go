package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers a single message. Implementations must honour ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender returns a sender used when no mail transport is configured.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message at info level.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification (no mail transport configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("ref", msg.Ref),
		zap.String("body", msg.Body),
	)
	return nil
}

var _ Sender = (*LogSender)(nil)

// SelectSender picks SMTP when a host is set, then the HTTP relay, then the log.
// The returned name is used for startup logging.
func SelectSender(smtp SMTPConfig, relayURL string, logger *zap.Logger) (Sender, string, error) {
	switch {
	case smtp.Host != "":
		sender, err := NewSMTPSender(smtp)
		if err != nil {
			return nil, "", err
		}
		return sender, "smtp", nil
	case relayURL != "":
		sender, err := NewRelaySender(nil, relayURL)
		if err != nil {
			return nil, "", err
		}
		return sender, "relay", nil
	default:
		return NewLogSender(logger), "log", nil
	}
}
