package email

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes messages to the log instead of delivering them. Used in
// development so reset links can be copied from the console.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs msg
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("Email delivery disabled - message logged")
	return nil
}
