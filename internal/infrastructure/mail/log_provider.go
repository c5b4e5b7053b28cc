package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogProvider only logs messages. Used in dev when no API key is configured.
type LogProvider struct {
	lg zerolog.Logger
}

func NewLogProvider(lg zerolog.Logger) *LogProvider {
	return &LogProvider{lg: lg.With().Str("component", "log_mailer").Logger()}
}

func (p *LogProvider) Send(ctx context.Context, msg Message) error {
	p.lg.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("mail not sent (no provider configured)")
	return nil
}

func (p *LogProvider) Name() string { return "log" }
