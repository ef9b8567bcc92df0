package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Config holds connection settings for the audit event publisher.
type Config struct {
	URL     string
	Subject string
}

// Publisher fans audit notifications out to NATS. Publishing is fire-and-forget:
// the broker is never allowed to fail a committed mutation.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// New connects to the broker and returns a publisher bound to the configured
// subject.
func New(cfg Config, logger zerolog.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}
	if cfg.Subject == "" {
		return nil, fmt.Errorf("nats subject must not be empty")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("assetdesk-audit"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &Publisher{
		conn:    conn,
		subject: cfg.Subject,
		logger:  logger.With().Str("component", "audit_publisher").Logger(),
	}, nil
}

// Publish marshals the payload and publishes it to the audit subject.
func (p *Publisher) Publish(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish audit payload: %w", err)
	}

	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to drain nats connection")
	}
}
