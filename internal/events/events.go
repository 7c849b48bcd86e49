// Package events publishes relay activity for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cyphera/address-relay/internal/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	StreamName = "ADDRESS_RELAY"

	SubjectWebhookReceived = "address.webhook.received"
	SubjectUpdateSubmitted = "address.update.submitted"

	streamSubjects = "address.>"
)

// Event is the envelope published for every subject.
type Event struct {
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// NoopPublisher drops every event. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}

func (NoopPublisher) Close() {}

// NATSPublisher publishes events to a JetStream stream.
type NATSPublisher struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// Connect dials natsURL and makes sure the relay stream exists.
func Connect(natsURL string) (*NATSPublisher, error) {
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	nc, err := nats.Connect(natsURL, nats.Name("address-relay"))
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	if err := ensureStream(js, &nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{streamSubjects},
		MaxAge:   7 * 24 * time.Hour,
	}); err != nil {
		nc.Close()
		return nil, err
	}

	return &NATSPublisher{nc: nc, js: js}, nil
}

func ensureStream(js nats.JetStreamContext, cfg *nats.StreamConfig) error {
	_, err := js.StreamInfo(cfg.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	if _, err := js.AddStream(cfg); err != nil {
		return err
	}
	logger.Info("NATS stream created", zap.String("stream", cfg.Name))
	return nil
}

// Publish marshals data into an Event and publishes it on subject.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	body, err := json.Marshal(Event{
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return err
	}

	_, err = p.js.Publish(subject, body, nats.Context(ctx))
	return err
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		logger.Warn("NATS drain failed", zap.Error(err))
	}
}
