// Package rabbitmq publishes ledger events to a durable topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	exchangeKind    = "topic"
	routingPrefix   = "ledger."
	dialTimeout     = 10 * time.Second
	contentTypeJSON = "application/json"
)

// channel is the part of *amqp091.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements ports.EventPublisher over RabbitMQ.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	ch       channel
	open     func() (channel, error)
	exchange string
	log      zerolog.Logger
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(rawURL, exchange string, log zerolog.Logger) (*Publisher, error) {
	cleanURL, err := sanitizeAMQPURL(rawURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	open := func() (channel, error) { return conn.Channel() }
	p, err := newPublisher(open, exchange, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn

	log.Info().Str("exchange", exchange).Msg("RabbitMQ publisher connected")
	return p, nil
}

func newPublisher(open func() (channel, error), exchange string, log zerolog.Logger) (*Publisher, error) {
	p := &Publisher{open: open, exchange: exchange, log: log}
	if err := p.reopen(); err != nil {
		return nil, err
	}
	return p, nil
}

// reopen replaces the channel and redeclares the exchange. Callers hold mu
// or own p exclusively.
func (p *Publisher) reopen() error {
	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	p.ch = ch
	return nil
}

// RoutingKey returns the routing key an event is published under.
func RoutingKey(typ domain.EventType) string {
	return routingPrefix + string(typ)
}

// Publish sends the event as JSON. A failed publish reopens the channel and
// retries once.
func (p *Publisher) Publish(ctx context.Context, evt *domain.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp091.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp091.Persistent,
		MessageId:    evt.ID.String(),
		Type:         string(evt.Type),
		Timestamp:    evt.OccurredAt,
		Body:         body,
	}
	key := RoutingKey(evt.Type)

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if err == nil {
		return nil
	}

	p.log.Warn().Err(err).Str("routing_key", key).Msg("publish failed; reopening channel")
	if reopenErr := p.reopen(); reopenErr != nil {
		return errors.Join(err, reopenErr)
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("parse amqp url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("amqp url scheme must be amqp:// or amqps://")
	}
	return clean, nil
}
