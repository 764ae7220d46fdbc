package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

var ErrPublisherClosed = errors.New("events: publisher closed")

type AMQPConfig struct {
	URL      string
	Exchange string
	// MaxRetries bounds the reconnect attempts of a single publish.
	MaxRetries uint64
	Logger     zerolog.Logger
}

// AMQPPublisher publishes events to a durable topic exchange, keyed by event type.
type AMQPPublisher struct {
	cfg AMQPConfig
	log zerolog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewAMQPPublisher dials the broker with exponential backoff and declares the exchange.
func NewAMQPPublisher(ctx context.Context, cfg AMQPConfig) (*AMQPPublisher, error) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	p := &AMQPPublisher{
		cfg: cfg,
		log: cfg.Logger.With().Str("component", "events.amqp").Str("exchange", cfg.Exchange).Logger(),
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectWithRetry(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(bo, p.cfg.MaxRetries), ctx)
}

// connectWithRetry must be called with p.mu held.
func (p *AMQPPublisher) connectWithRetry(ctx context.Context) error {
	return backoff.RetryNotify(p.connect, p.newBackOff(ctx), func(err error, wait time.Duration) {
		p.log.Warn().Err(err).Dur("retry_in", wait).Msg("broker connection failed")
	})
}

func (p *AMQPPublisher) connect() error {
	p.closeChannel()
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		p.cfg.Exchange, // name
		"topic",        // kind
		true,           // durable
		false,          // autoDelete
		false,          // internal
		false,          // noWait
		nil,            // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) closeChannel() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Publish sends the event as a persistent JSON message. A broken connection
// is re-dialled with backoff before the publish is retried.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}

	operation := func() error {
		if p.ch == nil || p.ch.IsClosed() {
			if err := p.connect(); err != nil {
				return err
			}
		}
		if err := p.ch.PublishWithContext(ctx, p.cfg.Exchange, event.Type, false, false, msg); err != nil {
			p.closeChannel()
			return err
		}
		return nil
	}
	if err := backoff.Retry(operation, p.newBackOff(ctx)); err != nil {
		p.log.Error().Err(err).Str("event", event.Type).Msg("publish failed")
		return err
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.closeChannel()
	return nil
}
