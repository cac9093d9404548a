package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
)

const publishTimeout = 5 * time.Second

var errNotConnected = errors.New("not connected to a server")

// channel is the part of *amqp.Channel the publisher uses
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a durable RabbitMQ queue. A failed
// publish drops the connection and the next call dials again.
type AMQPPublisher struct {
	addr      string
	queueName string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel channel
	dial    func() (channel, error)
}

// NewAMQPPublisher connects to addr and declares queueName
func NewAMQPPublisher(addr, queueName string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{addr: addr, queueName: queueName}
	p.dial = p.connect

	ch, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	p.channel = ch
	logger.Info("Connected to RabbitMQ", "queue", queueName)
	return p, nil
}

// connect dials the broker, opens a channel and declares the queue
func (p *AMQPPublisher) connect() (channel, error) {
	conn, err := amqp.Dial(p.addr)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	p.conn = conn
	return ch, nil
}

// Publish sends an event as a persistent JSON message
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		if p.dial == nil {
			return errNotConnected
		}
		ch, err := p.dial()
		if err != nil {
			return apperrors.NewExternalAPIError(fmt.Errorf("failed to reconnect: %w", err), "rabbitmq")
		}
		p.channel = ch
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Type:         event.Event,
			Timestamp:    event.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		logger.Warn("Publish failed, dropping connection", "error", err, "event_id", event.ID)
		p.closeLocked()
		return apperrors.NewExternalAPIError(err, "rabbitmq").WithContext("event_id", event.ID)
	}
	return nil
}

// Close closes the channel and connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dial = nil
	return p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
		p.channel = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}
