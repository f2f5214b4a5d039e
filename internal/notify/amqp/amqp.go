// Package amqp delivers notifications by publishing them to a RabbitMQ
// exchange, for a companion process to show on the user's devices.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/GustavoCaso/spendwatch/internal/config"
	"github.com/GustavoCaso/spendwatch/internal/logger"
)

const publishTimeout = 5 * time.Second

// Payload is the JSON body of every published message.
type Payload struct {
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp091.Publishing,
	) error
}

type Channel struct {
	conn     *amqp091.Connection
	channel  publisher
	exchange string
	queue    string
	now      func() time.Time
	logger   *logger.Logger
}

// New dials the broker and declares a durable direct exchange with the queue
// bound to it under the queue's name.
func New(conf config.AMQPConfig, logger *logger.Logger) (*Channel, error) {
	conn, err := amqp091.Dial(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = setup(ch, conf.Exchange, conf.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	c := newChannel(ch, conf.Exchange, conf.Queue, logger)
	c.conn = conn
	return c, nil
}

func newChannel(pub publisher, exchange, queue string, logger *logger.Logger) *Channel {
	return &Channel{
		channel:  pub,
		exchange: exchange,
		queue:    queue,
		now:      time.Now,
		logger:   logger.With("component", "amqp", "exchange", exchange, "queue", queue),
	}
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (c *Channel) Name() string { return "amqp" }

func (c *Channel) Deliver(ctx context.Context, title, body string) error {
	sentAt := c.now().UTC()
	payload, err := json.Marshal(Payload{Title: title, Body: body, SentAt: sentAt})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    sentAt,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.logger.Debug("Published notification", "title", title)
	return nil
}

func (c *Channel) Close() error {
	if ch, ok := c.channel.(*amqp091.Channel); ok {
		ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
