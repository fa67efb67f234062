package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes persistent JSON messages to a fixed exchange and
// routing key.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
	key      string
	logger   *slog.Logger
}

// NewTaskPublisher creates a Publisher bound to the task-request exchange.
func NewTaskPublisher(ch *amqp.Channel, logger *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: TaskExchange,
		key:      TaskRoutingKey,
		logger:   logger.With("component", "task_publisher"),
	}
}

// NewStatusPublisher creates a Publisher bound to the status exchange.
// The worker side normally publishes status updates; this is used by
// tooling and tests that simulate it.
func NewStatusPublisher(ch *amqp.Channel, logger *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: StatusExchange,
		key:      StatusRoutingKey,
		logger:   logger.With("component", "status_publisher"),
	}
}

// Publish sends the body as a persistent application/json message.
func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	err := p.ch.PublishWithContext(ctx,
		p.exchange,
		p.key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("failed to publish message",
			"exchange", p.exchange,
			"routing_key", p.key,
			"error", err)
		return fmt.Errorf("failed to publish to %s: %w", p.exchange, err)
	}

	p.logger.Debug("published message",
		"exchange", p.exchange,
		"routing_key", p.key,
		"bytes", len(body))
	return nil
}
