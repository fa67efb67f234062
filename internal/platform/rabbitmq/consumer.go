package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/smartask/api/internal/events"
	"github.com/smartask/api/internal/platform/logger"
)

// HandlerFunc processes one message body. Returning nil acknowledges the
// delivery. Returning an error wrapping events.ErrMalformedMessage
// rejects it to the dead-letter destination; any other error requeues it
// for redelivery, capped by the queue's delivery limit.
type HandlerFunc func(ctx context.Context, body []byte) error

// ConsumerConfig holds configuration for one queue consumer.
type ConsumerConfig struct {
	// Queue is the queue to consume from.
	Queue string

	// Workers is the number of concurrent handler goroutines.
	// If zero or negative, defaults to 1.
	Workers int

	// Prefetch bounds unacknowledged deliveries on the channel.
	// If zero or negative, defaults to Workers.
	Prefetch int
}

// Consumer runs a pool of handler goroutines over the deliveries of a
// single queue. Handlers for different messages run concurrently, so
// they must be idempotent for redundant deliveries of the same task.
type Consumer struct {
	ch      *amqp.Channel
	cfg     ConsumerConfig
	handler HandlerFunc
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates a consumer for the given queue and handler.
func NewConsumer(ch *amqp.Channel, cfg ConsumerConfig, handler HandlerFunc, log *slog.Logger) *Consumer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = cfg.Workers
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		ch:      ch,
		cfg:     cfg,
		handler: handler,
		logger:  log.With("component", "consumer", "queue", cfg.Queue),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins consuming. It returns once the worker goroutines are
// running; call Stop for a graceful shutdown.
func (c *Consumer) Start() error {
	if err := c.ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch on %s: %w", c.cfg.Queue, err)
	}

	deliveries, err := c.ch.ConsumeWithContext(c.ctx,
		c.cfg.Queue,
		"",    // consumer tag, broker-assigned
		false, // auto-ack off: we ack only after the handler succeeds
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", c.cfg.Queue, err)
	}

	for i := 0; i < c.cfg.Workers; i++ {
		c.wg.Add(1)
		go c.worker(i, deliveries)
	}

	c.logger.Info("consumer started", "workers", c.cfg.Workers, "prefetch", c.cfg.Prefetch)
	return nil
}

// Stop cancels consumption and waits for in-flight handlers to finish.
func (c *Consumer) Stop() {
	c.cancel()
	c.wg.Wait()
	c.logger.Info("consumer stopped")
}

// worker drains the shared delivery channel. Each worker handles one
// message at a time; the channel closes when the context is cancelled or
// the connection drops.
func (c *Consumer) worker(id int, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()

	c.logger.Debug("starting worker", "worker_id", id)

	for delivery := range deliveries {
		c.handle(id, delivery)
	}

	c.logger.Debug("delivery channel closed, stopping worker", "worker_id", id)
}

// handle runs the handler for one delivery and settles it. A handler
// failure never terminates the consumer; it is isolated to this message.
func (c *Consumer) handle(workerID int, delivery amqp.Delivery) {
	log := c.logger.With("worker_id", workerID)
	ctx := logger.WithLogger(c.ctx, log)

	err := c.handler(ctx, delivery.Body)
	switch {
	case err == nil:
		if ackErr := delivery.Ack(false); ackErr != nil {
			log.Error("failed to ack message", "error", ackErr)
		}
	case errors.Is(err, events.ErrMalformedMessage):
		log.Warn("dropping malformed message", "error", err)
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			log.Error("failed to reject malformed message", "error", nackErr)
		}
	default:
		log.Error("message handling failed, requeueing", "error", err)
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			log.Error("failed to requeue message", "error", nackErr)
		}
	}
}
