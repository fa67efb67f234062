package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue topology names. Routing is by fixed key; there is exactly one
// logical job type.
const (
	// Task request path (producer -> worker).
	TaskExchange   = "task-exchange"
	TaskRoutingKey = "task-routing-key"
	TaskQueue      = "task-queue"

	// Dead-letter destination for task requests that exceed the delivery
	// limit. Messages land here for manual inspection, never discarded.
	DeadLetterExchange   = "task-dlx"
	DeadLetterRoutingKey = "task-dead-letter-key"
	DeadLetterQueue      = "task-dead-letter-queue"

	// Status update path (worker -> status consumer).
	StatusExchange   = "status-exchange"
	StatusRoutingKey = "status-routing-key"
	StatusQueue      = "status-queue"
)

// taskDeliveryLimit caps redeliveries of a task message before the
// broker routes it to the dead-letter destination.
const taskDeliveryLimit = 5

// DeclareTopology declares the durable exchanges, queues, and bindings
// for both message paths. Declaration is idempotent; every process that
// touches the broker calls this at startup so ordering between producer
// and consumers does not matter.
func DeclareTopology(ch *amqp.Channel) error {
	exchanges := []string{TaskExchange, StatusExchange, DeadLetterExchange}
	for _, name := range exchanges {
		if err := ch.ExchangeDeclare(
			name,
			amqp.ExchangeDirect,
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", name, err)
		}
	}

	if _, err := ch.QueueDeclare(
		DeadLetterQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", DeadLetterQueue, err)
	}
	if err := ch.QueueBind(DeadLetterQueue, DeadLetterRoutingKey, DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", DeadLetterQueue, err)
	}

	// Quorum queue so the broker enforces the delivery limit before
	// dead-lettering.
	if _, err := ch.QueueDeclare(
		TaskQueue,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-queue-type":              "quorum",
			"x-delivery-limit":          taskDeliveryLimit,
			"x-dead-letter-exchange":    DeadLetterExchange,
			"x-dead-letter-routing-key": DeadLetterRoutingKey,
		},
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", TaskQueue, err)
	}
	if err := ch.QueueBind(TaskQueue, TaskRoutingKey, TaskExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", TaskQueue, err)
	}

	if _, err := ch.QueueDeclare(
		StatusQueue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", StatusQueue, err)
	}
	if err := ch.QueueBind(StatusQueue, StatusRoutingKey, StatusExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", StatusQueue, err)
	}

	return nil
}
