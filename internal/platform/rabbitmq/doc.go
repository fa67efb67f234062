// Package rabbitmq provides the broker topology (durable task, status
// and dead-letter destinations), a persistent-message publisher, and a
// worker-pool consumer loop over AMQP 0-9-1.
package rabbitmq
