// Package service contains the orchestration core: request validation,
// the message producer, the consumer-side message handlers, the
// completion waiter, and the orphaned-task sweep. Components depend on
// the store and publisher capabilities only, never on concrete
// infrastructure.
package service
