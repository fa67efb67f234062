// Package events defines the wire contracts exchanged with the external
// schedule-optimization worker over the message broker: the task-request
// payload published by the producer and the status updates the worker
// publishes back.
package events
