package queue

import (
	"context"
)

// MessageProcessor handles one decoded message. Returning true acknowledges
// (deletes) it; false leaves it for redelivery after the visibility timeout.
type MessageProcessor[T any] interface {
	ProcessMessage(ctx context.Context, message T) bool
}

// MessageProcessorFunc allows functions to implement MessageProcessor
type MessageProcessorFunc[T any] func(ctx context.Context, message T) bool

func (f MessageProcessorFunc[T]) ProcessMessage(ctx context.Context, message T) bool {
	return f(ctx, message)
}

// Queue defines queue operations
type Queue interface {
	// Send publishes message as JSON and returns the broker's message ID.
	Send(ctx context.Context, message interface{}) (string, error)
	StartConsumer(ctx context.Context) error
	StopConsumer(ctx context.Context) error
}
