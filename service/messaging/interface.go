package messaging

import (
	"context"
)

// Queue represents an abstract FIFO queue for any payload type.  There is
// no acknowledgement and no redelivery: once consumed, an item is gone.
type Queue[T any] interface {
	// Publish appends a new item to the queue without blocking
	Publish(ctx context.Context, t *T) error

	// Consume retrieves the oldest item, blocking until one is available.
	// Buffered items are delivered before cancellation is honored; a
	// cancelled context surfaces only once the queue is empty
	Consume(ctx context.Context) (*T, error)

	// Size returns the number of buffered items
	Size() int
}
