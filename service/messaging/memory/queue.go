package memory

import (
	"context"
	"sync"

	"github.com/oskern/bankos/service/messaging"
)

// Queue implements an unbounded in-memory messaging.Queue.  Publish never
// blocks; Consume blocks until an item arrives and honors cancellation only
// once the buffer is empty.
type Queue[T any] struct {
	mux    sync.Mutex
	items  []*T
	wakeup chan struct{}
}

// NewQueue creates a new in-memory queue
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		wakeup: make(chan struct{}, 1),
	}
}

// Publish appends a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mux.Lock()
	q.items = append(q.items, t)
	q.mux.Unlock()
	q.signal()
	return nil
}

// Consume retrieves the oldest item, waiting for one when the queue is
// empty.  Buffered items are still delivered after the context is
// cancelled; ctx.Err() is returned only once the queue is empty.
func (q *Queue[T]) Consume(ctx context.Context) (*T, error) {
	for {
		q.mux.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mux.Unlock()
			if remaining > 0 {
				// pass the wakeup on so another blocked consumer re-checks
				q.signal()
			}
			return item, nil
		}
		q.mux.Unlock()

		select {
		case <-q.wakeup:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *Queue[T]) signal() {
	select {
	case q.wakeup <- struct{}{}:
	default:
	}
}

// Size returns the current number of items in the queue
func (q *Queue[T]) Size() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return len(q.items)
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
