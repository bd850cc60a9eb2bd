package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/messaging"
	"github.com/oskern/bankos/service/messaging/memory"
)

// Forwarder decouples notification pushes from publisher latency: Offer
// buffers on an unbounded queue and a single pump goroutine delivers in
// order.  A failed delivery is logged and skipped; there is no retry.
type Forwarder struct {
	queue     messaging.Queue[model.Notification]
	publisher Publisher

	mux     sync.Mutex
	started bool
	cancel  context.CancelFunc

	pumpWg sync.WaitGroup
}

// NewForwarder creates a forwarder delivering to the supplied publisher.
func NewForwarder(publisher Publisher) (*Forwarder, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	return &Forwarder{
		queue:     memory.NewQueue[model.Notification](),
		publisher: publisher,
	}, nil
}

// Offer buffers a notification for delivery without blocking.  It is safe
// to call before Start; buffered notifications are delivered once the pump
// runs.
func (f *Forwarder) Offer(notification model.Notification) {
	_ = f.queue.Publish(context.Background(), &notification)
}

// Start launches the delivery pump.
func (f *Forwarder) Start(ctx context.Context) error {
	f.mux.Lock()
	defer f.mux.Unlock()
	if f.started {
		return fmt.Errorf("forwarder already started")
	}
	pumpCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.started = true

	f.pumpWg.Add(1)
	go f.pump(pumpCtx)
	return nil
}

func (f *Forwarder) pump(ctx context.Context) {
	defer f.pumpWg.Done()
	for {
		// Consume drains its buffer before honoring cancellation; the
		// mirror drops undelivered notifications instead, so the check
		// comes first.
		if ctx.Err() != nil {
			return
		}
		notification, err := f.queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("events: failed to consume notification: %v", err)
			continue
		}
		if notification == nil {
			continue
		}
		if err := f.publisher.Publish(ctx, *notification); err != nil {
			log.Printf("events: failed to publish notification: %v", err)
		}
	}
}

// Pending returns the number of notifications awaiting delivery.
func (f *Forwarder) Pending() int {
	return f.queue.Size()
}

// Shutdown stops the pump and closes the publisher.  Notifications still
// buffered are dropped; the mirror makes no delivery guarantee.
func (f *Forwarder) Shutdown() error {
	f.mux.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mux.Unlock()

	if cancel != nil {
		cancel()
	}
	f.pumpWg.Wait()
	return f.publisher.Close()
}
