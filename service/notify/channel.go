// Package notify implements the notification side of the simulation: a
// condition-guarded FIFO that buffers completion messages until a reader
// claims them.  It owns its lock and condition pair; no caller ever holds
// the ledger lock while touching the channel.
package notify

import (
	"sync"

	"github.com/oskern/bankos/model"
)

// Tap observes every pushed notification after it has been buffered.  It is
// invoked outside the channel lock.
type Tap func(notification model.Notification)

// Option customizes a Channel
type Option func(*Channel)

// WithTap registers an observer for pushed notifications.
func WithTap(tap Tap) Option {
	return func(c *Channel) {
		c.tap = tap
	}
}

// Channel is an unbounded FIFO of notifications.  Messages are never
// dropped; with no reader they accumulate until claimed.
type Channel struct {
	mux      sync.Mutex
	cond     *sync.Cond
	messages []model.Notification
	tap      Tap
}

// New creates an empty channel
func New(options ...Option) *Channel {
	channel := &Channel{}
	channel.cond = sync.NewCond(&channel.mux)
	for _, option := range options {
		option(channel)
	}
	return channel
}

// Push appends a notification and wakes one waiting reader.
func (c *Channel) Push(notification model.Notification) {
	c.mux.Lock()
	c.messages = append(c.messages, notification)
	c.cond.Signal()
	c.mux.Unlock()

	if c.tap != nil {
		c.tap(notification)
	}
}

// Await blocks until a notification is available, then pops and returns the
// oldest one.  There is deliberately no bounded-wait variant; callers that
// need one must wrap Await externally.
func (c *Channel) Await() model.Notification {
	c.mux.Lock()
	defer c.mux.Unlock()
	for len(c.messages) == 0 {
		c.cond.Wait()
	}
	return c.pop()
}

// Poll returns the oldest buffered notification without blocking.  The
// second result is false when nothing is buffered.
func (c *Channel) Poll() (model.Notification, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	if len(c.messages) == 0 {
		return model.Notification{}, false
	}
	return c.pop(), true
}

func (c *Channel) pop() model.Notification {
	notification := c.messages[0]
	c.messages = c.messages[1:]
	return notification
}

// Len returns the number of buffered notifications.
func (c *Channel) Len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.messages)
}
