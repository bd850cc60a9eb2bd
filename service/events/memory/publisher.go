// Package memory provides an in-process events.Publisher used by tests and
// as the default mirror target.
package memory

import (
	"context"
	"sync"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/events"
)

// Publisher records published notifications in memory.
type Publisher struct {
	mux           sync.Mutex
	notifications []model.Notification
}

// NewPublisher creates an empty in-memory publisher
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish records the notification
func (p *Publisher) Publish(_ context.Context, notification model.Notification) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.notifications = append(p.notifications, notification)
	return nil
}

// Notifications returns a copy of everything published so far.
func (p *Publisher) Notifications() []model.Notification {
	p.mux.Lock()
	defer p.mux.Unlock()
	return append([]model.Notification(nil), p.notifications...)
}

// Close implements events.Publisher
func (p *Publisher) Close() error {
	return nil
}

// ensure Publisher implements events.Publisher interface
var _ events.Publisher = (*Publisher)(nil)
