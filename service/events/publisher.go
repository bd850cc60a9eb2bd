// Package events mirrors committed notifications to external consumers.
// The mirror is bookkeeping only: the core never depends on a publisher
// and a slow or failing broker never blocks a notification push.
package events

import (
	"context"

	"github.com/oskern/bankos/model"
)

// Publisher delivers notifications to an external system.
type Publisher interface {
	// Publish delivers a single notification
	Publish(ctx context.Context, notification model.Notification) error

	// Close releases any resources held by the publisher
	Close() error
}
