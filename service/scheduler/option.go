package scheduler

import (
	"time"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/messaging"
)

// Option customizes the scheduler service.
type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithQuantum overrides the delay inserted after each executed transaction.
func WithQuantum(quantum time.Duration) Option {
	return func(s *Service) {
		s.config.Quantum = quantum
	}
}

// WithQueue sets the transaction queue implementation
func WithQueue(queue messaging.Queue[model.Transaction]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithLedger sets the mutation surface transactions execute against
func WithLedger(ledger Ledger) Option {
	return func(s *Service) {
		s.ledger = ledger
	}
}

// WithLogger sets the sink for failed transaction reports
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithStateListeners registers callbacks invoked on every transaction
// lifecycle transition.
func WithStateListeners(fns ...StateListener) Option {
	return func(s *Service) {
		if len(fns) == 0 {
			return
		}
		s.listeners = append(s.listeners, fns...)
	}
}
