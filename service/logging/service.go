// Package logging implements the append-only log collaborator: one sink for
// successful transactions and one for failed attempts.  Writes are fire and
// forget; the core never depends on their completion.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/oskern/bankos/internal/clock"
)

// Service writes timestamped text lines to the transaction and error sinks.
type Service struct {
	mux          sync.Mutex
	transactions io.Writer
	errors       io.Writer
	closers      []io.Closer
}

// New creates a logger over the supplied writers.  Nil writers discard.
func New(transactions, errors io.Writer) *Service {
	if transactions == nil {
		transactions = io.Discard
	}
	if errors == nil {
		errors = io.Discard
	}
	return &Service{transactions: transactions, errors: errors}
}

// Discard returns a logger that drops every line.
func Discard() *Service {
	return New(io.Discard, io.Discard)
}

// Open creates a logger appending to the given files, creating them when
// absent.  Close releases the file handles.
func Open(transactionPath, errorPath string) (*Service, error) {
	transactions, err := os.OpenFile(transactionPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction log: %w", err)
	}
	errors, err := os.OpenFile(errorPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		_ = transactions.Close()
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	service := New(transactions, errors)
	service.closers = []io.Closer{transactions, errors}
	return service, nil
}

// LogTransaction appends one line describing a successful mutation.
func (s *Service) LogTransaction(text string) {
	s.write(s.transactions, text)
}

// LogError appends one line describing a failed attempt.
func (s *Service) LogError(text string) {
	s.write(s.errors, text)
}

func (s *Service) write(sink io.Writer, text string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	// best effort: a failed write never surfaces to the caller
	_, _ = fmt.Fprintf(sink, "%s %s\n", clock.Now().Format(time.RFC3339), text)
}

// Close releases any file handles held by the logger.
func (s *Service) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var firstErr error
	for _, closer := range s.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}
