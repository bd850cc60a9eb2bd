package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/messaging"
	"github.com/oskern/bankos/tracing"
	"github.com/shopspring/decimal"
)

// State represents the current State of the scheduler loop
type State string

const (
	// StateIdle means no goroutine is executing the loop yet.
	StateIdle State = "idle"
	// StateRunning means the loop is consuming and executing transactions.
	StateRunning State = "running"
	// StateDraining means Stop was called; the loop keeps executing the
	// queued backlog and exits once the queue is empty.
	StateDraining State = "draining"
	// StateStopped is terminal; the loop has returned.
	StateStopped State = "stopped"
)

// DefaultQuantum is the delay inserted after each executed transaction.
const DefaultQuantum = 100 * time.Millisecond

// Config represents scheduler configuration
type Config struct {
	// Quantum is the fixed delay after each executed transaction,
	// simulating a CPU time slice.  It is deliberately not cancellable
	// mid-sleep.
	Quantum time.Duration
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{Quantum: DefaultQuantum}
}

// Ledger is the mutation surface the scheduler dispatches against.
type Ledger interface {
	Deposit(id int64, amount decimal.Decimal) error
	Withdraw(id int64, amount decimal.Decimal) error
}

// Logger receives one line per failed transaction.
type Logger interface {
	LogError(text string)
}

// StateListener observes transaction lifecycle transitions.  Listeners are
// bookkeeping only; the loop never depends on them.
type StateListener func(transactionID string, state model.State)

// HistoryEntry records one executed transaction for display.
type HistoryEntry struct {
	TransactionID string          `json:"transactionId"`
	AccountID     int64           `json:"accountId"`
	Kind          model.Kind      `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	StartedAt     time.Time       `json:"startedAt"`
	CompletedAt   time.Time       `json:"completedAt"`
	Error         string          `json:"error,omitempty"`
}

// Service executes queued transactions one at a time.
type Service struct {
	config    Config
	queue     messaging.Queue[model.Transaction]
	ledger    Ledger
	logger    Logger
	listeners []StateListener

	mux     sync.Mutex
	state   State
	history []HistoryEntry
	cancel  context.CancelFunc

	loopWg sync.WaitGroup
}

// New creates a scheduler service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		state:  StateIdle,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.queue == nil {
		return nil, fmt.Errorf("transaction queue is required")
	}
	if s.ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if s.config.Quantum < 0 {
		return nil, fmt.Errorf("quantum must not be negative, got %s", s.config.Quantum)
	}
	return s, nil
}

// State returns the current loop state.
func (s *Service) State() State {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.state
}

// Start launches the consumer loop.  It fails unless the scheduler is Idle;
// Stopped is terminal and a stopped scheduler cannot be restarted.
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mux.Unlock()
		return fmt.Errorf("state %s: %w", state, ErrNotIdle)
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateRunning
	// the Add must precede the unlock so a racing Stop cannot Wait on a
	// zero counter and return before the loop goroutine exists
	s.loopWg.Add(1)
	s.mux.Unlock()

	go s.run(loopCtx)
	return nil
}

// run consumes transactions until the queue is empty and the loop context
// is cancelled.  Consume delivers buffered items even after cancellation,
// so a stop request never abandons a submitted transaction.
func (s *Service) run(ctx context.Context) {
	defer s.loopWg.Done()
	defer s.setState(StateStopped)

	for {
		transaction, err := s.queue.Consume(ctx)
		if err != nil {
			// Context was cancelled - graceful shutdown.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			// Transient error; back off a bit.
			log.Printf("scheduler: failed to consume transaction: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if transaction == nil {
			continue
		}

		s.execute(ctx, transaction)

		// The quantum is an unconditional delay: Stop never interrupts it.
		time.Sleep(s.config.Quantum)
	}
}

// execute dispatches a single transaction against the ledger.  A failed
// transaction is logged and reported; it never halts the loop.
func (s *Service) execute(ctx context.Context, transaction *model.Transaction) {
	_, span := tracing.StartSpan(ctx, fmt.Sprintf("scheduler.execute %s", transaction.Kind), "CONSUMER")
	span.WithAttributes(map[string]string{
		"transaction.id": transaction.ID,
		"account.id":     strconv.FormatInt(transaction.AccountID, 10),
	})

	transaction.Start()
	s.notifyListeners(transaction.ID, model.StateRunning)

	var err error
	switch transaction.Kind {
	case model.KindDeposit:
		err = s.ledger.Deposit(transaction.AccountID, transaction.Amount)
	case model.KindWithdraw:
		err = s.ledger.Withdraw(transaction.AccountID, transaction.Amount)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownKind, transaction.Kind)
	}

	if err != nil {
		transaction.Fail(err)
		if s.logger != nil {
			s.logger.LogError(fmt.Sprintf("%s of %s for account %d failed: %v",
				transaction.Kind, transaction.Amount, transaction.AccountID, err))
		}
		s.notifyListeners(transaction.ID, model.StateFailed)
	} else {
		transaction.Complete()
		s.notifyListeners(transaction.ID, model.StateCompleted)
	}

	s.appendHistory(transaction)
	tracing.EndSpan(span, err)
}

// Stop requests a cooperative shutdown and blocks until the loop has
// returned.  Transactions already queued still execute, each exactly once
// in submission order; the loop exits once the queue is empty.  Stopping an
// Idle or already Stopped scheduler is a no-op.
func (s *Service) Stop() {
	s.mux.Lock()
	switch s.state {
	case StateIdle:
		s.mux.Unlock()
		return
	case StateRunning:
		s.state = StateDraining
	}
	cancel := s.cancel
	s.mux.Unlock()

	if cancel != nil {
		cancel()
	}
	s.loopWg.Wait()
}

func (s *Service) setState(state State) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.state = state
}

func (s *Service) notifyListeners(transactionID string, state model.State) {
	for _, listener := range s.listeners {
		if listener != nil {
			listener(transactionID, state)
		}
	}
}

func (s *Service) appendHistory(transaction *model.Transaction) {
	entry := HistoryEntry{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Kind:          transaction.Kind,
		Amount:        transaction.Amount,
		Error:         transaction.Error,
	}
	if transaction.StartedAt != nil {
		entry.StartedAt = *transaction.StartedAt
	}
	if transaction.CompletedAt != nil {
		entry.CompletedAt = *transaction.CompletedAt
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.history = append(s.history, entry)
}

// History returns a copy of the executed transactions in execution order.
func (s *Service) History() []HistoryEntry {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]HistoryEntry(nil), s.history...)
}

// TransactionIDs returns the ids of executed transactions in execution
// order.
func (s *Service) TransactionIDs() []string {
	s.mux.Lock()
	defer s.mux.Unlock()
	ids := make([]string, 0, len(s.history))
	for _, entry := range s.history {
		ids = append(ids, entry.TransactionID)
	}
	return ids
}

// Executed returns the number of transactions dispatched so far.
func (s *Service) Executed() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.history)
}
