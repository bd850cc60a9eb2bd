package bankos

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/events"
	"github.com/oskern/bankos/service/events/kafka"
	"github.com/oskern/bankos/service/ledger"
	"github.com/oskern/bankos/service/logging"
	"github.com/oskern/bankos/service/messaging"
	mmemory "github.com/oskern/bankos/service/messaging/memory"
	"github.com/oskern/bankos/service/notify"
	"github.com/oskern/bankos/service/paging"
	"github.com/oskern/bankos/service/proctable"
	"github.com/oskern/bankos/service/scheduler"
	"github.com/oskern/bankos/tracing"
)

// Service is the only surface client code touches. It composes the ledger,
// the page cache, the transaction queue, the scheduler, the notification
// channel and the bookkeeping collaborators.
//
// Synchronous operations (CreateAccount, CheckBalance) surface errors
// directly. Queued operations (Deposit, Withdraw, EnqueueTransaction)
// report success through the notification channel and failure through the
// error log and the process table.
type Service struct {
	config       *Config
	quantum      time.Duration
	pageCapacity int

	logger        *logging.Service
	pages         *paging.Cache
	ledger        *ledger.Service
	queue         messaging.Queue[model.Transaction]
	notifications *notify.Channel
	scheduler     *scheduler.Service
	processes     *proctable.Table

	publisher events.Publisher
	forwarder *events.Forwarder
	tap       notify.Tap
	listeners []scheduler.StateListener
}

// New creates the facade from the supplied options.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}
	s.notifications = notify.New(notify.WithTap(s.notificationTap()))
	s.ledger = ledger.New(s.pages, s.notifications, s.logger)
	s.processes = proctable.New()

	listeners := append([]scheduler.StateListener{s.processes.OnTransactionStateChange}, s.listeners...)
	var err error
	s.scheduler, err = scheduler.New(
		scheduler.WithQueue(s.queue),
		scheduler.WithLedger(s.ledger),
		scheduler.WithLogger(s.logger),
		scheduler.WithQuantum(s.quantum),
		scheduler.WithStateListeners(listeners...))
	return err
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.quantum == 0 {
		s.quantum = s.config.Scheduler.Quantum()
	}
	if s.pageCapacity == 0 {
		s.pageCapacity = s.config.Memory.Pages
	}
	s.pages = paging.New(s.pageCapacity)
	if s.logger == nil {
		if s.config.Logging.TransactionLog == "" {
			s.logger = logging.Discard()
		} else {
			logger, err := logging.Open(s.config.Logging.TransactionLog, s.config.Logging.ErrorLog)
			if err != nil {
				return err
			}
			s.logger = logger
		}
	}
	if s.queue == nil {
		s.queue = mmemory.NewQueue[model.Transaction]()
	}
	if s.publisher == nil && s.config.Events != nil {
		s.publisher = kafka.NewPublisher(*s.config.Events)
	}
	if s.publisher != nil {
		forwarder, err := events.NewForwarder(s.publisher)
		if err != nil {
			return err
		}
		s.forwarder = forwarder
	}
	return nil
}

// notificationTap composes the mirror hand-off with the caller supplied tap.
func (s *Service) notificationTap() notify.Tap {
	if s.forwarder == nil && s.tap == nil {
		return nil
	}
	return func(notification model.Notification) {
		if s.forwarder != nil {
			s.forwarder.Offer(notification)
		}
		if s.tap != nil {
			s.tap(notification)
		}
	}
}

// CreateAccount registers a new account synchronously and makes it resident
// in the page cache. The initial balance must not be negative; the ledger
// core stays permissive and the facade enforces the sign.
func (s *Service) CreateAccount(ctx context.Context, id int64, initial decimal.Decimal) error {
	_, span := tracing.StartSpan(ctx, "bankos.createAccount", "INTERNAL")
	err := s.createAccount(id, initial)
	tracing.EndSpan(span, err)
	return err
}

func (s *Service) createAccount(id int64, initial decimal.Decimal) error {
	var err error
	if initial.Sign() < 0 {
		err = fmt.Errorf("account %d: initial balance %s: %w", id, initial, ledger.ErrInvalidAmount)
	} else {
		err = s.ledger.CreateAccount(id, initial)
	}
	if err != nil {
		s.logger.LogError(fmt.Sprintf("create account failed: %v", err))
		return err
	}
	s.logger.LogTransaction(fmt.Sprintf("account %d created with balance %s", id, initial))
	return nil
}

// CheckBalance returns the current balance of an account. Reads never
// affect page residency.
func (s *Service) CheckBalance(id int64) (decimal.Decimal, error) {
	return s.ledger.CheckBalance(id)
}

// Deposit queues a deposit for asynchronous execution and returns the
// transaction id.
func (s *Service) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (string, error) {
	return s.EnqueueTransaction(ctx, model.KindDeposit, accountID, amount)
}

// Withdraw queues a withdrawal for asynchronous execution and returns the
// transaction id.
func (s *Service) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (string, error) {
	return s.EnqueueTransaction(ctx, model.KindWithdraw, accountID, amount)
}

// EnqueueTransaction validates and queues a deferred mutation, returning
// the transaction id under which the process table and the scheduler
// history track it. The amount must be positive; account existence is
// checked at execution time, not at enqueue time.
func (s *Service) EnqueueTransaction(ctx context.Context, kind model.Kind, accountID int64, amount decimal.Decimal) (string, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("bankos.enqueue %s", kind), "PRODUCER")
	id, err := s.enqueue(ctx, kind, accountID, amount)
	tracing.EndSpan(span, err)
	return id, err
}

func (s *Service) enqueue(ctx context.Context, kind model.Kind, accountID int64, amount decimal.Decimal) (string, error) {
	var err error
	switch {
	case kind != model.KindDeposit && kind != model.KindWithdraw:
		err = fmt.Errorf("%w: %s", scheduler.ErrUnknownKind, kind)
	case amount.Sign() <= 0:
		err = fmt.Errorf("account %d: %s amount %s: %w", accountID, kind, amount, ledger.ErrInvalidAmount)
	}
	if err != nil {
		s.logger.LogError(fmt.Sprintf("rejected transaction: %v", err))
		return "", err
	}
	transaction := model.NewTransaction(kind, accountID, amount)
	s.processes.Register(transaction)
	if err := s.queue.Publish(ctx, transaction); err != nil {
		s.processes.OnTransactionStateChange(transaction.ID, model.StateFailed)
		s.logger.LogError(fmt.Sprintf("failed to enqueue %s for account %d: %v", kind, accountID, err))
		return "", err
	}
	return transaction.ID, nil
}

// RunScheduler launches the transaction consumer loop and, when an event
// publisher is configured, the notification mirror pump. A stopped
// scheduler cannot be restarted.
func (s *Service) RunScheduler(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}
	if s.forwarder != nil {
		if err := s.forwarder.Start(ctx); err != nil {
			log.Printf("bankos: failed to start notification mirror: %v", err)
		}
	}
	return nil
}

// StopScheduler requests a cooperative shutdown of the consumer loop and
// blocks until it has returned. Transactions already queued still execute
// before the loop exits; stopping never abandons a submitted transaction.
func (s *Service) StopScheduler() {
	s.scheduler.Stop()
}

// SchedulerState returns the current consumer loop state.
func (s *Service) SchedulerState() scheduler.State {
	return s.scheduler.State()
}

// AwaitNotification blocks until a completion notification is available and
// returns the oldest one. There is no bounded-wait variant; callers needing
// one must wrap the call externally.
func (s *Service) AwaitNotification() model.Notification {
	return s.notifications.Await()
}

// PollNotification returns the oldest buffered notification without
// blocking; the second result is false when none is buffered.
func (s *Service) PollNotification() (model.Notification, bool) {
	return s.notifications.Poll()
}

// PendingNotifications returns the number of buffered notifications.
func (s *Service) PendingNotifications() int {
	return s.notifications.Len()
}

// Balances returns a consistent snapshot of every account balance.
func (s *Service) Balances() map[int64]decimal.Decimal {
	return s.ledger.Balances()
}

// PageEntries returns a consistent snapshot of the resident set, ordered by
// page slot.
func (s *Service) PageEntries() []paging.Entry {
	return s.ledger.PageEntries()
}

// History returns the executed transactions in execution order.
func (s *Service) History() []scheduler.HistoryEntry {
	return s.scheduler.History()
}

// TransactionIDs returns the ids of executed transactions in execution
// order.
func (s *Service) TransactionIDs() []string {
	return s.scheduler.TransactionIDs()
}

// ProcessEntries returns the process table rows in submission order.
func (s *Service) ProcessEntries() []proctable.Entry {
	return s.processes.Entries()
}

// TransactionState reports the recorded lifecycle state of a transaction.
func (s *Service) TransactionState(id string) (model.State, bool) {
	return s.processes.State(id)
}

// QueueDepth returns the number of transactions awaiting execution.
func (s *Service) QueueDepth() int {
	return s.queue.Size()
}

// Shutdown stops the scheduler and the notification mirror, then releases
// the log files. Mirror deliveries still buffered are dropped; the
// notification channel itself never loses messages.
func (s *Service) Shutdown() error {
	s.scheduler.Stop()
	var err error
	if s.forwarder != nil {
		err = s.forwarder.Shutdown()
	}
	if closeErr := s.logger.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
