// Package ledger implements the authoritative account store of the
// simulation.  A single mutex serializes every operation for its full
// duration; the page cache is touched under that same lock, so mutation,
// residency update and notification order stay consistent across callers.
package ledger

import (
	"fmt"
	"sync"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/paging"
	"github.com/shopspring/decimal"
)

// Notifier receives one notification per successful mutation.
type Notifier interface {
	Push(notification model.Notification)
}

// Logger receives one line per successful mutation.
type Logger interface {
	LogTransaction(text string)
}

// Service maps account ids to balances.  The zero value is not usable;
// create instances with New.
type Service struct {
	mux      sync.Mutex
	accounts map[int64]decimal.Decimal
	pages    *paging.Cache
	notifier Notifier
	logger   Logger
}

// New creates an empty ledger backed by the supplied page cache.  The
// notifier and logger may be nil, in which case the corresponding side
// effect is skipped.
func New(pages *paging.Cache, notifier Notifier, logger Logger) *Service {
	if pages == nil {
		pages = paging.New(paging.DefaultPageCount)
	}
	return &Service{
		accounts: make(map[int64]decimal.Decimal),
		pages:    pages,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateAccount registers a new account with the given initial balance and
// makes it resident in the page cache.  Creation emits no notification.
// The ledger does not reject negative balances; the facade validates them.
func (s *Service) CreateAccount(id int64, initial decimal.Decimal) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.accounts[id]; ok {
		return fmt.Errorf("account %d: %w", id, ErrAccountAlreadyExists)
	}
	s.accounts[id] = initial
	s.pages.Touch(id)
	return nil
}

// Deposit adds amount to the account balance.  On success it touches the
// page cache under the ledger lock, then logs and pushes a notification
// once the lock is released.
func (s *Service) Deposit(id int64, amount decimal.Decimal) error {
	s.mux.Lock()
	balance, ok := s.accounts[id]
	if !ok {
		s.mux.Unlock()
		return fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	s.accounts[id] = balance.Add(amount)
	s.pages.Touch(id)
	notification := model.NewNotification(model.KindDeposit, id, amount)
	s.mux.Unlock()

	s.committed(notification)
	return nil
}

// Withdraw subtracts amount from the account balance, failing when the
// balance would turn negative.  Side effects mirror Deposit.
func (s *Service) Withdraw(id int64, amount decimal.Decimal) error {
	s.mux.Lock()
	balance, ok := s.accounts[id]
	if !ok {
		s.mux.Unlock()
		return fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	if balance.Cmp(amount) < 0 {
		s.mux.Unlock()
		return fmt.Errorf("account %d: %w", id, ErrInsufficientFunds)
	}
	s.accounts[id] = balance.Sub(amount)
	s.pages.Touch(id)
	notification := model.NewNotification(model.KindWithdraw, id, amount)
	s.mux.Unlock()

	s.committed(notification)
	return nil
}

// CheckBalance returns the current balance.  Reads deliberately leave the
// page cache untouched; residency tracks mutations only.
func (s *Service) CheckBalance(id int64) (decimal.Decimal, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	balance, ok := s.accounts[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	return balance, nil
}

// committed performs the post-commit side effects of a successful mutation.
// It runs after the ledger lock is released; the notification lock is never
// acquired while the ledger lock is held.  Delivery order still matches
// commit order because all mutations flow through the single scheduler
// consumer.
func (s *Service) committed(notification model.Notification) {
	if s.logger != nil {
		s.logger.LogTransaction(fmt.Sprintf("%s of %s for account %d",
			notification.Kind, notification.Amount, notification.AccountID))
	}
	if s.notifier != nil {
		s.notifier.Push(notification)
	}
}

// Balances returns a copy of the full id to balance mapping, taken under
// the ledger lock.
func (s *Service) Balances() map[int64]decimal.Decimal {
	s.mux.Lock()
	defer s.mux.Unlock()
	out := make(map[int64]decimal.Decimal, len(s.accounts))
	for id, balance := range s.accounts {
		out[id] = balance
	}
	return out
}

// PageEntries returns a consistent snapshot of the resident set.  The page
// cache has no lock of its own, so the snapshot is taken under the ledger
// lock that guards every touch.
func (s *Service) PageEntries() []paging.Entry {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.pages.Entries()
}

// Len returns the number of accounts.
func (s *Service) Len() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.accounts)
}
