package model

import (
	"time"

	"github.com/oskern/bankos/internal/clock"
	"github.com/oskern/bankos/internal/idgen"
	"github.com/shopspring/decimal"
)

// Kind identifies the ledger operation a transaction performs.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// Transaction represents a single deferred ledger mutation.  It references
// an account by id only; existence and funds are checked at execution time,
// not at enqueue time.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   int64           `json:"accountId"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	State       State           `json:"state"`
	Error       string          `json:"error,omitempty"`
	EnqueuedAt  time.Time       `json:"enqueuedAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// NewTransaction creates a pending transaction for an account
func NewTransaction(kind Kind, accountID int64, amount decimal.Decimal) *Transaction {
	return &Transaction{
		ID:         idgen.New(),
		AccountID:  accountID,
		Kind:       kind,
		Amount:     amount,
		State:      StatePending,
		EnqueuedAt: clock.Now(),
	}
}

// Start marks the transaction as running
func (t *Transaction) Start() {
	now := clock.Now()
	t.StartedAt = &now
	t.State = StateRunning
}

// Complete marks the transaction as completed
func (t *Transaction) Complete() {
	now := clock.Now()
	t.CompletedAt = &now
	t.State = StateCompleted
}

// Fail marks the transaction as failed
func (t *Transaction) Fail(err error) {
	now := clock.Now()
	t.CompletedAt = &now
	if err != nil {
		t.Error = err.Error()
	}
	t.State = StateFailed
}
