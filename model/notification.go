package model

import (
	"fmt"
	"time"

	"github.com/oskern/bankos/internal/clock"
	"github.com/shopspring/decimal"
)

// Notification is an immutable message describing a completed ledger
// mutation.  It references an account id for display only.
type Notification struct {
	AccountID int64           `json:"accountId"`
	Kind      Kind            `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewNotification creates a notification for a successful mutation
func NewNotification(kind Kind, accountID int64, amount decimal.Decimal) Notification {
	return Notification{
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: clock.Now(),
	}
}

// String renders the human-readable message delivered to channel readers.
func (n Notification) String() string {
	return fmt.Sprintf("Account %d: %s of %s", n.AccountID, n.Kind, n.Amount)
}
