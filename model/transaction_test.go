package model

import (
	"errors"
	"testing"
	"time"

	"github.com/oskern/bankos/internal/clock"
	"github.com/oskern/bankos/internal/idgen"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewTransaction(t *testing.T) {
	prevNow := clock.NowFunc
	prevID := idgen.NewFunc
	defer func() {
		clock.NowFunc = prevNow
		idgen.NewFunc = prevID
	}()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return at }
	idgen.NewFunc = func() string { return "txn-1" }

	txn := NewTransaction(KindDeposit, 42, decimal.NewFromInt(500))
	assert.Equal(t, "txn-1", txn.ID)
	assert.Equal(t, int64(42), txn.AccountID)
	assert.Equal(t, KindDeposit, txn.Kind)
	assert.Equal(t, StatePending, txn.State)
	assert.Equal(t, at, txn.EnqueuedAt)
	assert.Nil(t, txn.StartedAt)
	assert.Nil(t, txn.CompletedAt)
}

func TestTransactionLifecycle(t *testing.T) {
	txn := NewTransaction(KindWithdraw, 7, decimal.NewFromInt(200))

	txn.Start()
	assert.Equal(t, StateRunning, txn.State)
	assert.NotNil(t, txn.StartedAt)
	assert.False(t, txn.State.IsTerminal())

	txn.Complete()
	assert.Equal(t, StateCompleted, txn.State)
	assert.NotNil(t, txn.CompletedAt)
	assert.True(t, txn.State.IsTerminal())
}

func TestTransactionFail(t *testing.T) {
	txn := NewTransaction(KindWithdraw, 7, decimal.NewFromInt(200))
	txn.Start()
	txn.Fail(errors.New("insufficient funds"))
	assert.Equal(t, StateFailed, txn.State)
	assert.Equal(t, "insufficient funds", txn.Error)
	assert.NotNil(t, txn.CompletedAt)
	assert.True(t, txn.State.IsTerminal())
}

func TestNotificationString(t *testing.T) {
	testCases := []struct {
		description string
		kind        Kind
		accountID   int64
		amount      decimal.Decimal
		expect      string
	}{
		{
			description: "deposit",
			kind:        KindDeposit,
			accountID:   1,
			amount:      decimal.NewFromInt(500),
			expect:      "Account 1: deposit of 500",
		},
		{
			description: "withdraw with fraction",
			kind:        KindWithdraw,
			accountID:   12,
			amount:      decimal.RequireFromString("12.5"),
			expect:      "Account 12: withdraw of 12.5",
		},
	}
	for _, testCase := range testCases {
		notification := NewNotification(testCase.kind, testCase.accountID, testCase.amount)
		assert.Equal(t, testCase.expect, notification.String(), testCase.description)
	}
}
