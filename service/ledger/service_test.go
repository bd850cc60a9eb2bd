package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/paging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mux           sync.Mutex
	notifications []model.Notification
}

func (r *recordingNotifier) Push(notification model.Notification) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.notifications = append(r.notifications, notification)
}

func (r *recordingNotifier) all() []model.Notification {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]model.Notification(nil), r.notifications...)
}

type recordingLogger struct {
	mux   sync.Mutex
	lines []string
}

func (r *recordingLogger) LogTransaction(text string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.lines = append(r.lines, text)
}

func TestCreateAccount(t *testing.T) {
	service := New(paging.New(3), nil, nil)

	err := service.CreateAccount(1, decimal.NewFromInt(1000))
	require.NoError(t, err)

	err = service.CreateAccount(1, decimal.NewFromInt(50))
	assert.True(t, errors.Is(err, ErrAccountAlreadyExists))

	balance, err := service.CheckBalance(1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)))

	// creation makes the account resident but emits no notification
	entries := service.PageEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].AccountID)
}

func TestDepositAndWithdraw(t *testing.T) {
	notifier := &recordingNotifier{}
	logger := &recordingLogger{}
	service := New(paging.New(3), notifier, logger)
	require.NoError(t, service.CreateAccount(1, decimal.NewFromInt(100)))

	require.NoError(t, service.Deposit(1, decimal.NewFromInt(50)))
	require.NoError(t, service.Withdraw(1, decimal.NewFromInt(30)))

	balance, err := service.CheckBalance(1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(120)))

	notifications := notifier.all()
	require.Len(t, notifications, 2)
	assert.Equal(t, model.KindDeposit, notifications[0].Kind)
	assert.Equal(t, model.KindWithdraw, notifications[1].Kind)
	assert.Equal(t, "Account 1: deposit of 50", notifications[0].String())

	logger.mux.Lock()
	defer logger.mux.Unlock()
	require.Len(t, logger.lines, 2)
	assert.Equal(t, "deposit of 50 for account 1", logger.lines[0])
	assert.Equal(t, "withdraw of 30 for account 1", logger.lines[1])
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	notifier := &recordingNotifier{}
	service := New(paging.New(3), notifier, nil)
	require.NoError(t, service.CreateAccount(1, decimal.NewFromInt(100)))

	err := service.Withdraw(1, decimal.NewFromInt(150))
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	// the failed attempt changed nothing and emitted nothing
	balance, err := service.CheckBalance(1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, notifier.all())
}

func TestAccountNotFound(t *testing.T) {
	service := New(paging.New(3), nil, nil)

	assert.True(t, errors.Is(service.Deposit(9, decimal.NewFromInt(1)), ErrAccountNotFound))
	assert.True(t, errors.Is(service.Withdraw(9, decimal.NewFromInt(1)), ErrAccountNotFound))
	_, err := service.CheckBalance(9)
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

func TestCheckBalanceLeavesResidencyUntouched(t *testing.T) {
	service := New(paging.New(2), nil, nil)
	require.NoError(t, service.CreateAccount(1, decimal.NewFromInt(10)))
	require.NoError(t, service.CreateAccount(2, decimal.NewFromInt(10)))

	// reading account 1 must not refresh its recency
	for i := 0; i < 5; i++ {
		_, err := service.CheckBalance(1)
		require.NoError(t, err)
	}

	// account 3 evicts account 1, the least recently mutated
	require.NoError(t, service.CreateAccount(3, decimal.NewFromInt(10)))
	entries := service.PageEntries()
	resident := map[int64]bool{}
	for _, entry := range entries {
		resident[entry.AccountID] = true
	}
	assert.False(t, resident[1])
	assert.True(t, resident[2])
	assert.True(t, resident[3])
}

func TestMutationsTouchResidency(t *testing.T) {
	service := New(paging.New(2), nil, nil)
	require.NoError(t, service.CreateAccount(1, decimal.NewFromInt(10)))
	require.NoError(t, service.CreateAccount(2, decimal.NewFromInt(10)))

	// depositing to account 1 promotes it, so account 2 is evicted next
	require.NoError(t, service.Deposit(1, decimal.NewFromInt(1)))
	require.NoError(t, service.CreateAccount(3, decimal.NewFromInt(10)))

	resident := map[int64]bool{}
	for _, entry := range service.PageEntries() {
		resident[entry.AccountID] = true
	}
	assert.True(t, resident[1])
	assert.False(t, resident[2])
	assert.True(t, resident[3])
}

func TestConcurrentMutationsStayAtomic(t *testing.T) {
	service := New(paging.New(paging.DefaultPageCount), &recordingNotifier{}, nil)
	require.NoError(t, service.CreateAccount(1, decimal.NewFromInt(1000)))

	var waitGroup sync.WaitGroup
	workers := 8
	rounds := 50
	for i := 0; i < workers; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for j := 0; j < rounds; j++ {
				assert.NoError(t, service.Deposit(1, decimal.NewFromInt(5)))
				assert.NoError(t, service.Withdraw(1, decimal.NewFromInt(2)))
			}
		}()
	}
	waitGroup.Wait()

	balance, err := service.CheckBalance(1)
	require.NoError(t, err)
	expected := decimal.NewFromInt(1000 + int64(workers*rounds*3))
	assert.True(t, balance.Equal(expected), "balance=%s want=%s", balance, expected)
}

func TestBalancesSnapshot(t *testing.T) {
	service := New(paging.New(3), nil, nil)
	require.NoError(t, service.CreateAccount(1, decimal.NewFromInt(10)))
	require.NoError(t, service.CreateAccount(2, decimal.NewFromInt(20)))

	balances := service.Balances()
	require.Len(t, balances, 2)
	assert.True(t, balances[2].Equal(decimal.NewFromInt(20)))

	// mutating the snapshot leaves the ledger untouched
	balances[2] = decimal.NewFromInt(999)
	fresh, err := service.CheckBalance(2)
	require.NoError(t, err)
	assert.True(t, fresh.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 2, service.Len())
}
