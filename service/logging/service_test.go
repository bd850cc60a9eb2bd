package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oskern/bankos/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLinesAreTimestamped(t *testing.T) {
	prev := clock.NowFunc
	defer func() { clock.NowFunc = prev }()
	clock.NowFunc = func() time.Time {
		return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	}

	var transactions, errors bytes.Buffer
	service := New(&transactions, &errors)

	service.LogTransaction("deposit of 500 for account 1")
	service.LogError("withdraw of 900 for account 1 failed: ledger: insufficient funds")

	assert.Equal(t, "2025-03-01T10:30:00Z deposit of 500 for account 1\n", transactions.String())
	assert.Equal(t,
		"2025-03-01T10:30:00Z withdraw of 900 for account 1 failed: ledger: insufficient funds\n",
		errors.String())
}

func TestOpenAppends(t *testing.T) {
	dir := t.TempDir()
	transactionPath := filepath.Join(dir, "transaction_log.txt")
	errorPath := filepath.Join(dir, "error_log.txt")

	first, err := Open(transactionPath, errorPath)
	require.NoError(t, err)
	first.LogTransaction("deposit of 500 for account 1")
	require.NoError(t, first.Close())

	// reopening appends rather than truncates
	second, err := Open(transactionPath, errorPath)
	require.NoError(t, err)
	second.LogTransaction("withdraw of 200 for account 1")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(transactionPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "deposit of 500 for account 1\n")
	assert.Contains(t, string(data), "withdraw of 200 for account 1\n")

	lines := bytes.Count(data, []byte("\n"))
	assert.Equal(t, 2, lines)
}

func TestDiscard(t *testing.T) {
	service := Discard()
	service.LogTransaction("ignored")
	service.LogError("ignored")
	assert.NoError(t, service.Close())
}
