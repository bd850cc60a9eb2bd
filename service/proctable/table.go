// Package proctable keeps display-only bookkeeping of every submitted
// transaction and its lifecycle state.  The core never depends on this
// table; it exists for operators and reporting.
package proctable

import (
	"sync"
	"time"

	"github.com/oskern/bankos/internal/clock"
	"github.com/oskern/bankos/model"
)

// Entry is one row of the table.
type Entry struct {
	TransactionID string      `json:"transactionId"`
	AccountID     int64       `json:"accountId"`
	Kind          model.Kind  `json:"kind"`
	State         model.State `json:"state"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Table records transactions in submission order.
type Table struct {
	mux     sync.Mutex
	order   []string
	entries map[string]*Entry
}

// New creates an empty table
func New() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Register adds a freshly enqueued transaction.
func (t *Table) Register(transaction *model.Transaction) {
	if transaction == nil {
		return
	}
	t.mux.Lock()
	defer t.mux.Unlock()
	if _, ok := t.entries[transaction.ID]; ok {
		return
	}
	t.entries[transaction.ID] = &Entry{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Kind:          transaction.Kind,
		State:         transaction.State,
		UpdatedAt:     clock.Now(),
	}
	t.order = append(t.order, transaction.ID)
}

// OnTransactionStateChange records a lifecycle transition.  Unknown ids are
// inserted so that late observers still see them.
func (t *Table) OnTransactionStateChange(transactionID string, state model.State) {
	t.mux.Lock()
	defer t.mux.Unlock()
	entry, ok := t.entries[transactionID]
	if !ok {
		entry = &Entry{TransactionID: transactionID}
		t.entries[transactionID] = entry
		t.order = append(t.order, transactionID)
	}
	entry.State = state
	entry.UpdatedAt = clock.Now()
}

// State returns the recorded state of a transaction.
func (t *Table) State(transactionID string) (model.State, bool) {
	t.mux.Lock()
	defer t.mux.Unlock()
	entry, ok := t.entries[transactionID]
	if !ok {
		return "", false
	}
	return entry.State, true
}

// Entries returns a copy of all rows in submission order.
func (t *Table) Entries() []Entry {
	t.mux.Lock()
	defer t.mux.Unlock()
	out := make([]Entry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.entries[id])
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mux.Lock()
	defer t.mux.Unlock()
	return len(t.order)
}
