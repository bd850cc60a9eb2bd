// Package report renders human-readable views over the core's snapshot
// accessors: the memory map, the scheduler Gantt chart, the balance sheet
// and the process table.  Renderers consume snapshot copies only; they
// never reach into live state.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oskern/bankos/service/paging"
	"github.com/oskern/bankos/service/proctable"
	"github.com/oskern/bankos/service/scheduler"
	"github.com/shopspring/decimal"
)

// MemoryMap renders the resident set, one line per occupied page slot.
func MemoryMap(entries []paging.Entry) string {
	var b strings.Builder
	b.WriteString("Memory Map:\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "Page %d: Account %d\n", entry.Slot, entry.AccountID)
	}
	return b.String()
}

// BalanceSheet renders all balances ordered by account id.
func BalanceSheet(balances map[int64]decimal.Decimal) string {
	ids := make([]int64, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString("Balances:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "Account %d: %s\n", id, balances[id])
	}
	return b.String()
}

// ganttWidth is the number of columns the time axis is scaled onto.
const ganttWidth = 48

// Gantt renders the execution history as one bar per transaction, scaled
// over the span between the first start and the last completion.
func Gantt(history []scheduler.HistoryEntry) string {
	var b strings.Builder
	b.WriteString("Gantt Chart:\n")
	if len(history) == 0 {
		b.WriteString("no transactions executed\n")
		return b.String()
	}

	base := history[0].StartedAt
	end := history[len(history)-1].CompletedAt
	span := end.Sub(base)
	if span <= 0 {
		span = time.Millisecond
	}

	for _, entry := range history {
		start := scale(entry.StartedAt.Sub(base), span)
		stop := scale(entry.CompletedAt.Sub(base), span)
		if stop <= start {
			stop = start + 1
		}
		if stop > ganttWidth {
			stop = ganttWidth
		}
		bar := strings.Repeat(" ", start) +
			strings.Repeat("#", stop-start) +
			strings.Repeat(" ", ganttWidth-stop)
		status := "ok"
		if entry.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(&b, "%-8s account %-6d |%s| %s\n", entry.Kind, entry.AccountID, bar, status)
	}
	return b.String()
}

func scale(offset, span time.Duration) int {
	if offset < 0 {
		return 0
	}
	position := int(float64(offset) / float64(span) * ganttWidth)
	if position > ganttWidth {
		return ganttWidth
	}
	return position
}

// ProcessTable renders submitted transactions and their lifecycle states in
// submission order.
func ProcessTable(entries []proctable.Entry) string {
	var b strings.Builder
	b.WriteString("Process Table:\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s %-8s account %-6d %s\n",
			entry.TransactionID, entry.Kind, entry.AccountID, entry.State)
	}
	return b.String()
}
