// Package scheduler hosts the single consumer loop that drains the
// transaction queue: dequeue one transaction, execute it against the
// ledger, sleep for the configured quantum, repeat.  With one consumer the
// round robin degenerates to FIFO with a fixed per-transaction delay
// standing in for preemptive time slicing; submission order is never
// reordered and no priority exists.  Stop is cooperative: the queued
// backlog finishes first and the loop exits once the queue is empty.
package scheduler
