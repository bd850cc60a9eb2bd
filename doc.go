// Package bankos simulates an operating system's resource-management layer
// over a toy banking workload.  Accounts stand in for processes: every
// mutation goes through a mutex-guarded ledger, updates a fixed-capacity
// LRU page cache tracking which accounts are resident, and emits an
// asynchronous completion notification.  Deferred mutations flow through a
// FIFO transaction queue drained by a round-robin scheduler that sleeps a
// fixed quantum between dispatches.
//
// Client code interacts with the simulation via the Service facade exposed
// by the root package:
//
//	srv, _ := bankos.New()
//	_ = srv.CreateAccount(ctx, 1, decimal.NewFromInt(1000))
//	_ = srv.RunScheduler(ctx)
//	_, _ = srv.Deposit(ctx, 1, decimal.NewFromInt(500))
//	fmt.Println(srv.AwaitNotification())
//	_ = srv.Shutdown()
//
// For more details see the README and individual sub-packages.
package bankos
