// Package model contains the in-memory representation of transactions,
// notifications and their lifecycle states used by the bankos engine.
//
// A transaction is a deferred unit of work (operation kind, account id,
// amount) created when a caller submits a request and destroyed once the
// scheduler dispatches it.  The root model package aggregates these building
// blocks so that they can be referenced from other parts of the code base
// with a single import.
package model
