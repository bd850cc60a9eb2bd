// Package paging models the resident-set indicator of the simulation: a
// fixed number of page slots mapping to the most recently mutated accounts,
// evicted with a strict LRU policy.  It stores no byte-level data.
package paging

import "sort"

const (
	// PageSize is the size of a memory page in bytes.
	PageSize = 4096
	// MemorySize is the total simulated memory size in bytes.
	MemorySize = 10 * PageSize
	// DefaultPageCount is the number of page slots available by default.
	DefaultPageCount = MemorySize / PageSize
)

// Entry associates a page slot with the account currently resident in it.
type Entry struct {
	Slot      int   `json:"slot"`
	AccountID int64 `json:"accountId"`
}

// Cache tracks which accounts are resident in the fixed set of page slots.
// It is not safe for concurrent use: the owning ledger serializes every
// access under its own lock, so the cache carries no lock of its own.
type Cache struct {
	capacity int
	recency  []int64       // account ids, most recently used first
	slots    map[int64]int // account id -> slot
}

// New creates a page cache with the given number of slots.  A non-positive
// capacity falls back to DefaultPageCount.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultPageCount
	}
	return &Cache{
		capacity: capacity,
		recency:  make([]int64, 0, capacity),
		slots:    make(map[int64]int, capacity),
	}
}

// Touch records a mutation of the given account:
//   - a resident account is promoted to most recently used,
//   - a new account takes a free slot while one exists,
//   - otherwise the least recently used entry is evicted and the new
//     account takes over its slot.
//
// Entries never touched again age out strictly in insertion order.
func (c *Cache) Touch(accountID int64) {
	if _, ok := c.slots[accountID]; ok {
		c.promote(accountID)
		return
	}
	slot := len(c.slots)
	if len(c.slots) >= c.capacity {
		victim := c.recency[len(c.recency)-1]
		c.recency = c.recency[:len(c.recency)-1]
		slot = c.slots[victim]
		delete(c.slots, victim)
	}
	c.slots[accountID] = slot
	c.recency = append([]int64{accountID}, c.recency...)
}

func (c *Cache) promote(accountID int64) {
	for i, id := range c.recency {
		if id == accountID {
			copy(c.recency[1:i+1], c.recency[:i])
			c.recency[0] = accountID
			return
		}
	}
}

// Resident reports whether the account currently occupies a page slot.
func (c *Cache) Resident(accountID int64) bool {
	_, ok := c.slots[accountID]
	return ok
}

// Len returns the current occupancy.
func (c *Cache) Len() int {
	return len(c.slots)
}

// Capacity returns the number of page slots.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Entries returns the resident set ordered by slot.  The caller must hold
// the same lock that guards Touch for the snapshot to be consistent.
func (c *Cache) Entries() []Entry {
	entries := make([]Entry, 0, len(c.slots))
	for accountID, slot := range c.slots {
		entries = append(entries, Entry{Slot: slot, AccountID: accountID})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Slot < entries[j].Slot })
	return entries
}
