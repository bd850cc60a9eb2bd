package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheInsertAndPromote(t *testing.T) {
	cache := New(3)
	assert.Equal(t, 3, cache.Capacity())
	assert.Equal(t, 0, cache.Len())

	cache.Touch(1)
	cache.Touch(2)
	cache.Touch(3)
	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, []Entry{{0, 1}, {1, 2}, {2, 3}}, cache.Entries())

	// promoting a resident account changes recency but not occupancy or slot
	cache.Touch(1)
	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, []Entry{{0, 1}, {1, 2}, {2, 3}}, cache.Entries())
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := New(3)
	cache.Touch(1)
	cache.Touch(2)
	cache.Touch(3)
	cache.Touch(1) // recency now 1, 3, 2

	cache.Touch(4) // evicts 2, reuses its slot
	assert.Equal(t, 3, cache.Len())
	assert.False(t, cache.Resident(2))
	assert.True(t, cache.Resident(4))
	assert.Equal(t, []Entry{{0, 1}, {1, 4}, {2, 3}}, cache.Entries())
}

func TestCacheEvictionTieBreaksByInsertionOrder(t *testing.T) {
	cache := New(3)
	// none of these is ever promoted, so they age out oldest-first
	cache.Touch(10)
	cache.Touch(20)
	cache.Touch(30)

	cache.Touch(40)
	assert.False(t, cache.Resident(10))

	cache.Touch(50)
	assert.False(t, cache.Resident(20))
	assert.True(t, cache.Resident(30))
	assert.True(t, cache.Resident(40))
	assert.True(t, cache.Resident(50))
}

func TestCacheNeverExceedsCapacity(t *testing.T) {
	cache := New(5)
	for id := int64(1); id <= 100; id++ {
		cache.Touch(id)
		assert.LessOrEqual(t, cache.Len(), 5)
	}
	assert.Equal(t, 5, cache.Len())
	// the five most recently touched accounts remain
	for id := int64(96); id <= 100; id++ {
		assert.True(t, cache.Resident(id), "account %d should be resident", id)
	}
}

func TestCacheSlotsStayWithinRange(t *testing.T) {
	cache := New(4)
	for id := int64(1); id <= 50; id++ {
		cache.Touch(id)
		for _, entry := range cache.Entries() {
			assert.GreaterOrEqual(t, entry.Slot, 0)
			assert.Less(t, entry.Slot, 4)
		}
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	cache := New(0)
	assert.Equal(t, DefaultPageCount, cache.Capacity())
	assert.Equal(t, 10, cache.Capacity())
}
