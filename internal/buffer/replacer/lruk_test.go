package replacer

import (
	"testing"

	"github.com/cairndb/pagecache/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeCountsOnlyEvictableFrames(t *testing.T) {
	r := NewLRUKReplacer(3, 2, nil)

	r.RecordAccess(0)
	assert.Equal(t, 0, r.Size(), "recording access alone must not affect Size")

	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())

	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size(), "redundant SetEvictable(true) must not double count")

	r.SetEvictable(0, false)
	assert.Equal(t, 0, r.Size())
}

// TestEvictEarliestFirstAccessAmongInfinite reproduces the spec's seed
// scenario 1: all three frames have fewer than k accesses (infinite
// K-distance), so the one with the earliest first access is evicted.
func TestEvictEarliestFirstAccessAmongInfinite(t *testing.T) {
	r := NewLRUKReplacer(3, 2, nil)

	r.RecordAccess(0) // p0 first
	r.RecordAccess(1) // p1 second
	r.RecordAccess(2) // p2 third
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	id, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(0), id, "earliest first access among <k-history frames should evict first")
}

// TestEvictFiniteDominance reproduces the spec's seed scenario 2: once
// a frame has k or more accesses, its finite K-distance is compared
// against other finite frames, and an infinite (< k history) frame
// always wins over any finite one.
func TestEvictFiniteDominance(t *testing.T) {
	r := NewLRUKReplacer(3, 2, nil)

	r.RecordAccess(0) // t=1
	r.RecordAccess(1) // t=2
	r.RecordAccess(2) // t=3
	r.RecordAccess(0) // t=4
	r.RecordAccess(1) // t=5
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	// p0 history=[4,1] k-distance=5-1=4 (clock is now 5)
	// p1 history=[5,2] k-distance=5-2=3
	// p2 history=[3]   infinite
	id, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(2), id, "frame with < k history must be evicted before any finite-distance frame")
}

func TestEvictNoneEvictable(t *testing.T) {
	r := NewLRUKReplacer(2, 2, nil)
	r.RecordAccess(0)

	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestRemovePanicsOnNonEvictable(t *testing.T) {
	r := NewLRUKReplacer(2, 2, nil)
	r.RecordAccess(0)

	assert.Panics(t, func() { r.Remove(0) })
}

func TestRemoveEvictableDropsSlot(t *testing.T) {
	r := NewLRUKReplacer(2, 2, nil)
	r.RecordAccess(0)
	r.SetEvictable(0, true)

	r.Remove(0)
	assert.Equal(t, 0, r.Size())

	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestSetEvictableOnUntrackedFramePanics(t *testing.T) {
	r := NewLRUKReplacer(2, 2, nil)
	assert.Panics(t, func() { r.SetEvictable(0, true) })
}

func TestRecordAccessOutOfBoundsPanics(t *testing.T) {
	r := NewLRUKReplacer(2, 2, nil)
	assert.Panics(t, func() { r.RecordAccess(5) })
}

func TestHistoryBoundedToK(t *testing.T) {
	r := NewLRUKReplacer(1, 2, nil)
	r.RecordAccess(0)
	r.RecordAccess(0)
	r.RecordAccess(0)

	s := r.slots[0]
	assert.Len(t, s.history, 2)
}
