package hashtable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityHash(k int) uint64 { return uint64(k) }

func TestInsertFindRoundTrip(t *testing.T) {
	h := New[int, string](2, identityHash)

	h.Insert(1, "one")
	h.Insert(2, "two")

	v, ok := h.Find(1)
	require.True(t, ok)
	assert.Equal(t, "one", v)

	v, ok = h.Find(2)
	require.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = h.Find(3)
	assert.False(t, ok)
}

func TestInsertUpdatesExistingKey(t *testing.T) {
	h := New[int, string](2, identityHash)

	h.Insert(1, "one")
	h.Insert(1, "uno")

	v, ok := h.Find(1)
	require.True(t, ok)
	assert.Equal(t, "uno", v)
	assert.Equal(t, 1, h.GetNumBuckets())
}

func TestRemove(t *testing.T) {
	h := New[int, string](2, identityHash)

	h.Insert(1, "one")
	assert.True(t, h.Remove(1))
	assert.False(t, h.Remove(1))

	_, ok := h.Find(1)
	assert.False(t, ok)
}

// TestDirectoryDoubling reproduces the spec's seed scenario 5: with a
// bucket size of 2, inserting keys that all collide modulo the
// directory length forces repeated splits and directory doublings,
// and every previously-inserted key must remain findable throughout.
func TestDirectoryDoubling(t *testing.T) {
	h := New[int, int](2, identityHash)

	inserted := []int{}
	// Keys 0, 2, 4, 6, 8, 10 all collide at global depth 0 (hash&0==0),
	// forcing repeated splits as each bucket fills.
	keys := []int{0, 2, 4, 6, 8, 10}

	prevDepth := h.GetGlobalDepth()
	for _, k := range keys {
		h.Insert(k, k*100)
		inserted = append(inserted, k)

		for _, ik := range inserted {
			v, ok := h.Find(ik)
			require.True(t, ok, "key %d should be findable after inserting %d", ik, k)
			assert.Equal(t, ik*100, v)
		}

		newDepth := h.GetGlobalDepth()
		assert.GreaterOrEqual(t, newDepth, prevDepth)
		prevDepth = newDepth
	}

	assert.Greater(t, h.GetGlobalDepth(), 0)
	assert.Equal(t, 1<<uint(h.GetGlobalDepth()), len(h.dir))
}

func TestConcurrentInsertAndFind(t *testing.T) {
	h := New[int, int](4, identityHash)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			h.Insert(k, k)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		v, ok := h.Find(i)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestGetLocalDepthNeverExceedsGlobalDepth(t *testing.T) {
	h := New[int, int](2, identityHash)
	for k := 0; k < 20; k += 2 {
		h.Insert(k, k)
	}

	gd := h.GetGlobalDepth()
	for i := 0; i < len(h.dir); i++ {
		assert.LessOrEqual(t, h.GetLocalDepth(i), gd)
	}
}
