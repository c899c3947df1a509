// Package replacer picks eviction victims among the buffer pool's
// unpinned frames. Replacer is defined as an interface so the LRU-K
// policy can be swapped for another behind the same contract; this
// package ships LRUKReplacer and ClockReplacer.
package replacer

import "github.com/cairndb/pagecache/internal/common"

// Replacer tracks, per frame, whether it is currently a candidate for
// eviction and picks the next victim under some policy.
type Replacer interface {
	// RecordAccess notes that frameID was just accessed. Creates the
	// frame's tracking slot if absent; newly created slots are not
	// evictable until SetEvictable says otherwise.
	RecordAccess(frameID common.FrameID)
	// SetEvictable toggles whether frameID may be chosen by Evict.
	// Calling it on a frame with no tracking slot is a programming
	// error.
	SetEvictable(frameID common.FrameID, evictable bool)
	// Evict selects and removes the best eviction victim among
	// currently evictable frames, reporting false if none qualify.
	Evict() (common.FrameID, bool)
	// Remove forcibly drops frameID's tracking slot. Removing a frame
	// that is not evictable is a programming error.
	Remove(frameID common.FrameID)
	// Size reports the number of currently evictable frames.
	Size() int
}

var (
	_ Replacer = (*LRUKReplacer)(nil)
	_ Replacer = (*ClockReplacer)(nil)
)
