package replacer

import (
	"fmt"

	"github.com/cairndb/pagecache/internal/common"
	"github.com/sirupsen/logrus"
)

// slot is a frame's access history: up to k timestamps, most-recent
// first, plus whether the frame currently may be evicted.
type slot struct {
	history   []common.Timestamp
	evictable bool
}

// kDistance returns the slot's backward K-distance at now, and
// whether it is finite (the slot holds k or more accesses).
func (s *slot) kDistance(now common.Timestamp, k int) (common.Timestamp, bool) {
	if len(s.history) < k {
		return 0, false
	}
	kth := s.history[k-1]
	return now - kth, true
}

// firstAccess is the slot's earliest recorded timestamp, used to
// break ties among frames with fewer than k accesses.
func (s *slot) firstAccess() common.Timestamp {
	return s.history[len(s.history)-1]
}

// LRUKReplacer evicts the evictable frame with the greatest backward
// K-distance, treating frames with fewer than k recorded accesses as
// having infinite distance and breaking ties among those by earliest
// first access (classic LRU).
//
// Size() counts only frames whose evictable flag is currently set via
// SetEvictable; a freshly recorded frame does not affect it, matching
// the resolved state machine (the original source increments its
// evictable counter both on first RecordAccess and on the first
// SetEvictable, double-counting the transition).
type LRUKReplacer struct {
	k          int
	numFrames  int
	slots      map[common.FrameID]*slot
	evictables int
	clock      common.Timestamp
	log        *logrus.Logger
}

// NewLRUKReplacer builds a replacer tracking up to numFrames frames
// with history depth k.
func NewLRUKReplacer(numFrames, k int, log *logrus.Logger) *LRUKReplacer {
	if numFrames <= 0 {
		panic(common.ErrInvalidPoolSize)
	}
	if k <= 0 {
		panic("replacer: k must be positive")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LRUKReplacer{
		k:         k,
		numFrames: numFrames,
		slots:     make(map[common.FrameID]*slot, numFrames),
		log:       log,
	}
}

func (r *LRUKReplacer) checkBounds(frameID common.FrameID) {
	if frameID < 0 || int(frameID) >= r.numFrames {
		panic(fmt.Sprintf("replacer: frame id %d out of bounds [0, %d)", frameID, r.numFrames))
	}
}

// RecordAccess pushes the current timestamp onto frameID's history,
// creating the slot (non-evictable) if this is its first access.
func (r *LRUKReplacer) RecordAccess(frameID common.FrameID) {
	r.checkBounds(frameID)
	r.clock++

	s, ok := r.slots[frameID]
	if !ok {
		s = &slot{}
		r.slots[frameID] = s
	}

	// Most-recent first; drop the oldest once at capacity k.
	s.history = append([]common.Timestamp{r.clock}, s.history...)
	if len(s.history) > r.k {
		s.history = s.history[:r.k]
	}
}

// SetEvictable toggles frameID's evictable flag, maintaining Size().
// Calling it on an unrecorded frame is a programming error.
func (r *LRUKReplacer) SetEvictable(frameID common.FrameID, evictable bool) {
	r.checkBounds(frameID)
	s, ok := r.slots[frameID]
	if !ok {
		panic(fmt.Sprintf("replacer: SetEvictable on untracked frame %d", frameID))
	}
	if s.evictable == evictable {
		return
	}
	s.evictable = evictable
	if evictable {
		r.evictables++
	} else {
		r.evictables--
	}
}

// Evict picks and removes the best victim: the evictable frame with
// fewer than k accesses whose first access is earliest, if any exist;
// otherwise the evictable frame with the largest backward K-distance.
func (r *LRUKReplacer) Evict() (common.FrameID, bool) {
	var (
		haveInfinite bool
		bestInfinite common.FrameID
		infiniteTs   common.Timestamp

		haveFinite bool
		bestFinite common.FrameID
		finiteDist common.Timestamp
	)

	for id, s := range r.slots {
		if !s.evictable {
			continue
		}
		dist, finite := s.kDistance(r.clock, r.k)
		if !finite {
			first := s.firstAccess()
			if !haveInfinite || first < infiniteTs {
				haveInfinite = true
				bestInfinite = id
				infiniteTs = first
			}
			continue
		}
		if !haveFinite || dist > finiteDist {
			haveFinite = true
			bestFinite = id
			finiteDist = dist
		}
	}

	var victim common.FrameID
	switch {
	case haveInfinite:
		victim = bestInfinite
	case haveFinite:
		victim = bestFinite
	default:
		return 0, false
	}

	delete(r.slots, victim)
	r.evictables--
	r.log.WithField("frame_id", victim).Debug("replacer: evict")
	return victim, true
}

// Remove forcibly drops frameID's tracking slot. The buffer pool must
// have already called SetEvictable(frameID, true) before invoking
// this, since removing a non-evictable frame is a programming error.
func (r *LRUKReplacer) Remove(frameID common.FrameID) {
	s, ok := r.slots[frameID]
	if !ok {
		return
	}
	if !s.evictable {
		panic(fmt.Sprintf("replacer: Remove on non-evictable frame %d", frameID))
	}
	delete(r.slots, frameID)
	r.evictables--
}

// Size reports the number of currently evictable frames.
func (r *LRUKReplacer) Size() int {
	return r.evictables
}
