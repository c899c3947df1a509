package replacer

import (
	"fmt"

	"github.com/cairndb/pagecache/internal/common"
	"github.com/sirupsen/logrus"
)

type clockSlot struct {
	present   bool
	evictable bool
	usageBit  bool
}

// ClockReplacer is an alternate Replacer implementation using the
// CLOCK approximation to LRU: a circular sweep over frames, giving any
// frame with its usage bit set one more pass before it becomes a
// victim. It satisfies the same Replacer contract as LRUKReplacer, so
// a buffer pool manager may use either behind the interface.
type ClockReplacer struct {
	numFrames  int
	frames     []clockSlot
	hand       int
	evictables int
	log        *logrus.Logger
}

// NewClockReplacer builds a CLOCK replacer tracking up to numFrames
// frames.
func NewClockReplacer(numFrames int, log *logrus.Logger) *ClockReplacer {
	if numFrames <= 0 {
		panic(common.ErrInvalidPoolSize)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ClockReplacer{
		numFrames: numFrames,
		frames:    make([]clockSlot, numFrames),
		log:       log,
	}
}

func (r *ClockReplacer) checkBounds(frameID common.FrameID) {
	if frameID < 0 || int(frameID) >= r.numFrames {
		panic(fmt.Sprintf("replacer: frame id %d out of bounds [0, %d)", frameID, r.numFrames))
	}
}

// RecordAccess sets frameID's usage bit, creating its slot
// (non-evictable) if this is its first access.
func (r *ClockReplacer) RecordAccess(frameID common.FrameID) {
	r.checkBounds(frameID)
	s := &r.frames[frameID]
	s.present = true
	s.usageBit = true
}

// SetEvictable toggles frameID's evictable flag. Calling it on a
// frame that has never been recorded is a programming error.
func (r *ClockReplacer) SetEvictable(frameID common.FrameID, evictable bool) {
	r.checkBounds(frameID)
	s := &r.frames[frameID]
	if !s.present {
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

// Evict sweeps the clock hand, giving any evictable frame with its
// usage bit set one more pass before clearing the bit and continuing.
// The first evictable frame found with its usage bit already clear is
// the victim.
func (r *ClockReplacer) Evict() (common.FrameID, bool) {
	if r.evictables == 0 {
		return 0, false
	}

	for steps := 0; steps < 2*r.numFrames; steps++ {
		idx := r.hand
		r.hand = (r.hand + 1) % r.numFrames

		s := &r.frames[idx]
		if !s.present || !s.evictable {
			continue
		}
		if s.usageBit {
			s.usageBit = false
			continue
		}

		*s = clockSlot{}
		r.evictables--
		victim := common.FrameID(idx)
		r.log.WithField("frame_id", victim).Debug("replacer: clock evict")
		return victim, true
	}

	return 0, false
}

// Remove forcibly drops frameID's slot. Removing a non-evictable frame
// is a programming error.
func (r *ClockReplacer) Remove(frameID common.FrameID) {
	r.checkBounds(frameID)
	s := &r.frames[frameID]
	if !s.present {
		return
	}
	if !s.evictable {
		panic(fmt.Sprintf("replacer: Remove on non-evictable frame %d", frameID))
	}
	*s = clockSlot{}
	r.evictables--
}

// Size reports the number of currently evictable frames.
func (r *ClockReplacer) Size() int {
	return r.evictables
}
