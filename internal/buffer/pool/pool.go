// Package pool implements the buffer pool manager: the fixed-size
// frame array that mediates all page access between callers and disk,
// coordinating the free list, the LRU-K replacer, and the extendible
// hash table backing its page table.
package pool

import (
	"fmt"
	"sync"

	"github.com/cairndb/pagecache/internal/buffer/replacer"
	"github.com/cairndb/pagecache/internal/common"
	"github.com/cairndb/pagecache/internal/container/hashtable"
	"github.com/cairndb/pagecache/internal/storage/disk"
	"github.com/cairndb/pagecache/internal/storage/page"
	"github.com/cairndb/pagecache/internal/storage/wal"
	"github.com/sirupsen/logrus"
)

// pageIDHash is the PageID -> uint64 identity hash the page table's
// extendible hash table is instantiated with; Go has no std::hash<K>
// to fall back on.
func pageIDHash(id common.PageID) uint64 { return uint64(id) }

// BufferPoolManager owns a fixed array of frames and mediates all page
// I/O: pinning, eviction, dirty writeback, and logical page
// allocation/deallocation. One coarse mutex covers the frame metadata,
// free list, and replacer state; the hash table serializes its own
// directory and bucket mutation beneath it (BPM-lock -> hash-table
// locks, never the reverse).
type BufferPoolManager struct {
	mu sync.Mutex

	poolSize int
	frames   []*page.Page
	pinCount []int32
	dirty    []bool
	resident []common.PageID // frame -> resident page id, InvalidPageID if empty

	freeList  []common.FrameID
	pageTable *hashtable.ExtendibleHashTable[common.PageID, common.FrameID]
	replacer  replacer.Replacer

	disk disk.Manager
	wal  wal.LogManager
	log  *logrus.Logger
}

// New builds a buffer pool manager with poolSize frames and an LRU-K
// replacer of history depth k, backed by diskMgr. logManager may be
// nil, in which case the write-ahead gate on flush is skipped.
func New(poolSize, k int, diskMgr disk.Manager, logManager wal.LogManager, log *logrus.Logger) *BufferPoolManager {
	if poolSize <= 0 {
		panic(common.ErrInvalidPoolSize)
	}
	if diskMgr == nil {
		panic("pool: disk manager must not be nil")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	bp := &BufferPoolManager{
		poolSize:  poolSize,
		frames:    make([]*page.Page, poolSize),
		pinCount:  make([]int32, poolSize),
		dirty:     make([]bool, poolSize),
		resident:  make([]common.PageID, poolSize),
		freeList:  make([]common.FrameID, poolSize),
		pageTable: hashtable.New[common.PageID, common.FrameID](4, pageIDHash),
		replacer:  replacer.NewLRUKReplacer(poolSize, k, log),
		disk:      diskMgr,
		wal:       logManager,
		log:       log,
	}
	for i := 0; i < poolSize; i++ {
		bp.resident[i] = common.InvalidPageID
		bp.freeList[i] = common.FrameID(i)
	}
	return bp
}

// acquireFrame resolves "give me an empty frame": pop the free list,
// or ask the replacer to evict. On eviction it writes back a dirty
// outgoing page and removes it from the page table before the frame
// is handed to the caller.
func (bp *BufferPoolManager) acquireFrame() (common.FrameID, error) {
	if n := len(bp.freeList); n > 0 {
		frameID := bp.freeList[n-1]
		bp.freeList = bp.freeList[:n-1]
		return frameID, nil
	}

	frameID, ok := bp.replacer.Evict()
	if !ok {
		return 0, common.ErrNoFreeFrame
	}

	outgoing := bp.resident[frameID]
	if bp.dirty[frameID] {
		if err := bp.writeBack(bp.frames[frameID]); err != nil {
			return 0, fmt.Errorf("writeback evicted page %d: %w", outgoing, err)
		}
	}
	bp.pageTable.Remove(outgoing)
	bp.resident[frameID] = common.InvalidPageID
	bp.dirty[frameID] = false

	bp.log.WithFields(logrus.Fields{"frame_id": frameID, "evicted_page_id": outgoing}).Debug("pool: evicted frame")
	return frameID, nil
}

// writeBack persists p, first forcing the log to catch up if p's LSN
// is newer than what is durably flushed. When no LogManager is
// configured the gate is skipped entirely.
func (bp *BufferPoolManager) writeBack(p *page.Page) error {
	if bp.wal != nil && wal.LSN(p.Header.LSN) > bp.wal.GetFlushedLSN() {
		bp.wal.Flush()
	}
	return bp.disk.WritePage(p)
}

// NewPage allocates a fresh page id, pins it in a newly acquired
// frame, and returns its page. Fails with ErrNoFreeFrame if no frame
// could be acquired.
func (bp *BufferPoolManager) NewPage() (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, err := bp.acquireFrame()
	if err != nil {
		return nil, err
	}

	pid, err := bp.disk.AllocatePage()
	if err != nil {
		bp.freeList = append(bp.freeList, frameID)
		return nil, fmt.Errorf("allocate page: %w", err)
	}

	p := page.New(pid)
	bp.frames[frameID] = p
	bp.resident[frameID] = pid
	bp.pinCount[frameID] = 1
	bp.dirty[frameID] = false
	bp.pageTable.Insert(pid, frameID)

	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)

	bp.log.WithFields(logrus.Fields{"page_id": pid, "frame_id": frameID}).Debug("pool: new page")
	return p, nil
}

// FetchPage returns the pinned page for pid, reading it from disk on
// a miss. Fails with ErrNoFreeFrame if no frame could be acquired.
func (bp *BufferPoolManager) FetchPage(pid common.PageID) (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if frameID, ok := bp.pageTable.Find(pid); ok {
		if bp.pinCount[frameID] == 0 {
			bp.replacer.SetEvictable(frameID, false)
		}
		bp.pinCount[frameID]++
		bp.replacer.RecordAccess(frameID)
		return bp.frames[frameID], nil
	}

	frameID, err := bp.acquireFrame()
	if err != nil {
		return nil, err
	}

	p, err := bp.disk.ReadPage(pid)
	if err != nil {
		bp.freeList = append(bp.freeList, frameID)
		return nil, fmt.Errorf("read page %d: %w", pid, err)
	}

	bp.frames[frameID] = p
	bp.resident[frameID] = pid
	bp.pinCount[frameID] = 1
	bp.dirty[frameID] = false
	bp.pageTable.Insert(pid, frameID)

	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)

	bp.log.WithFields(logrus.Fields{"page_id": pid, "frame_id": frameID}).Debug("pool: fetch miss")
	return p, nil
}

// UnpinPage decrements pid's pin count, marking the frame evictable
// once it reaches zero. isDirty is combined with the frame's existing
// dirty flag by logical OR: a clean unpin never clears a page that
// some earlier unpin already marked dirty. When a LogManager is
// configured, a dirty unpin also mints a fresh LSN for the page, so
// the write-ahead gate in writeBack has something real to check
// against later.
func (bp *BufferPoolManager) UnpinPage(pid common.PageID, isDirty bool) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable.Find(pid)
	if !ok || bp.pinCount[frameID] == 0 {
		return false
	}

	bp.pinCount[frameID]--
	if bp.pinCount[frameID] == 0 {
		bp.replacer.SetEvictable(frameID, true)
	}
	if isDirty {
		bp.dirty[frameID] = true
		if bp.wal != nil {
			bp.frames[frameID].Header.LSN = uint64(bp.wal.AppendRecord(0))
		}
	}
	return true
}

// FlushPage writes pid's frame to disk and clears its dirty flag,
// regardless of pin state. Returns false if pid is not resident.
func (bp *BufferPoolManager) FlushPage(pid common.PageID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable.Find(pid)
	if !ok {
		return false
	}
	return bp.flushFrame(frameID)
}

// flushFrame writes the frame's current bytes to disk and clears its
// dirty flag. Caller must hold bp.mu.
func (bp *BufferPoolManager) flushFrame(frameID common.FrameID) bool {
	if err := bp.writeBack(bp.frames[frameID]); err != nil {
		bp.log.WithError(err).WithField("frame_id", frameID).Error("pool: flush failed")
		return false
	}
	bp.dirty[frameID] = false
	bp.frames[frameID].Header.ClearDirtyFlag()
	return true
}

// FlushAllPages writes every resident page to disk.
func (bp *BufferPoolManager) FlushAllPages() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for frameID, pid := range bp.resident {
		if pid == common.InvalidPageID {
			continue
		}
		bp.flushFrame(common.FrameID(frameID))
	}
}

// DeletePage removes pid from the pool and disk. Returns true if pid
// was not resident (nothing to do) or was resident and unpinned (and
// is now deleted); returns false if pid is resident and pinned.
func (bp *BufferPoolManager) DeletePage(pid common.PageID) (bool, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable.Find(pid)
	if !ok {
		return true, nil
	}
	if bp.pinCount[frameID] > 0 {
		return false, nil
	}

	bp.pageTable.Remove(pid)
	// Remove only targets evictable frames; make this one evictable
	// immediately before removing it, since DeletePage's frame has
	// just become free rather than having been evicted normally.
	bp.replacer.SetEvictable(frameID, true)
	bp.replacer.Remove(frameID)

	bp.frames[frameID].Reset()
	bp.resident[frameID] = common.InvalidPageID
	bp.dirty[frameID] = false
	bp.freeList = append(bp.freeList, frameID)

	if err := bp.disk.DeallocatePage(pid); err != nil {
		return true, fmt.Errorf("deallocate page %d: %w", pid, err)
	}
	return true, nil
}
