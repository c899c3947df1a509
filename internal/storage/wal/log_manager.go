// Package wal provides the write-ahead log hook surface the buffer
// pool consults before flushing a dirty page to disk. It does not
// implement crash recovery; it only tracks how far the log has been
// durably flushed so FlushPage/eviction can honor the write-ahead
// invariant (never persist a page whose LSN is newer than the log).
package wal

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// LSN identifies a position in the log. LSN(0) means "no log record
// has ever touched this page".
type LSN uint64

// LogManager is the subset of the log manager's surface the buffer
// pool depends on. A real implementation would also offer log
// shipping, checkpointing and recovery; those are out of scope here.
type LogManager interface {
	// AppendRecord records that lsn has been generated for a write,
	// returning the LSN assigned (callers that pass 0 get the next
	// one minted).
	AppendRecord(lsn LSN) LSN
	// Flush durably persists all records up to the most recently
	// appended LSN and returns it.
	Flush() LSN
	// GetFlushedLSN reports the highest LSN known to be durable.
	GetFlushedLSN() LSN
}

// InMemoryLogManager is a minimal LogManager: AppendRecord mints or
// records an LSN, Flush instantly "persists" everything appended so
// far. It exists to exercise the buffer pool's write-ahead gating
// without standing up a real log store.
type InMemoryLogManager struct {
	mu  sync.Mutex
	log *logrus.Logger

	nextLSN atomic.Uint64
	flushed atomic.Uint64
}

// NewInMemoryLogManager returns a LogManager with no records flushed.
func NewInMemoryLogManager(log *logrus.Logger) *InMemoryLogManager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &InMemoryLogManager{log: log}
}

// AppendRecord mints the next LSN when lsn is 0, otherwise advances
// the manager's high-water mark to lsn if it is newer.
func (m *InMemoryLogManager) AppendRecord(lsn LSN) LSN {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lsn == 0 {
		next := m.nextLSN.Add(1)
		return LSN(next)
	}
	for {
		cur := m.nextLSN.Load()
		if uint64(lsn) <= cur {
			return lsn
		}
		if m.nextLSN.CompareAndSwap(cur, uint64(lsn)) {
			return lsn
		}
	}
}

// Flush marks every appended record durable and returns the new
// flushed high-water mark.
func (m *InMemoryLogManager) Flush() LSN {
	flushed := LSN(m.nextLSN.Load())
	m.flushed.Store(uint64(flushed))
	m.log.WithField("flushed_lsn", flushed).Debug("wal: flush")
	return flushed
}

// GetFlushedLSN reports the highest durable LSN.
func (m *InMemoryLogManager) GetFlushedLSN() LSN {
	return LSN(m.flushed.Load())
}
