package wal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendRecordMintsIncreasingLSNs(t *testing.T) {
	lm := NewInMemoryLogManager(nil)

	a := lm.AppendRecord(0)
	b := lm.AppendRecord(0)

	assert.Less(t, a, b)
	assert.Equal(t, LSN(0), lm.GetFlushedLSN())
}

func TestFlushAdvancesFlushedLSN(t *testing.T) {
	lm := NewInMemoryLogManager(nil)

	lsn := lm.AppendRecord(0)
	flushed := lm.Flush()

	assert.Equal(t, lsn, flushed)
	assert.Equal(t, lsn, lm.GetFlushedLSN())
}

func TestAppendRecordWithExplicitLSNDoesNotRegress(t *testing.T) {
	lm := NewInMemoryLogManager(nil)

	lm.AppendRecord(10)
	got := lm.AppendRecord(5)

	assert.Equal(t, LSN(5), got)
	assert.Equal(t, LSN(10), LSN(lm.nextLSN.Load()))
}
