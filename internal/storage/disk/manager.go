// Package disk implements the DiskManager contract that the buffer
// pool treats as a byte-level black box: durable reads, writes, and
// logical page-id lifecycle management.
package disk

import (
	"github.com/cairndb/pagecache/internal/common"
	"github.com/cairndb/pagecache/internal/storage/page"
)

// Manager is the persistent block I/O contract consumed by the buffer
// pool manager. Implementations surface failures unmodified; callers
// never retry at this layer.
type Manager interface {
	// ReadPage fills the returned page with the bytes stored for id.
	ReadPage(id common.PageID) (*page.Page, error)
	// WritePage persists p's current bytes under its own page id.
	WritePage(p *page.Page) error
	// AllocatePage mints a fresh page id, never reused within the
	// manager's lifetime.
	AllocatePage() (common.PageID, error)
	// DeallocatePage releases the on-disk slot for id. The reference
	// implementation treats this as bookkeeping only; it does not
	// reclaim or zero the backing bytes.
	DeallocatePage(id common.PageID) error
	// Close releases the underlying file handle and mapping.
	Close() error
}
