package disk

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/cairndb/pagecache/internal/common"
	"github.com/cairndb/pagecache/internal/storage/page"
	"github.com/sirupsen/logrus"
)

// maxMapSize bounds how large the memory mapping is allowed to grow,
// the same safety valve the teacher's FileManager enforced.
const maxMapSize = 1 << 34 // 16 GiB

// FileManager is a single-file, memory-mapped DiskManager. It is the
// teacher's internal/storage/file.FileManager generalized off
// Windows-only syscalls onto a Unix/Windows split (mmap_unix.go /
// mmap_windows.go), with AllocatePage/DeallocatePage added to satisfy
// the full DiskManager contract.
type FileManager struct {
	mu   sync.Mutex
	file *os.File
	data []byte
	size int64

	nextPageID atomic.Int64
	log        *logrus.Logger
}

// NewFileManager opens (or creates) path and maps at least
// initialPages worth of space into memory.
func NewFileManager(path string, initialPages int, log *logrus.Logger) (*FileManager, error) {
	if initialPages <= 0 {
		return nil, common.ErrInvalidInitialSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	initialSize := int64(initialPages) * int64(common.PageSize)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > initialSize {
		initialSize = info.Size()
	}

	fm := &FileManager{file: f, log: log}
	if err := mmap(fm, initialSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("map file: %w", err)
	}

	fm.nextPageID.Store(int64(fm.size) / int64(common.PageSize))
	return fm, nil
}

// ReadPage reads the page stored at id's offset.
func (fm *FileManager) ReadPage(id common.PageID) (*page.Page, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	offset := int64(id) * int64(common.PageSize)
	if offset < 0 || offset+int64(common.PageSize) > fm.size {
		return nil, common.ErrPageOutOfBounds
	}

	p, err := page.Deserialize(fm.data[offset : offset+int64(common.PageSize)])
	if err != nil {
		return nil, fmt.Errorf("deserialize page %d: %w", id, err)
	}
	return p, nil
}

// WritePage persists p's bytes at its own page id's offset, growing
// the mapping if necessary.
func (fm *FileManager) WritePage(p *page.Page) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	offset := int64(p.Header.PageID) * int64(common.PageSize)
	if offset+int64(common.PageSize) > fm.size {
		newSize := max(fm.size*2, offset+int64(common.PageSize))
		if newSize > maxMapSize {
			return common.ErrMaxMapSizeExceeded
		}
		oldSize := fm.size
		if err := munmap(fm); err != nil {
			return fmt.Errorf("unmap for grow: %w", err)
		}
		if err := mmap(fm, newSize); err != nil {
			return fmt.Errorf("remap after grow: %w", err)
		}
		fm.log.WithFields(logrus.Fields{"old_size": oldSize, "new_size": newSize}).Debug("disk: grew mapping")
	}

	copy(fm.data[offset:], p.Serialize())
	return nil
}

// AllocatePage mints a fresh, never-reused page id.
func (fm *FileManager) AllocatePage() (common.PageID, error) {
	id := fm.nextPageID.Add(1) - 1
	return common.PageID(id), nil
}

// DeallocatePage is bookkeeping only in this reference implementation;
// it neither shrinks the file nor zeroes the freed slot.
func (fm *FileManager) DeallocatePage(id common.PageID) error {
	fm.log.WithField("page_id", id).Debug("disk: deallocate page")
	return nil
}

// Close unmaps and closes the backing file.
func (fm *FileManager) Close() error {
	if fm == nil {
		return nil
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()

	var err error
	if unmapErr := munmap(fm); unmapErr != nil {
		err = fmt.Errorf("unmap: %w", unmapErr)
	}
	if fm.file != nil {
		if e := fm.file.Sync(); e != nil {
			err = errors.Join(err, fmt.Errorf("sync: %w", e))
		}
		if e := fm.file.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", e))
		}
		fm.file = nil
	}
	return err
}
