//go:build unix || linux || darwin || freebsd || openbsd || netbsd

package disk

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mmap grows the file to size and maps it, following the pattern the
// pack's tur pager uses for its Unix mmap file.
func mmap(fm *FileManager, size int64) error {
	if fm.file == nil {
		return fmt.Errorf("mmap: nil file")
	}
	if size <= 0 {
		return fmt.Errorf("mmap: invalid size %d", size)
	}

	if err := fm.file.Truncate(size); err != nil {
		return fmt.Errorf("truncate to %d: %w", size, err)
	}

	data, err := unix.Mmap(int(fm.file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}

	fm.data = data
	fm.size = size
	return nil
}

// munmap flushes and unmaps the current mapping.
func munmap(fm *FileManager) error {
	if fm.data == nil {
		return nil
	}
	if err := unix.Msync(fm.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync: %w", err)
	}
	if err := unix.Munmap(fm.data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	fm.data = nil
	fm.size = 0
	return nil
}
