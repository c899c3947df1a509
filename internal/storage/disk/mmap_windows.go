//go:build windows

package disk

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Adapted from the teacher's internal/storage/file/db_windows.go, in
// turn based on etcd-io/bbolt's bolt_windows.go.

func mmap(fm *FileManager, size int64) error {
	if fm.file == nil {
		return fmt.Errorf("mmap: nil file")
	}
	if size <= 0 {
		return fmt.Errorf("mmap: invalid size %d", size)
	}
	if size > maxMapSize {
		return fmt.Errorf("mmap: size %d exceeds max mapping size", size)
	}

	if err := fm.file.Truncate(size); err != nil {
		return fmt.Errorf("truncate to %d: %w", size, err)
	}

	sizehi := uint32(size >> 32)
	sizelo := uint32(size)
	h, err := syscall.CreateFileMapping(syscall.Handle(fm.file.Fd()), nil, syscall.PAGE_READWRITE, sizehi, sizelo, nil)
	if err != nil {
		return fmt.Errorf("create mapping: %w", err)
	}
	ptr, err := syscall.MapViewOfFile(h, syscall.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		syscall.CloseHandle(h)
		return fmt.Errorf("map view: %w", err)
	}
	syscall.CloseHandle(h)

	fm.data = (*[maxMapSize]byte)(unsafe.Pointer(ptr))[:size:size]
	fm.size = size
	return nil
}

func munmap(fm *FileManager) error {
	if fm.data == nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&fm.data[0]))
	if err := syscall.UnmapViewOfFile(addr); err != nil {
		return fmt.Errorf("unmap: %w", err)
	}
	fm.data = nil
	fm.size = 0
	return nil
}
