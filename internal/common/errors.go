package common

import "errors"

var (
	ErrInvalidPoolSize    = errors.New("invalid pool size")
	ErrInvalidInitialSize = errors.New("initial size must be positive")
	ErrMaxMapSizeExceeded = errors.New("initial size exceeds maximum mapping size")
	ErrPageOutOfBounds    = errors.New("page offset out of bounds")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrFileManagerNil     = errors.New("file manager is nil")
	ErrNoFreeFrame        = errors.New("no free frame and no evictable frame")
	ErrFrameOutOfBounds   = errors.New("frame index out of bound")
	ErrPageNotResident    = errors.New("page is not resident in the buffer pool")
	ErrPageStillPinned    = errors.New("page is pinned and cannot be deleted")
)
