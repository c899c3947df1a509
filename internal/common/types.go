// Package common holds the identifiers and sentinel errors shared by
// every storage layer package, mirroring the teacher's internal/utils
// package that every other package in this tree used to import.
package common

// PageID is a logical page identifier, monotonically allocated by the
// disk manager (disk.Manager.AllocatePage) and never reused within a
// process lifetime.
type PageID int64

// InvalidPageID is the sentinel denoting an empty frame.
const InvalidPageID PageID = -1

// FrameID is the dense index of a frame within the pool array.
type FrameID int

// PageSize is the fixed size, in bytes, of a serialized page: header
// plus payload.
const PageSize = 4096

// Timestamp is a logical access counter used by the LRU-K replacer; it
// has no relation to wall-clock time.
type Timestamp uint64
