// Package page defines the fixed-size in-memory representation of a
// database page and its on-disk byte layout.
package page

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/cairndb/pagecache/internal/common"
)

// HeaderSize is the byte size of Header once serialized: PageID(8) +
// LSN(8) + Flags(2) + padding(2) + Checksum(4).
const HeaderSize = 24

const (
	flagDirty  uint16 = 1 << 0
	flagPinned uint16 = 1 << 1
)

// Header carries the metadata that rides alongside a page's payload.
type Header struct {
	PageID   common.PageID
	LSN      uint64
	Checksum uint32
	Flags    uint16
}

func (h *Header) IsDirty() bool  { return h.Flags&flagDirty != 0 }
func (h *Header) IsPinned() bool { return h.Flags&flagPinned != 0 }

func (h *Header) SetDirtyFlag()   { h.Flags |= flagDirty }
func (h *Header) ClearDirtyFlag() { h.Flags &^= flagDirty }

func (h *Header) SetPinnedFlag()   { h.Flags |= flagPinned }
func (h *Header) ClearPinnedFlag() { h.Flags &^= flagPinned }

// Page is the unit of storage moved between disk and a buffer frame.
type Page struct {
	Header Header
	Data   [common.PageSize - HeaderSize]byte
}

// New returns a zeroed page stamped with the given id.
func New(id common.PageID) *Page {
	return &Page{Header: Header{PageID: id}}
}

// Reset clears the payload and metadata in place, the way a frame is
// reinitialized before being reassigned to a new page id.
func (p *Page) Reset() {
	p.Header = Header{}
	for i := range p.Data {
		p.Data[i] = 0
	}
}

// pageChecksum computes the CRC32 over every byte of a serialized
// page except the checksum field itself (buf[20:24]): the page id,
// LSN, and flags in buf[0:20], plus the payload in buf[HeaderSize:].
// Covering the header catches corruption of PageID/LSN/Flags, not
// just the payload.
func pageChecksum(buf []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(buf[0:20])
	h.Write(buf[HeaderSize:])
	return h.Sum32()
}

// Serialize packs the page into a page-sized byte slice ready for
// DiskManager.WritePage. The checksum covers the header's identifying
// fields and the payload, not the checksum field itself.
func (p *Page) Serialize() []byte {
	buf := make([]byte, common.PageSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Header.PageID))
	binary.LittleEndian.PutUint64(buf[8:16], p.Header.LSN)
	binary.LittleEndian.PutUint16(buf[16:18], p.Header.Flags)
	copy(buf[HeaderSize:], p.Data[:])

	checksum := pageChecksum(buf)
	binary.LittleEndian.PutUint32(buf[20:24], checksum)
	return buf
}

// Deserialize unpacks a page-sized byte slice produced by Serialize,
// validating the stored checksum.
func Deserialize(data []byte) (*Page, error) {
	if len(data) != common.PageSize {
		return nil, common.ErrPageOutOfBounds
	}

	p := &Page{}
	p.Header.PageID = common.PageID(binary.LittleEndian.Uint64(data[0:8]))
	p.Header.LSN = binary.LittleEndian.Uint64(data[8:16])
	p.Header.Flags = binary.LittleEndian.Uint16(data[16:18])
	p.Header.Checksum = binary.LittleEndian.Uint32(data[20:24])
	copy(p.Data[:], data[HeaderSize:])

	if pageChecksum(data) != p.Header.Checksum {
		return nil, common.ErrChecksumMismatch
	}
	return p, nil
}
