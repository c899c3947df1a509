package page

import (
	"github.com/cairndb/pagecache/internal/common"
)

// CreateTestPage builds a page stamped with pageID and the given
// payload, truncating data that overflows the fixed payload size.
func CreateTestPage(pageID common.PageID, data []byte) *Page {
	p := &Page{Header: Header{PageID: pageID}}
	if len(data) > len(p.Data) {
		data = data[:len(p.Data)]
	}
	copy(p.Data[:], data)
	return p
}
