package parser

import (
	"errors"
	"io"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// Keep pages in a free list to avoid allocations.
type FreeList struct {
	mu       sync.Mutex
	pagesize int64

	freelist sync.Pool
}

func (self *FreeList) Get() []byte {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.freelist.Get().([]byte)
}

func (self *FreeList) Put(in []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.freelist.Put(in)
}

// This reader is needed for reading raw devices, which may only be
// read with whole sector alignment. It implements page aligned
// reading and keeps pages in an LRU cache to make repeated small
// field reads fast.
type PagedReader struct {
	mu sync.Mutex

	reader   io.ReaderAt
	pagesize int64
	cache    *lru.Cache
	freelist *FreeList

	Hits int64
	Miss int64
}

// ReadAt reads a buffer from an offset in the backing file.
//
// The following semantics are used:
//  1. Reading within the file will always fill the buffer completely
//     with n = len(buf) and err = nil
//  2. Reading a buffer that starts within the file and ends past the
//     file will also return a full buffer padded with zeros, n =
//     len(buf) and err = nil
//  3. Reading outside the bounds of the file will return n = 0 and
//     err = EOF
func (self *PagedReader) ReadAt(buf []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, io.EOF
	}

	self.mu.Lock()
	defer self.mu.Unlock()

	// If the read is very large and a multiple of pagesize, it is
	// faster to just delegate reading to the underlying reader.
	if len(buf) > 10*int(self.pagesize) && len(buf)%int(self.pagesize) == 0 {
		n, err := self.reader.ReadAt(buf, offset)

		// Reader returned some data but also EOF - coerce back to
		// the correct semantic.
		if n > 0 && errors.Is(err, io.EOF) {
			for i := n; i < len(buf); i++ {
				buf[i] = 0
			}
			return len(buf), nil
		}

		return n, err
	}

	buf_idx := 0
	for {
		// How much is left in this page to read?
		to_read := int(self.pagesize - offset%self.pagesize)

		// How much do we need to read into the buffer?
		if to_read > len(buf)-buf_idx {
			to_read = len(buf) - buf_idx
		}

		// Are we done?
		if to_read == 0 {
			return buf_idx, nil
		}

		var page_buf []byte

		page := offset - offset%self.pagesize
		cached_page_buf, pres := self.cache.Get(page)

		// Cache miss
		if !pres {
			self.Miss += 1
			DebugPrint("Cache miss for %x (%x) (%d)\n", page, self.pagesize,
				self.cache.Len())

			page_buf = self.freelist.Get()
			n, err := self.reader.ReadAt(page_buf, page)

			// A real read error
			if err != nil && err != io.EOF {
				// The page does not go into the LRU on read
				// errors, just return it to the freelist.
				self.freelist.Put(page_buf)
				return buf_idx, err
			}

			// Clear the rest of the page because it is going to
			// the lru.
			for i := n; i < int(self.pagesize); i++ {
				page_buf[i] = 0
			}

			// Only bother to cache pages with something in them.
			if n > 0 {
				self.cache.Add(page, page_buf)
			}

			// The entire read range is outside the bounds of the
			// file: fail with EOF. Ranges partially inside the
			// file are padded instead.
			if n == 0 && errors.Is(err, io.EOF) {
				if buf_idx == 0 {
					return 0, err
				}

				for i := buf_idx; i < len(buf); i++ {
					buf[i] = 0
				}
				return len(buf), nil
			}

			// Cache hit
		} else {
			self.Hits += 1
			page_buf = cached_page_buf.([]byte)
		}

		// Copy the relevant data from the page.
		page_offset := int(offset % self.pagesize)
		copy(buf[buf_idx:buf_idx+to_read],
			page_buf[page_offset:page_offset+to_read])

		offset += int64(to_read)
		buf_idx += to_read
	}
}

func (self *PagedReader) Flush() {
	self.cache.Purge()

	flusher, ok := self.reader.(Flusher)
	if ok {
		flusher.Flush()
	}
}

func NewPagedReader(reader io.ReaderAt, pagesize int64, cache_size int) (*PagedReader, error) {
	DebugPrint("Creating cache of size %v\n", cache_size)

	self := &PagedReader{
		reader:   reader,
		pagesize: pagesize,
		freelist: &FreeList{
			pagesize: pagesize,
			freelist: sync.Pool{
				New: func() interface{} {
					return make([]byte, pagesize)
				},
			},
		},
	}

	cache, err := lru.NewWithEvict(cache_size,
		func(key interface{}, value interface{}) {
			// Put the page back on the free list.
			self.freelist.Put(value.([]byte))
		})
	if err != nil {
		return nil, err
	}

	self.cache = cache

	return self, nil
}

// Invalidate the disk cache
type Flusher interface {
	Flush()
}

// Expose a volume embedded at an offset inside a larger image.
type OffsetReader struct {
	Offset int64
	Reader io.ReaderAt
}

func (self *OffsetReader) ReadAt(buf []byte, offset int64) (int, error) {
	return self.Reader.ReadAt(buf, offset+self.Offset)
}

// A reader that always returns zeros.
type NullReader struct{}

func (self *NullReader) ReadAt(buf []byte, offset int64) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf), nil
}
