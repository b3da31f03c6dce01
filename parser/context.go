package parser

import (
	"errors"
	"io"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// NTFSContext ties one volume reader to the geometry and the decoded
// $MFT run list. After Bootstrap the run list is immutable for the
// context's lifetime. ReadRecordNoCache hands out entries with fresh
// buffers owned by the caller; GetMFT hands out the entries retained
// in the context's record cache, so callers asking for the same index
// share one entry.
type NTFSContext struct {
	// The reader over the volume. All access is through absolute
	// positioned reads.
	DiskReader io.ReaderAt

	Boot *NTFS_BOOT_SECTOR

	ClusterSize int64
	RecordSize  int64

	// Reader over the $MFT $DATA stream, built by the bootstrap.
	mft_reader *RunReader

	mu      sync.Mutex
	options Options

	record_cache *lru.Cache
}

func newNTFSContext(image io.ReaderAt) *NTFSContext {
	STATS.Inc_NTFSContext()
	return &NTFSContext{
		DiskReader: image,
		options:    GetDefaultOptions(),
	}
}

// GetNTFSContext opens the volume found at offset inside image and
// bootstraps the MFT. Any failure here - boot sector, record 0, its
// $DATA run list - is fatal to the whole inspection.
func GetNTFSContext(image io.ReaderAt, offset int64) (*NTFSContext, error) {
	return GetNTFSContextWithOptions(image, offset, GetDefaultOptions())
}

func GetNTFSContextWithOptions(image io.ReaderAt, offset int64,
	options Options) (*NTFSContext, error) {
	ntfs := newNTFSContext(image)
	ntfs.options = options

	if offset != 0 {
		ntfs.DiskReader = &OffsetReader{Offset: offset, Reader: image}
	}

	boot, err := NewBootSector(ntfs.DiskReader, 0)
	if err != nil {
		return nil, err
	}

	ntfs.Boot = boot
	ntfs.ClusterSize = boot.ClusterSize()
	ntfs.RecordSize = boot.RecordSize()

	cache, err := lru.New(options.RecordCacheSize)
	if err != nil {
		return nil, err
	}
	ntfs.record_cache = cache

	err = ntfs.bootstrapMFT()
	if err != nil {
		return nil, err
	}

	return ntfs, nil
}

func (self *NTFSContext) SetOptions(options Options) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.options = options
}

func (self *NTFSContext) Options() Options {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.options
}

// The MFT is a table of records read from a stream which is itself
// the $DATA attribute of the first record:
//
//	MFT[0] -> Attr $DATA contains the entire $MFT stream.
//
// Therefore the MFT must be bootstrapped:
//  1. Read record 0 from the boot sector derived offset, using the
//     disk reader directly.
//  2. Apply fixups and find the $DATA attribute.
//  3. Decode its run list into a RunReader.
//  4. Read every further record through that reader.
func (self *NTFSContext) bootstrapMFT() error {
	buf := make([]byte, self.RecordSize)
	n, err := self.DiskReader.ReadAt(buf, self.Boot.MftOffset())
	if err != nil && err != io.EOF {
		return &IoError{Cause: err}
	}
	if int64(n) != self.RecordSize {
		return &IoError{Cause: ShortReadError}
	}

	err = ApplyFixups(buf, self.Boot.SectorSize(), 0)
	if err != nil {
		return err
	}

	root, err := NewMFTEntry(buf, 0)
	if err != nil {
		return err
	}

	data_attr, err := root.GetAttribute(ATTR_TYPE_DATA, 0)
	if err != nil {
		return errors.New("$DATA attribute not found for $MFT")
	}

	if data_attr.IsResident() {
		return errors.New("$MFT $DATA attribute is resident")
	}

	self.mft_reader, err = data_attr.RunReader(self)
	if err != nil {
		return err
	}

	self.record_cache.Add(int64(0), root)
	return nil
}

// The run reader over the $MFT's own $DATA stream.
func (self *NTFSContext) MftRunReader() *RunReader {
	return self.mft_reader
}

// Number of records the $MFT stream has room for.
func (self *NTFSContext) RecordCount() int64 {
	if self.mft_reader == nil {
		return 0
	}
	return self.mft_reader.Size() / self.RecordSize
}

// ReadRecordNoCache reads and fixes up one MFT record through the
// $MFT run list. The returned entry owns a fresh buffer. Per record
// damage (torn sectors, BAAD or INDX magic) is reported to the caller
// and does not poison the context.
func (self *NTFSContext) ReadRecordNoCache(id int64) (*MFT_ENTRY, error) {
	if self.mft_reader == nil {
		return nil, errors.New("context not bootstrapped")
	}

	buf := make([]byte, self.RecordSize)
	n, err := self.mft_reader.ReadAt(buf, id*self.RecordSize)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if int64(n) != self.RecordSize {
		return nil, &IoError{Cause: ShortReadError}
	}

	err = ApplyFixups(buf, self.Boot.SectorSize(), id)
	if err != nil {
		return nil, err
	}

	return NewMFTEntry(buf, id)
}

func (self *NTFSContext) Close() {
	if debug {
		DebugPrint("%s\n", STATS.DebugString())
	}
	self.Purge()
}

func (self *NTFSContext) Purge() {
	if self.record_cache != nil {
		self.record_cache.Purge()
	}

	flusher, ok := self.DiskReader.(Flusher)
	if ok {
		flusher.Flush()
	}
}
