package parser

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBootstrap(t *testing.T) {
	assert := assert.New(t)

	ntfs, err := GetNTFSContext(testImageReader(), 0)
	assert.NoError(err)
	defer ntfs.Close()

	assert.Equal(int64(4096), ntfs.ClusterSize)
	assert.Equal(int64(1024), ntfs.RecordSize)
	assert.Equal(int64(65536), ntfs.MftRunReader().Size())
	assert.Equal(int64(64), ntfs.RecordCount())
	assert.Equal([]Run{{LCN: 4, Length: 16}}, ntfs.MftRunReader().Runs())
}

func TestBootstrapFailsOnGarbage(t *testing.T) {
	image := make([]byte, testImageSize)

	_, err := GetNTFSContext(bytes.NewReader(image), 0)
	assert.Error(t, err)
	_, ok := err.(*BadBootSector)
	assert.True(t, ok)
}

// The volume embedded at an offset inside a larger image.
func TestBootstrapAtOffset(t *testing.T) {
	assert := assert.New(t)

	image := append(make([]byte, 4096), buildTestImage()...)

	ntfs, err := GetNTFSContext(bytes.NewReader(image), 4096)
	assert.NoError(err)

	entry, err := ntfs.GetMFT(2)
	assert.NoError(err)
	assert.Equal("hello.txt", entry.Name())
}

// Records are fetched through the $MFT's own $DATA runs.
func TestReadRecordByIndex(t *testing.T) {
	assert := assert.New(t)

	ntfs, err := GetNTFSContext(testImageReader(), 0)
	assert.NoError(err)

	entry, err := ntfs.GetMFT(1)
	assert.NoError(err)
	assert.Equal(uint32(1), entry.Record_number())
	assert.Equal("$MFTMirr", entry.Name())
	assert.True(entry.IsBaseRecord())

	entry, err = ntfs.GetMFT(6)
	assert.NoError(err)
	assert.True(entry.IsDirectory())
}

// S6: a torn record is reported but does not poison the reader.
func TestDamagedRecordsAreIsolated(t *testing.T) {
	assert := assert.New(t)

	ntfs, err := GetNTFSContext(testImageReader(), 0)
	assert.NoError(err)

	_, err = ntfs.GetMFT(3)
	mismatch, ok := err.(*FixupMismatch)
	assert.True(ok)
	assert.Equal(int64(3), mismatch.Record)
	assert.Equal(1, mismatch.Sector)

	_, err = ntfs.GetMFT(4)
	_, ok = err.(*NotAFileRecord)
	assert.True(ok)

	_, err = ntfs.GetMFT(5)
	_, ok = err.(*DamagedRecord)
	assert.True(ok)

	// The context still serves later records.
	entry, err := ntfs.GetMFT(6)
	assert.NoError(err)
	assert.Equal("somedir", entry.Name())
}

// A free slot reads back as zeros and fails the magic check.
func TestFreeRecord(t *testing.T) {
	ntfs, err := GetNTFSContext(testImageReader(), 0)
	assert.NoError(t, err)

	_, err = ntfs.GetMFT(60)
	bad, ok := err.(*BadMagic)
	assert.True(t, ok)
	assert.Equal(t, "\x00\x00\x00\x00", bad.Found)
}

func TestRecordCache(t *testing.T) {
	assert := assert.New(t)

	ntfs, err := GetNTFSContext(testImageReader(), 0)
	assert.NoError(err)

	first, err := ntfs.GetMFT(2)
	assert.NoError(err)

	second, err := ntfs.GetMFT(2)
	assert.NoError(err)

	// Same fixed up entry, not a re-read.
	assert.True(first == second)

	// An uncached read produces a distinct buffer with equal
	// content.
	fresh, err := ntfs.ReadRecordNoCache(2)
	assert.NoError(err)
	assert.False(first == fresh)
	assert.Equal(first.data, fresh.data)
}

// Reading a non resident stream of an ordinary file goes through the
// same RunReader machinery as the MFT itself.
func TestMirrorStream(t *testing.T) {
	assert := assert.New(t)

	image := buildTestImage()
	ntfs, err := GetNTFSContext(bytes.NewReader(image), 0)
	assert.NoError(err)

	entry, err := ntfs.GetMFT(1)
	assert.NoError(err)

	attr, err := entry.GetAttribute(ATTR_TYPE_DATA, 0)
	assert.NoError(err)

	reader, err := attr.Data(ntfs)
	assert.NoError(err)

	buf := make([]byte, testClusterSize)
	n, err := reader.ReadAt(buf, 0)
	if err != nil {
		assert.Equal(io.EOF, err)
	}
	assert.Equal(testClusterSize, n)
	assert.Equal(
		image[testMirrCluster*testClusterSize:(testMirrCluster+1)*testClusterSize],
		buf)
}
