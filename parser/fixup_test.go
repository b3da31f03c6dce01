package parser

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Build a raw record buffer with a known byte pattern, then stamp the
// update sequence over the sector tails like the volume would.
func patternedRecord() ([]byte, []byte) {
	buf := make([]byte, testRecordSize)
	for i := range buf {
		buf[i] = byte(i % 251)
	}

	copy(buf[0:4], []byte(record_magic_file))
	putU16(buf, 0x04, 0x30)
	putU16(buf, 0x06, 3)

	original := make([]byte, len(buf))
	copy(original, buf)

	stampFixups(buf)
	return buf, original
}

func TestFixupRestoresSectorTails(t *testing.T) {
	assert := assert.New(t)

	buf, original := patternedRecord()

	// On disk every sector now ends in the USN.
	for sector := 0; sector < 2; sector++ {
		tail := (sector+1)*testSectorSize - 2
		assert.Equal(testUSN, binary.LittleEndian.Uint16(buf[tail:]))
	}

	err := ApplyFixups(buf, testSectorSize, 7)
	assert.NoError(err)

	// The patched buffer equals the pre stamp content, except for
	// the fixup array itself.
	assert.Equal(original[0x36:], buf[0x36:])

	// And each sector tail equals the parked replacement word.
	for sector := 0; sector < 2; sector++ {
		tail := (sector+1)*testSectorSize - 2
		assert.Equal(
			binary.LittleEndian.Uint16(buf[0x32+sector*2:]),
			binary.LittleEndian.Uint16(buf[tail:]))
	}
}

// Fixups are only valid against the on disk image: a second
// application must fail because the tails no longer hold the USN.
func TestFixupIsNotReapplicable(t *testing.T) {
	buf, _ := patternedRecord()

	assert.NoError(t, ApplyFixups(buf, testSectorSize, 7))

	err := ApplyFixups(buf, testSectorSize, 7)
	mismatch, ok := err.(*FixupMismatch)
	assert.True(t, ok)
	assert.Equal(t, int64(7), mismatch.Record)
}

func TestFixupDetectsTornSector(t *testing.T) {
	buf, _ := patternedRecord()

	// Corrupt the second sector's tail.
	putU16(buf, 2*testSectorSize-2, testUSN+1)

	err := ApplyFixups(buf, testSectorSize, 9)
	mismatch, ok := err.(*FixupMismatch)
	assert.True(t, ok)
	assert.Equal(t, int64(9), mismatch.Record)
	assert.Equal(t, 1, mismatch.Sector)
}

func TestFixupArrayBounds(t *testing.T) {
	buf, _ := patternedRecord()

	// An array running past the buffer is rejected.
	putU16(buf, 0x04, testRecordSize-2)
	putU16(buf, 0x06, 3)

	err := ApplyFixups(buf, testSectorSize, 0)
	assert.Error(t, err)
}

func TestFixupNoSectors(t *testing.T) {
	buf := make([]byte, testRecordSize)

	// A zero fixup count means nothing to patch.
	assert.NoError(t, ApplyFixups(buf, testSectorSize, 0))
}
