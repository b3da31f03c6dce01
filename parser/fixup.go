package parser

import (
	"encoding/binary"
)

// Every multi sector record parks the real last two bytes of each
// sector in an update sequence array at the head of the record, and
// stamps the USN in their place. ApplyFixups verifies each sector
// tail against the USN and patches the real bytes back in. The
// operation mutates buf and must run before any attribute in the
// record is decoded.
//
// Applying fixups to an already fixed up buffer fails, because the
// sector tails no longer carry the USN.
func ApplyFixups(buf []byte, sector_size int64, record int64) error {
	if len(buf) < 8 {
		return EntryTooShortError
	}

	fixup_offset := int64(binary.LittleEndian.Uint16(buf[0x04:0x06]))
	fixup_count := int64(binary.LittleEndian.Uint16(buf[0x06:0x08]))

	// A count of 0 or 1 means there are no sector tails to patch.
	if fixup_count <= 1 {
		return nil
	}

	// The array is the USN followed by count-1 replacement words.
	if fixup_offset < 0 ||
		fixup_offset+fixup_count*2 > int64(len(buf)) {
		return &BadAttribute{Record: record, Offset: fixup_offset}
	}

	usn := binary.LittleEndian.Uint16(buf[fixup_offset : fixup_offset+2])

	for sector := 0; sector < int(fixup_count-1); sector++ {
		tail := int64(sector+1)*sector_size - 2
		if tail+2 > int64(len(buf)) {
			return &FixupMismatch{Record: record, Sector: sector}
		}

		if binary.LittleEndian.Uint16(buf[tail:tail+2]) != usn {
			return &FixupMismatch{Record: record, Sector: sector}
		}

		replacement := fixup_offset + int64(sector+1)*2
		buf[tail] = buf[replacement]
		buf[tail+1] = buf[replacement+1]
	}

	STATS.Inc_FixupApplied()
	return nil
}
