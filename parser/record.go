package parser

import (
	"encoding/binary"
	"fmt"
)

const (
	MAX_MFT_ENTRY_SIZE = 0x10000

	record_magic_file = "FILE"
	record_magic_baad = "BAAD"
	record_magic_indx = "INDX"
)

const (
	MFT_ENTRY_ALLOCATED = 1 << 0
	MFT_ENTRY_DIRECTORY = 1 << 1
)

// A 64 bit file reference: the low 48 bits index an MFT record, the
// high 16 bits carry the record's sequence number so stale references
// to reused records can be detected.
type FileReference uint64

func (self FileReference) RecordIndex() int64 {
	return int64(self & 0xFFFFFFFFFFFF)
}

func (self FileReference) SequenceNumber() uint16 {
	return uint16(self >> 48)
}

func MakeFileReference(record int64, seq uint16) FileReference {
	return FileReference(uint64(seq)<<48 | uint64(record)&0xFFFFFFFFFFFF)
}

func (self FileReference) String() string {
	return fmt.Sprintf("%d-%d", self.RecordIndex(), self.SequenceNumber())
}

// An MFT_ENTRY owns the mutable, fixed up buffer of one MFT record.
// All attribute views returned from it borrow this buffer and share
// its lifetime.
type MFT_ENTRY struct {
	data []byte

	// The index this record was requested as.
	record int64
}

// NewMFTEntry wraps a raw record buffer that has already had its
// fixups applied. The buffer is owned by the entry from here on.
func NewMFTEntry(data []byte, record int64) (*MFT_ENTRY, error) {
	STATS.Inc_MFT_ENTRY()

	if len(data) < 0x30 {
		return nil, EntryTooShortError
	}

	self := &MFT_ENTRY{data: data, record: record}

	switch self.Magic() {
	case record_magic_file:
	case record_magic_baad:
		return nil, &DamagedRecord{Record: record}
	case record_magic_indx:
		return nil, &NotAFileRecord{Record: record}
	default:
		return nil, &BadMagic{Record: record, Found: self.Magic()}
	}

	if self.Used_size() > self.Allocated_size() ||
		int(self.Used_size()) > len(data) {
		return nil, &BadAttribute{Record: record, Offset: 0x18}
	}

	attr_offset := int64(self.Attribute_offset())
	if attr_offset%8 != 0 || attr_offset < 0x30 ||
		attr_offset >= int64(len(data)) {
		return nil, &BadAttribute{Record: record, Offset: attr_offset}
	}

	return self, nil
}

func (self *MFT_ENTRY) Magic() string {
	return string(self.data[0:4])
}

func (self *MFT_ENTRY) Fixup_offset() uint16 {
	return binary.LittleEndian.Uint16(self.data[0x04:0x06])
}

func (self *MFT_ENTRY) Fixup_count() uint16 {
	return binary.LittleEndian.Uint16(self.data[0x06:0x08])
}

func (self *MFT_ENTRY) Logfile_sequence_number() uint64 {
	return binary.LittleEndian.Uint64(self.data[0x08:0x10])
}

func (self *MFT_ENTRY) Sequence_value() uint16 {
	return binary.LittleEndian.Uint16(self.data[0x10:0x12])
}

func (self *MFT_ENTRY) Link_count() uint16 {
	return binary.LittleEndian.Uint16(self.data[0x12:0x14])
}

func (self *MFT_ENTRY) Attribute_offset() uint16 {
	return binary.LittleEndian.Uint16(self.data[0x14:0x16])
}

func (self *MFT_ENTRY) Flags() uint16 {
	return binary.LittleEndian.Uint16(self.data[0x16:0x18])
}

func (self *MFT_ENTRY) IsAllocated() bool {
	return self.Flags()&MFT_ENTRY_ALLOCATED != 0
}

func (self *MFT_ENTRY) IsDirectory() bool {
	return self.Flags()&MFT_ENTRY_DIRECTORY != 0
}

func (self *MFT_ENTRY) Used_size() uint32 {
	return binary.LittleEndian.Uint32(self.data[0x18:0x1C])
}

func (self *MFT_ENTRY) Allocated_size() uint32 {
	return binary.LittleEndian.Uint32(self.data[0x1C:0x20])
}

func (self *MFT_ENTRY) Base_record_reference() FileReference {
	return FileReference(binary.LittleEndian.Uint64(self.data[0x20:0x28]))
}

// A base record carries a zero base reference; extension records
// point back at their base.
func (self *MFT_ENTRY) IsBaseRecord() bool {
	return self.Base_record_reference() == 0
}

func (self *MFT_ENTRY) Next_attribute_id() uint16 {
	return binary.LittleEndian.Uint16(self.data[0x28:0x2A])
}

func (self *MFT_ENTRY) Record_number() uint32 {
	return binary.LittleEndian.Uint32(self.data[0x2C:0x30])
}

// The index the record was read as, which for healthy volumes equals
// Record_number().
func (self *MFT_ENTRY) Index() int64 {
	return self.record
}

// The record's own (index, sequence) reference.
func (self *MFT_ENTRY) FileReference() FileReference {
	return MakeFileReference(int64(self.Record_number()), self.Sequence_value())
}

func (self *MFT_ENTRY) DebugString() string {
	result := fmt.Sprintf("struct MFT_ENTRY %d:\n", self.record)
	result += fmt.Sprintf("  Magic: %q\n", self.Magic())
	result += fmt.Sprintf("  Fixup_offset: %#0x\n", self.Fixup_offset())
	result += fmt.Sprintf("  Fixup_count: %#0x\n", self.Fixup_count())
	result += fmt.Sprintf("  Logfile_sequence_number: %#0x\n", self.Logfile_sequence_number())
	result += fmt.Sprintf("  Sequence_value: %#0x\n", self.Sequence_value())
	result += fmt.Sprintf("  Link_count: %#0x\n", self.Link_count())
	result += fmt.Sprintf("  Attribute_offset: %#0x\n", self.Attribute_offset())
	result += fmt.Sprintf("  Flags: %#0x\n", self.Flags())
	result += fmt.Sprintf("  Used_size: %#0x\n", self.Used_size())
	result += fmt.Sprintf("  Allocated_size: %#0x\n", self.Allocated_size())
	result += fmt.Sprintf("  Base_record_reference: %v\n", self.Base_record_reference())
	result += fmt.Sprintf("  Next_attribute_id: %#0x\n", self.Next_attribute_id())
	result += fmt.Sprintf("  Record_number: %#0x\n", self.Record_number())
	return result
}
