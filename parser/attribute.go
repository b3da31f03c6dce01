package parser

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

const (
	ATTR_TYPE_STANDARD_INFORMATION = 0x10
	ATTR_TYPE_ATTRIBUTE_LIST       = 0x20
	ATTR_TYPE_FILE_NAME            = 0x30
	ATTR_TYPE_OBJECT_ID            = 0x40
	ATTR_TYPE_SECURITY_DESCRIPTOR  = 0x50
	ATTR_TYPE_VOLUME_NAME          = 0x60
	ATTR_TYPE_VOLUME_INFORMATION   = 0x70
	ATTR_TYPE_DATA                 = 0x80
	ATTR_TYPE_INDEX_ROOT           = 0x90
	ATTR_TYPE_INDEX_ALLOCATION     = 0xA0
	ATTR_TYPE_BITMAP               = 0xB0
	ATTR_TYPE_REPARSE_POINT        = 0xC0
	ATTR_TYPE_EA_INFORMATION       = 0xD0
	ATTR_TYPE_EA                   = 0xE0
	ATTR_TYPE_LOGGED_UTILITY       = 0x100
	ATTR_TYPE_TERMINATOR           = 0xFFFFFFFF
)

type Enumeration struct {
	Value uint64
	Name  string
}

func (self Enumeration) DebugString() string {
	return fmt.Sprintf("%d (%s)", self.Value, self.Name)
}

func attrTypeName(value uint32) string {
	switch value {
	case ATTR_TYPE_STANDARD_INFORMATION:
		return "$STANDARD_INFORMATION"
	case ATTR_TYPE_ATTRIBUTE_LIST:
		return "$ATTRIBUTE_LIST"
	case ATTR_TYPE_FILE_NAME:
		return "$FILE_NAME"
	case ATTR_TYPE_OBJECT_ID:
		return "$OBJECT_ID"
	case ATTR_TYPE_SECURITY_DESCRIPTOR:
		return "$SECURITY_DESCRIPTOR"
	case ATTR_TYPE_VOLUME_NAME:
		return "$VOLUME_NAME"
	case ATTR_TYPE_VOLUME_INFORMATION:
		return "$VOLUME_INFORMATION"
	case ATTR_TYPE_DATA:
		return "$DATA"
	case ATTR_TYPE_INDEX_ROOT:
		return "$INDEX_ROOT"
	case ATTR_TYPE_INDEX_ALLOCATION:
		return "$INDEX_ALLOCATION"
	case ATTR_TYPE_BITMAP:
		return "$BITMAP"
	case ATTR_TYPE_REPARSE_POINT:
		return "$REPARSE_POINT"
	case ATTR_TYPE_EA_INFORMATION:
		return "$EA_INFORMATION"
	case ATTR_TYPE_EA:
		return "$EA"
	case ATTR_TYPE_LOGGED_UTILITY:
		return "$LOGGED_UTILITY_STREAM"
	}
	return "Unknown"
}

type EntryFlags uint16

const (
	ATTR_FLAG_COMPRESSED EntryFlags = 1 << 0
	ATTR_FLAG_ENCRYPTED  EntryFlags = 1 << 14
	ATTR_FLAG_SPARSE     EntryFlags = 1 << 15
)

func (self EntryFlags) IsCompressed() bool {
	return self&ATTR_FLAG_COMPRESSED != 0
}

func (self EntryFlags) IsEncrypted() bool {
	return self&ATTR_FLAG_ENCRYPTED != 0
}

func (self EntryFlags) IsSparse() bool {
	return self&ATTR_FLAG_SPARSE != 0
}

func (self EntryFlags) DebugString() string {
	names := []string{}

	if self.IsCompressed() {
		names = append(names, "COMPRESSED")
	}

	if self.IsEncrypted() {
		names = append(names, "ENCRYPTED")
	}

	if self.IsSparse() {
		names = append(names, "SPARSE")
	}

	return fmt.Sprintf("%d (%v)", uint16(self), strings.Join(names, ","))
}

// An NTFS_ATTRIBUTE is a view into its record's fixed up buffer. It
// shares the buffer's lifetime and never copies header bytes.
type NTFS_ATTRIBUTE struct {
	entry  *MFT_ENTRY
	offset int64
}

// EnumerateAttributes walks the attribute stream from the first
// attribute offset to the 0xFFFFFFFF terminator. Each step checks
// that the attribute length is positive, 8 byte aligned and keeps the
// cursor inside used_size. The number of attributes is derived from
// this walk alone - next_attribute_id is not a reliable count because
// ids are reused after deletion.
func (self *MFT_ENTRY) EnumerateAttributes() ([]*NTFS_ATTRIBUTE, error) {
	offset := int64(self.Attribute_offset())
	used_size := int64(self.Used_size())
	result := make([]*NTFS_ATTRIBUTE, 0, 16)

	for {
		if offset+4 > used_size {
			return nil, &BadAttribute{Record: self.record, Offset: offset}
		}

		type_id := binary.LittleEndian.Uint32(self.data[offset : offset+4])
		if type_id == ATTR_TYPE_TERMINATOR {
			return result, nil
		}

		if offset+8 > used_size {
			return nil, &BadAttribute{Record: self.record, Offset: offset}
		}

		length := int64(binary.LittleEndian.Uint32(self.data[offset+4 : offset+8]))
		if length <= 0 || length%8 != 0 || offset+length > used_size {
			return nil, &BadAttribute{Record: self.record, Offset: offset}
		}

		STATS.Inc_NTFS_ATTRIBUTE()
		result = append(result, &NTFS_ATTRIBUTE{entry: self, offset: offset})

		offset += length
	}
}

// GetAttribute returns the attribute of the given type, and id if id
// is > 0.
func (self *MFT_ENTRY) GetAttribute(attr_type uint32, id int64) (
	*NTFS_ATTRIBUTE, error) {
	attrs, err := self.EnumerateAttributes()
	if err != nil {
		return nil, err
	}

	for _, attr := range attrs {
		if attr.TypeId() == attr_type &&
			(id <= 0 || int64(attr.Attribute_id()) == id) {
			return attr, nil
		}
	}

	return nil, fmt.Errorf("record %d: no attribute of type %#x",
		self.record, attr_type)
}

func (self *NTFS_ATTRIBUTE) field16(off int64) uint16 {
	return binary.LittleEndian.Uint16(self.entry.data[self.offset+off:])
}

func (self *NTFS_ATTRIBUTE) field32(off int64) uint32 {
	return binary.LittleEndian.Uint32(self.entry.data[self.offset+off:])
}

func (self *NTFS_ATTRIBUTE) field64(off int64) uint64 {
	return binary.LittleEndian.Uint64(self.entry.data[self.offset+off:])
}

func (self *NTFS_ATTRIBUTE) TypeId() uint32 {
	return self.field32(0)
}

func (self *NTFS_ATTRIBUTE) Type() Enumeration {
	value := self.TypeId()
	return Enumeration{Value: uint64(value), Name: attrTypeName(value)}
}

func (self *NTFS_ATTRIBUTE) Length() uint32 {
	return self.field32(4)
}

func (self *NTFS_ATTRIBUTE) IsResident() bool {
	return self.entry.data[self.offset+8] == 0
}

func (self *NTFS_ATTRIBUTE) name_length() byte {
	return self.entry.data[self.offset+9]
}

func (self *NTFS_ATTRIBUTE) name_offset() uint16 {
	return self.field16(10)
}

func (self *NTFS_ATTRIBUTE) Flags() EntryFlags {
	return EntryFlags(self.field16(12))
}

func (self *NTFS_ATTRIBUTE) Attribute_id() uint16 {
	return self.field16(14)
}

// Resident extension.

func (self *NTFS_ATTRIBUTE) Content_size() uint32 {
	return self.field32(16)
}

func (self *NTFS_ATTRIBUTE) Content_offset() uint16 {
	return self.field16(20)
}

// Non resident extension.

func (self *NTFS_ATTRIBUTE) Runlist_vcn_start() uint64 {
	return self.field64(16)
}

func (self *NTFS_ATTRIBUTE) Runlist_vcn_end() uint64 {
	return self.field64(24)
}

func (self *NTFS_ATTRIBUTE) Runlist_offset() uint16 {
	return self.field16(32)
}

func (self *NTFS_ATTRIBUTE) Compression_unit_size() uint16 {
	return self.field16(34)
}

func (self *NTFS_ATTRIBUTE) Allocated_size() uint64 {
	return self.field64(40)
}

func (self *NTFS_ATTRIBUTE) Actual_size() uint64 {
	return self.field64(48)
}

func (self *NTFS_ATTRIBUTE) Initialized_size() uint64 {
	return self.field64(56)
}

func (self *NTFS_ATTRIBUTE) Name() string {
	length := int64(self.name_length()) * 2
	if length == 0 {
		return ""
	}

	start := self.offset + int64(self.name_offset())
	if start+length > int64(len(self.entry.data)) {
		return ""
	}

	return ParseUTF16String(self.entry.data[start : start+length])
}

func (self *NTFS_ATTRIBUTE) DataSize() int64 {
	if self.IsResident() {
		return int64(self.Content_size())
	}
	return int64(self.Actual_size())
}

// The resident content as a slice borrowing the record buffer.
func (self *NTFS_ATTRIBUTE) residentBytes() ([]byte, error) {
	start := self.offset + int64(self.Content_offset())
	end := start + int64(self.Content_size())

	if start < self.offset || end > self.offset+int64(self.Length()) ||
		end > int64(len(self.entry.data)) {
		return nil, &BadAttribute{
			Record: self.entry.record,
			Offset: self.offset,
		}
	}

	return self.entry.data[start:end], nil
}

// RunList decodes the attribute's run list and checks that it covers
// the attribute's VCN window.
func (self *NTFS_ATTRIBUTE) RunList() ([]Run, error) {
	if self.IsResident() {
		return nil, &BadRunList{
			Record: self.entry.record,
			AttrID: self.Attribute_id(),
			Offset: self.offset,
		}
	}

	start := self.offset + int64(self.Runlist_offset())
	end := self.offset + int64(self.Length())
	if start < self.offset || start >= end ||
		end > int64(len(self.entry.data)) {
		return nil, &BadRunList{
			Record: self.entry.record,
			AttrID: self.Attribute_id(),
			Offset: start,
		}
	}

	runs, err := DecodeRunList(self.entry.data[start:end],
		self.entry.record, self.Attribute_id(), start)
	if err != nil {
		return nil, err
	}

	err = CheckRunListLength(runs,
		self.Runlist_vcn_start(), self.Runlist_vcn_end(),
		self.entry.record, self.Attribute_id())
	if err != nil {
		return nil, err
	}

	return runs, nil
}

// Data returns an io.ReaderAt over the attribute's content. Resident
// content is served from the record buffer; non resident content
// through a RunReader against the volume.
func (self *NTFS_ATTRIBUTE) Data(ntfs *NTFSContext) (io.ReaderAt, error) {
	if self.IsResident() {
		buf, err := self.residentBytes()
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(buf), nil
	}

	reader, err := self.RunReader(ntfs)
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// RunReader builds a range reader over this non resident attribute.
func (self *NTFS_ATTRIBUTE) RunReader(ntfs *NTFSContext) (*RunReader, error) {
	runs, err := self.RunList()
	if err != nil {
		return nil, err
	}

	return NewRunReader(runs, ntfs.ClusterSize, ntfs.DiskReader,
		int64(self.Actual_size())), nil
}

func (self *NTFS_ATTRIBUTE) DebugString() string {
	result := fmt.Sprintf("struct NTFS_ATTRIBUTE @ %#x:\n", self.offset)
	result += fmt.Sprintf("  Type: %v\n", self.Type().DebugString())
	result += fmt.Sprintf("  Length: %#0x\n", self.Length())
	result += fmt.Sprintf("  Resident: %v\n", self.IsResident())
	result += fmt.Sprintf("  name_length: %#0x\n", self.name_length())
	result += fmt.Sprintf("  Flags: %v\n", self.Flags().DebugString())
	result += fmt.Sprintf("  Attribute_id: %#0x\n", self.Attribute_id())
	if self.IsResident() {
		result += fmt.Sprintf("  Content_size: %#0x\n", self.Content_size())
		result += fmt.Sprintf("  Content_offset: %#0x\n", self.Content_offset())
	} else {
		result += fmt.Sprintf("  Runlist_vcn_start: %#0x\n", self.Runlist_vcn_start())
		result += fmt.Sprintf("  Runlist_vcn_end: %#0x\n", self.Runlist_vcn_end())
		result += fmt.Sprintf("  Runlist_offset: %#0x\n", self.Runlist_offset())
		result += fmt.Sprintf("  Compression_unit_size: %#0x\n", self.Compression_unit_size())
		result += fmt.Sprintf("  Allocated_size: %#0x\n", self.Allocated_size())
		result += fmt.Sprintf("  Actual_size: %#0x\n", self.Actual_size())
		result += fmt.Sprintf("  Initialized_size: %#0x\n", self.Initialized_size())
	}
	return result
}
