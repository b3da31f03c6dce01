package parser

import (
	"encoding/binary"
	"fmt"
)

const (
	FILE_NAME_POSIX     = 0
	FILE_NAME_WIN32     = 1
	FILE_NAME_DOS       = 2
	FILE_NAME_DOS_WIN32 = 3
)

func nameTypeName(value byte) string {
	switch value {
	case FILE_NAME_POSIX:
		return "POSIX"
	case FILE_NAME_WIN32:
		return "Win32"
	case FILE_NAME_DOS:
		return "DOS"
	case FILE_NAME_DOS_WIN32:
		return "DOS+Win32"
	}
	return "Unknown"
}

// The decoded content of a $FILE_NAME attribute. The struct owns a
// copy of nothing - it borrows the record buffer like every other
// attribute view.
type FILE_NAME struct {
	data   []byte
	record int64
}

func NewFileName(buf []byte, record int64) (*FILE_NAME, error) {
	STATS.Inc_FILE_NAME()

	if len(buf) < 0x42 {
		return nil, &BadAttribute{Record: record, Offset: 0}
	}

	self := &FILE_NAME{data: buf, record: record}

	name_end := 0x42 + int(self._length_of_name())*2
	if name_end > len(buf) {
		return nil, &BadAttribute{Record: record, Offset: 0x40}
	}

	return self, nil
}

func (self *FILE_NAME) typedContent() {}

func (self *FILE_NAME) MftReference() FileReference {
	return FileReference(binary.LittleEndian.Uint64(self.data[0:8]))
}

func (self *FILE_NAME) Created() *WinFileTime {
	return ParseWinFileTime(self.data[8:16])
}

func (self *FILE_NAME) File_modified() *WinFileTime {
	return ParseWinFileTime(self.data[16:24])
}

func (self *FILE_NAME) Mft_modified() *WinFileTime {
	return ParseWinFileTime(self.data[24:32])
}

func (self *FILE_NAME) File_accessed() *WinFileTime {
	return ParseWinFileTime(self.data[32:40])
}

func (self *FILE_NAME) Allocated_size() uint64 {
	return binary.LittleEndian.Uint64(self.data[40:48])
}

func (self *FILE_NAME) Size() uint64 {
	return binary.LittleEndian.Uint64(self.data[48:56])
}

func (self *FILE_NAME) Flags() uint32 {
	return binary.LittleEndian.Uint32(self.data[56:60])
}

func (self *FILE_NAME) Reparse_value() uint32 {
	return binary.LittleEndian.Uint32(self.data[60:64])
}

func (self *FILE_NAME) _length_of_name() byte {
	return self.data[64]
}

func (self *FILE_NAME) NameType() Enumeration {
	value := self.data[65]
	return Enumeration{Value: uint64(value), Name: nameTypeName(value)}
}

// The filename, UTF-16LE on disk, not NUL terminated.
func (self *FILE_NAME) Name() string {
	return ParseUTF16String(
		self.data[0x42 : 0x42+int(self._length_of_name())*2])
}

func (self *FILE_NAME) DebugString() string {
	result := "struct FILE_NAME:\n"
	result += fmt.Sprintf("  MftReference: %v\n", self.MftReference())
	result += fmt.Sprintf("  Created: %v\n", self.Created())
	result += fmt.Sprintf("  File_modified: %v\n", self.File_modified())
	result += fmt.Sprintf("  Mft_modified: %v\n", self.Mft_modified())
	result += fmt.Sprintf("  File_accessed: %v\n", self.File_accessed())
	result += fmt.Sprintf("  Allocated_size: %#0x\n", self.Allocated_size())
	result += fmt.Sprintf("  Size: %#0x\n", self.Size())
	result += fmt.Sprintf("  Flags: %#0x\n", self.Flags())
	result += fmt.Sprintf("  NameType: %v\n", self.NameType().DebugString())
	result += fmt.Sprintf("  Name: %v\n", self.Name())
	return result
}

// The decoded content of a $STANDARD_INFORMATION attribute. Windows
// XP volumes carry the long 72 byte form with ownership and quota
// fields; older volumes only the 48 byte form.
type STANDARD_INFORMATION struct {
	data   []byte
	record int64
}

func NewStandardInformation(buf []byte, record int64) (
	*STANDARD_INFORMATION, error) {
	if len(buf) < 48 {
		return nil, &BadAttribute{Record: record, Offset: 0}
	}
	return &STANDARD_INFORMATION{data: buf, record: record}, nil
}

func (self *STANDARD_INFORMATION) typedContent() {}

func (self *STANDARD_INFORMATION) Create_time() *WinFileTime {
	return ParseWinFileTime(self.data[0:8])
}

func (self *STANDARD_INFORMATION) File_altered_time() *WinFileTime {
	return ParseWinFileTime(self.data[8:16])
}

func (self *STANDARD_INFORMATION) Mft_altered_time() *WinFileTime {
	return ParseWinFileTime(self.data[16:24])
}

func (self *STANDARD_INFORMATION) File_accessed_time() *WinFileTime {
	return ParseWinFileTime(self.data[24:32])
}

func (self *STANDARD_INFORMATION) Flags() uint32 {
	return binary.LittleEndian.Uint32(self.data[32:36])
}

func (self *STANDARD_INFORMATION) hasLongForm() bool {
	return len(self.data) >= 72
}

func (self *STANDARD_INFORMATION) Owner_id() uint32 {
	if !self.hasLongForm() {
		return 0
	}
	return binary.LittleEndian.Uint32(self.data[48:52])
}

func (self *STANDARD_INFORMATION) Security_id() uint32 {
	if !self.hasLongForm() {
		return 0
	}
	return binary.LittleEndian.Uint32(self.data[52:56])
}

func (self *STANDARD_INFORMATION) Quota_charged() uint64 {
	if !self.hasLongForm() {
		return 0
	}
	return binary.LittleEndian.Uint64(self.data[56:64])
}

func (self *STANDARD_INFORMATION) Usn() uint64 {
	if !self.hasLongForm() {
		return 0
	}
	return binary.LittleEndian.Uint64(self.data[64:72])
}

func (self *STANDARD_INFORMATION) DebugString() string {
	result := "struct STANDARD_INFORMATION:\n"
	result += fmt.Sprintf("  Create_time: %v\n", self.Create_time())
	result += fmt.Sprintf("  File_altered_time: %v\n", self.File_altered_time())
	result += fmt.Sprintf("  Mft_altered_time: %v\n", self.Mft_altered_time())
	result += fmt.Sprintf("  File_accessed_time: %v\n", self.File_accessed_time())
	result += fmt.Sprintf("  Flags: %#0x\n", self.Flags())
	if self.hasLongForm() {
		result += fmt.Sprintf("  Owner_id: %#0x\n", self.Owner_id())
		result += fmt.Sprintf("  Security_id: %#0x\n", self.Security_id())
		result += fmt.Sprintf("  Quota_charged: %#0x\n", self.Quota_charged())
		result += fmt.Sprintf("  Usn: %#0x\n", self.Usn())
	}
	return result
}
