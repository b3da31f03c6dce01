package parser

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	BOOT_SECTOR_SIZE = 512

	ntfs_oem_id = "NTFS    "
)

// The BPB of the volume, held in an owned copy of the first sector.
// All accessors decode little endian fields from that buffer - the
// struct is never overlaid on disk bytes.
type NTFS_BOOT_SECTOR struct {
	b [BOOT_SECTOR_SIZE]byte
}

// NewBootSector reads and validates the boot sector at offset. It
// performs no further I/O after construction.
func NewBootSector(reader io.ReaderAt, offset int64) (*NTFS_BOOT_SECTOR, error) {
	self := &NTFS_BOOT_SECTOR{}

	n, err := reader.ReadAt(self.b[:], offset)
	if err != nil && n != BOOT_SECTOR_SIZE {
		return nil, &IoError{Cause: err}
	}
	if n != BOOT_SECTOR_SIZE {
		return nil, &IoError{Cause: ShortReadError}
	}

	if err := self.IsValid(); err != nil {
		return nil, err
	}

	return self, nil
}

func (self *NTFS_BOOT_SECTOR) OemId() string {
	return string(self.b[3:11])
}

func (self *NTFS_BOOT_SECTOR) SectorSize() int64 {
	return int64(binary.LittleEndian.Uint16(self.b[0x0B:0x0D]))
}

func (self *NTFS_BOOT_SECTOR) SectorsPerCluster() int64 {
	return int64(self.b[0x0D])
}

func (self *NTFS_BOOT_SECTOR) TotalSectors() int64 {
	return int64(binary.LittleEndian.Uint64(self.b[0x28:0x30]))
}

func (self *NTFS_BOOT_SECTOR) MftCluster() int64 {
	return int64(binary.LittleEndian.Uint64(self.b[0x30:0x38]))
}

func (self *NTFS_BOOT_SECTOR) MftMirrorCluster() int64 {
	return int64(binary.LittleEndian.Uint64(self.b[0x38:0x40]))
}

func (self *NTFS_BOOT_SECTOR) SerialNumber() uint64 {
	return binary.LittleEndian.Uint64(self.b[0x48:0x50])
}

func (self *NTFS_BOOT_SECTOR) Magic() uint16 {
	return binary.LittleEndian.Uint16(self.b[0x1FE:0x200])
}

func (self *NTFS_BOOT_SECTOR) ClusterSize() int64 {
	return self.SectorSize() * self.SectorsPerCluster()
}

// The clusters-per-record fields are signed: a negative value v means
// the record size is 2^-v bytes, a positive value is a literal
// cluster count.
func (self *NTFS_BOOT_SECTOR) RecordSize() int64 {
	return self.decodeRecordSize(
		int32(binary.LittleEndian.Uint32(self.b[0x40:0x44])))
}

func (self *NTFS_BOOT_SECTOR) IndexRecordSize() int64 {
	return self.decodeRecordSize(
		int32(binary.LittleEndian.Uint32(self.b[0x44:0x48])))
}

func (self *NTFS_BOOT_SECTOR) decodeRecordSize(v int32) int64 {
	if v > 0 {
		return int64(v) * self.ClusterSize()
	}
	return 1 << uint32(-v)
}

// Byte offset of the start of the MFT.
func (self *NTFS_BOOT_SECTOR) MftOffset() int64 {
	return self.MftCluster() * self.ClusterSize()
}

func (self *NTFS_BOOT_SECTOR) IsValid() error {
	if self.OemId() != ntfs_oem_id {
		return &BadBootSector{
			Reason: fmt.Sprintf("OEM id %q", self.OemId()),
		}
	}

	switch self.SectorSize() {
	case 512, 1024, 2048, 4096:
	default:
		return &BadBootSector{
			Reason: fmt.Sprintf("sector size %d", self.SectorSize()),
		}
	}

	spc := self.SectorsPerCluster()
	if spc < 1 || spc > 128 || spc&(spc-1) != 0 {
		return &BadBootSector{
			Reason: fmt.Sprintf("sectors per cluster %d", spc),
		}
	}

	if self.Magic() != 0xAA55 {
		return &BadBootSector{Reason: "missing 0xAA55 end marker"}
	}

	record_size := self.RecordSize()
	if record_size < BOOT_SECTOR_SIZE || record_size > MAX_MFT_ENTRY_SIZE {
		return &BadBootSector{
			Reason: fmt.Sprintf("record size %d", record_size),
		}
	}

	return nil
}

func (self *NTFS_BOOT_SECTOR) DebugString() string {
	result := "struct NTFS_BOOT_SECTOR:\n"
	result += fmt.Sprintf("  OemId: %q\n", self.OemId())
	result += fmt.Sprintf("  SectorSize: %#0x\n", self.SectorSize())
	result += fmt.Sprintf("  SectorsPerCluster: %#0x\n", self.SectorsPerCluster())
	result += fmt.Sprintf("  ClusterSize: %#0x\n", self.ClusterSize())
	result += fmt.Sprintf("  TotalSectors: %#0x\n", self.TotalSectors())
	result += fmt.Sprintf("  MftCluster: %#0x\n", self.MftCluster())
	result += fmt.Sprintf("  MftMirrorCluster: %#0x\n", self.MftMirrorCluster())
	result += fmt.Sprintf("  RecordSize: %#0x\n", self.RecordSize())
	result += fmt.Sprintf("  IndexRecordSize: %#0x\n", self.IndexRecordSize())
	result += fmt.Sprintf("  SerialNumber: %#0x\n", self.SerialNumber())
	return result
}
