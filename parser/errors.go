package parser

import (
	"errors"
	"fmt"
)

var (
	EntryTooShortError = errors.New("EntryTooShortError")
	ShortReadError     = errors.New("ShortReadError")
)

// IoError wraps a failure of the underlying reader so callers can
// distinguish device problems from structural problems.
type IoError struct {
	Cause error
}

func (self *IoError) Error() string {
	return fmt.Sprintf("io error: %v", self.Cause)
}

func (self *IoError) Unwrap() error {
	return self.Cause
}

type BadBootSector struct {
	Reason string
}

func (self *BadBootSector) Error() string {
	return fmt.Sprintf("bad boot sector: %s", self.Reason)
}

// BadMagic is returned when a record header signature is none of the
// accepted values.
type BadMagic struct {
	Record int64
	Found  string
}

func (self *BadMagic) Error() string {
	return fmt.Sprintf("record %d: bad magic %q", self.Record, self.Found)
}

// DamagedRecord is a record marked BAAD by the volume itself.
type DamagedRecord struct {
	Record int64
}

func (self *DamagedRecord) Error() string {
	return fmt.Sprintf("record %d: marked BAAD", self.Record)
}

// NotAFileRecord is an INDX record encountered where a FILE record
// was expected. The record is valid on disk, just not decodable here.
type NotAFileRecord struct {
	Record int64
}

func (self *NotAFileRecord) Error() string {
	return fmt.Sprintf("record %d: INDX record, not a FILE record", self.Record)
}

// FixupMismatch means a sector tail did not carry the expected update
// sequence number - the record is torn.
type FixupMismatch struct {
	Record int64
	Sector int
}

func (self *FixupMismatch) Error() string {
	return fmt.Sprintf("record %d: fixup mismatch in sector %d",
		self.Record, self.Sector)
}

type BadAttribute struct {
	Record int64
	Offset int64
}

func (self *BadAttribute) Error() string {
	return fmt.Sprintf("record %d: bad attribute header at offset %#x",
		self.Record, self.Offset)
}

type BadRunList struct {
	Record int64
	AttrID uint16
	Offset int64
}

func (self *BadRunList) Error() string {
	return fmt.Sprintf("record %d: attribute %d: malformed run list at offset %#x",
		self.Record, self.AttrID, self.Offset)
}

type RunListLengthMismatch struct {
	Record int64
	AttrID uint16
}

func (self *RunListLengthMismatch) Error() string {
	return fmt.Sprintf("record %d: attribute %d: run list does not cover the VCN range",
		self.Record, self.AttrID)
}

// Truncated is only surfaced in strict mode. Normally a short range
// read is reported through the more_available metadata instead.
type Truncated struct {
	Requested int64
	Read      int64
}

func (self *Truncated) Error() string {
	return fmt.Sprintf("truncated read: wanted %d bytes, content ended after %d",
		self.Requested, self.Read)
}

type UnsupportedFeature struct {
	Kind string
}

func (self *UnsupportedFeature) Error() string {
	return fmt.Sprintf("unsupported feature: %s", self.Kind)
}
