package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Extract the $STANDARD_INFORMATION attribute from the entry.
func (self *MFT_ENTRY) StandardInformation() (*STANDARD_INFORMATION, error) {
	attr, err := self.GetAttribute(ATTR_TYPE_STANDARD_INFORMATION, 0)
	if err != nil {
		return nil, errors.New("$STANDARD_INFORMATION not found!")
	}

	buf, err := attr.residentBytes()
	if err != nil {
		return nil, err
	}

	return NewStandardInformation(buf, self.record)
}

// Extract all $FILE_NAME attributes from the entry. Hard linked
// files carry one per link, plus short name variants.
func (self *MFT_ENTRY) FileNames() []*FILE_NAME {
	result := []*FILE_NAME{}

	attrs, err := self.EnumerateAttributes()
	if err != nil {
		return result
	}

	for _, attr := range attrs {
		if attr.TypeId() != ATTR_TYPE_FILE_NAME || !attr.IsResident() {
			continue
		}

		buf, err := attr.residentBytes()
		if err != nil {
			continue
		}

		res, err := NewFileName(buf, self.record)
		if err != nil {
			continue
		}
		result = append(result, res)
	}

	return result
}

// The entry's best display name: prefer a long name over a DOS short
// name.
func (self *MFT_ENTRY) Name() string {
	short_name := ""
	for _, fn := range self.FileNames() {
		switch fn.NameType().Value {
		case FILE_NAME_DOS:
			short_name = fn.Name()
		default:
			return fn.Name()
		}
	}
	return short_name
}

func (self *MFT_ENTRY) Display(ntfs *NTFSContext) string {
	result := []string{self.DebugString()}

	attrs, err := self.EnumerateAttributes()
	if err != nil {
		result = append(result, fmt.Sprintf("Attribute walk failed: %v", err))
	}

	result = append(result, "Attribute:")
	for _, attr := range attrs {
		result = append(result, attr.DebugString())
		if !attr.IsResident() {
			runs, err := attr.RunList()
			if err != nil {
				result = append(result, fmt.Sprintf("  Runlist: %v", err))
			} else {
				result = append(result, fmt.Sprintf("  Runlist: %v", runs))
			}
		}
	}

	return fmt.Sprintf("[MFT_ENTRY] %d\n", self.record) +
		strings.Join(result, "\n")
}
