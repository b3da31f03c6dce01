package parser

import (
	"fmt"
)

// A decoded data run: an extent of clusters backing part of a non
// resident attribute. Sparse runs have no backing clusters at all -
// their LCN is meaningless and reads from them yield zeros.
type Run struct {
	LCN      int64
	Length   int64
	IsSparse bool
}

func (self Run) String() string {
	if self.IsSparse {
		return fmt.Sprintf("sparse(%d)", self.Length)
	}
	return fmt.Sprintf("%d+%d", self.LCN, self.Length)
}

// DecodeRunList decodes the compact on disk run encoding into
// absolute runs. Each entry starts with a header byte: the low nibble
// is the byte width of the length field, the high nibble the byte
// width of the offset field (0 = sparse). Offsets are sign extended
// deltas against the previous run's absolute LCN. A zero header byte
// terminates the list.
//
// record, attr_id and base only feed error values.
func DecodeRunList(buf []byte, record int64, attr_id uint16, base int64) ([]Run, error) {
	STATS.Inc_RunList()

	result := []Run{}
	current_lcn := int64(0)

	offset := 0
	for offset < len(buf) {
		header := buf[offset]
		if header == 0 {
			return result, nil
		}

		length_width := int(header & 0x0F)
		offset_width := int(header >> 4)
		entry_offset := offset
		offset++

		// A run must declare a positive length width. Widths above
		// 8 bytes can not happen in a valid list.
		if length_width == 0 || length_width > 8 || offset_width > 8 {
			return nil, &BadRunList{
				Record: record,
				AttrID: attr_id,
				Offset: base + int64(entry_offset),
			}
		}

		if offset+length_width+offset_width > len(buf) {
			return nil, &BadRunList{
				Record: record,
				AttrID: attr_id,
				Offset: base + int64(entry_offset),
			}
		}

		length := int64(0)
		for i := 0; i < length_width; i++ {
			length |= int64(buf[offset+i]) << (8 * uint(i))
		}
		offset += length_width

		if length <= 0 {
			return nil, &BadRunList{
				Record: record,
				AttrID: attr_id,
				Offset: base + int64(entry_offset),
			}
		}

		// offset_width == 0 marks a sparse run - the delta is
		// absent and the current LCN does not move.
		if offset_width == 0 {
			result = append(result, Run{Length: length, IsSparse: true})
			continue
		}

		delta := int64(0)
		for i := 0; i < offset_width; i++ {
			delta |= int64(buf[offset+i]) << (8 * uint(i))
		}
		// Sign extend from the declared width.
		shift := uint(64 - 8*offset_width)
		delta = delta << shift >> shift
		offset += offset_width

		current_lcn += delta
		if current_lcn < 0 {
			return nil, &BadRunList{
				Record: record,
				AttrID: attr_id,
				Offset: base + int64(entry_offset),
			}
		}

		result = append(result, Run{LCN: current_lcn, Length: length})
	}

	// Ran off the end of the buffer without a terminator.
	return nil, &BadRunList{
		Record: record,
		AttrID: attr_id,
		Offset: base + int64(offset),
	}
}

// The decoded runs must cover the attribute's VCN window exactly.
func CheckRunListLength(runs []Run, start_vcn, end_vcn uint64,
	record int64, attr_id uint16) error {
	total := int64(0)
	for _, run := range runs {
		total += run.Length
	}

	if uint64(total) != end_vcn-start_vcn+1 {
		return &RunListLengthMismatch{Record: record, AttrID: attr_id}
	}
	return nil
}
