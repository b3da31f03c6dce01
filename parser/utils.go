package parser

import (
	"golang.org/x/text/encoding/unicode"
)

var utf16_decoder = unicode.UTF16(
	unicode.LittleEndian, unicode.IgnoreBOM)

// Decode a UTF-16LE byte slice (not NUL terminated) to a string.
func ParseUTF16String(buf []byte) string {
	result, err := utf16_decoder.NewDecoder().String(string(buf))
	if err != nil {
		return ""
	}
	return result
}

func CapUint64(v uint64, max uint64) uint64 {
	if v > max {
		return max
	}
	return v
}

func CapUint32(v uint32, max uint32) uint32 {
	if v > max {
		return max
	}
	return v
}

func CapUint16(v uint16, max uint16) uint16 {
	if v > max {
		return max
	}
	return v
}

func CapInt64(v int64, max int64) int64 {
	if v > max {
		return max
	}
	return v
}
