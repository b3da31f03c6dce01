package parser

import (
	"encoding/binary"
	"fmt"
	"time"
)

func filetimeToUnixtime(ft uint64) uint64 {
	return (ft - 11644473600000*10000) * 100
}

// A WinFileTime is a timestamp in windows FILETIME format - 100ns
// intervals since 1601-01-01 UTC.
type WinFileTime struct {
	time.Time
}

func (self *WinFileTime) GoString() string {
	return fmt.Sprintf("%v", self)
}

func (self *WinFileTime) DebugString() string {
	return fmt.Sprintf("%v", self)
}

func ParseWinFileTime(buf []byte) *WinFileTime {
	filetime := binary.LittleEndian.Uint64(buf)
	return &WinFileTime{time.Unix(0, int64(filetimeToUnixtime(filetime))).UTC()}
}
