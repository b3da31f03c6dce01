package parser

import (
	"encoding/json"
	"sync"
)

var (
	STATS = Stats{}
)

type Stats struct {
	mu sync.Mutex

	MFT_ENTRY         int
	NTFS_ATTRIBUTE    int
	FILE_NAME         int
	RunList           int
	FixupApplied      int
	NTFSContext       int
	RecordCacheHits   int
	RecordCacheMisses int
}

func (self *Stats) DebugString() string {
	self.mu.Lock()
	defer self.mu.Unlock()

	serialized, _ := json.MarshalIndent(self, " ", " ")
	return string(serialized)
}

func (self *Stats) Inc_MFT_ENTRY() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.MFT_ENTRY++
}

func (self *Stats) Inc_NTFS_ATTRIBUTE() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.NTFS_ATTRIBUTE++
}

func (self *Stats) Inc_FILE_NAME() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.FILE_NAME++
}

func (self *Stats) Inc_RunList() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.RunList++
}

func (self *Stats) Inc_FixupApplied() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.FixupApplied++
}

func (self *Stats) Inc_NTFSContext() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.NTFSContext++
}

func (self *Stats) Inc_RecordCacheHits() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.RecordCacheHits++
}

func (self *Stats) Inc_RecordCacheMisses() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.RecordCacheMisses++
}
