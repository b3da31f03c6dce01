// Record lookups go through a small LRU so that repeated walks over
// the same entries (path resolution, attribute scans) do not re-read
// and re-fixup the same buffers. The context itself never retains
// more than this cache - callers that want different retention layer
// their own on top of ReadRecordNoCache.

package parser

func (self *NTFSContext) GetMFT(id int64) (*MFT_ENTRY, error) {
	cached_any, pres := self.record_cache.Get(id)
	if pres {
		STATS.Inc_RecordCacheHits()
		return cached_any.(*MFT_ENTRY), nil
	}

	STATS.Inc_RecordCacheMisses()

	mft_entry, err := self.ReadRecordNoCache(id)
	if err != nil {
		return nil, err
	}

	self.record_cache.Add(id, mft_entry)
	return mft_entry, nil
}
