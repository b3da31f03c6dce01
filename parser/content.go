package parser

// TypedContent is the closed set of decoded attribute contents.
// Unknown attribute types land in OpaqueContent with their raw bytes
// preserved.
type TypedContent interface {
	typedContent()
}

// Materialized content bytes. More reports whether the attribute
// holds bytes beyond the returned slice (only possible for non
// resident content read under a byte limit).
type DataContent struct {
	Bytes []byte
	More  bool
}

func (self *DataContent) typedContent() {}

type OpaqueContent struct {
	TypeId uint32
	Bytes  []byte
	More   bool
}

func (self *OpaqueContent) typedContent() {}

// A handle to non resident content which the caller chose not to
// materialize. It owns its run list; byte ranges are produced on
// demand through Reader.
type NonResidentContent struct {
	reader *RunReader

	TypeId          uint32
	Flags           EntryFlags
	AllocatedSize   uint64
	ActualSize      uint64
	InitializedSize uint64
}

func (self *NonResidentContent) typedContent() {}

func (self *NonResidentContent) Reader() *RunReader {
	return self.reader
}

func (self *NonResidentContent) Runs() []Run {
	return self.reader.Runs()
}

// Content decodes the attribute's content under a byte limit.
//
// A byte_limit of 0 means "do not materialize non resident content":
// such attributes come back as a NonResidentContent handle. A
// negative byte_limit falls back to the context's configured
// MaxContentBytes. Resident
// content is always returned, as a view borrowing the record buffer.
// Materializing compressed or encrypted content is refused.
func (self *NTFS_ATTRIBUTE) Content(ntfs *NTFSContext, byte_limit int64) (
	TypedContent, error) {

	if self.IsResident() {
		buf, err := self.residentBytes()
		if err != nil {
			return nil, err
		}

		switch self.TypeId() {
		case ATTR_TYPE_STANDARD_INFORMATION:
			return NewStandardInformation(buf, self.entry.record)

		case ATTR_TYPE_FILE_NAME:
			return NewFileName(buf, self.entry.record)

		case ATTR_TYPE_DATA:
			return &DataContent{Bytes: buf}, nil

		default:
			return &OpaqueContent{TypeId: self.TypeId(), Bytes: buf}, nil
		}
	}

	reader, err := self.RunReader(ntfs)
	if err != nil {
		return nil, err
	}

	if byte_limit < 0 {
		byte_limit = ntfs.Options().MaxContentBytes
	}

	if byte_limit == 0 {
		return &NonResidentContent{
			reader:          reader,
			TypeId:          self.TypeId(),
			Flags:           self.Flags(),
			AllocatedSize:   self.Allocated_size(),
			ActualSize:      self.Actual_size(),
			InitializedSize: self.Initialized_size(),
		}, nil
	}

	flags := self.Flags()
	if flags.IsCompressed() {
		return nil, &UnsupportedFeature{Kind: "compressed content"}
	}
	if flags.IsEncrypted() {
		return nil, &UnsupportedFeature{Kind: "encrypted content"}
	}

	buf, more, err := reader.ReadRange(0, byte_limit,
		ntfs.options.StrictTruncation)
	if err != nil {
		return nil, err
	}

	if self.TypeId() == ATTR_TYPE_DATA {
		return &DataContent{Bytes: buf, More: more}, nil
	}

	return &OpaqueContent{TypeId: self.TypeId(), Bytes: buf, More: more}, nil
}
