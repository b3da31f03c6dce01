package parser

import (
	"io"
)

// A RunReader streams byte ranges of a non resident attribute out of
// its decoded runs. Every disk access is an absolute positioned read
// - the reader never assumes a current position on the underlying
// device, so interleaved readers can share one BlockSource.
type RunReader struct {
	runs         []Run
	cluster_size int64
	disk         io.ReaderAt

	// Logical content length in bytes. The runs may over allocate
	// past this.
	size int64
}

func NewRunReader(runs []Run, cluster_size int64, disk io.ReaderAt,
	size int64) *RunReader {
	total := int64(0)
	for _, run := range runs {
		total += run.Length * cluster_size
	}

	if size <= 0 || size > total {
		size = total
	}

	return &RunReader{
		runs:         runs,
		cluster_size: cluster_size,
		disk:         disk,
		size:         size,
	}
}

// Total byte length of the logical content.
func (self *RunReader) Size() int64 {
	return self.size
}

func (self *RunReader) Runs() []Run {
	return self.runs
}

// ReadAt implements io.ReaderAt over the logical content. Reads
// spanning run boundaries are stitched together transparently; sparse
// runs produce zeros. A read straddling the end of the content returns
// the available bytes with a nil error; a read starting at or past the
// end returns 0 and io.EOF.
func (self *RunReader) ReadAt(buf []byte, file_offset int64) (int, error) {
	if file_offset < 0 || file_offset >= self.size {
		return 0, io.EOF
	}

	// Trim the request to the content.
	if file_offset+int64(len(buf)) > self.size {
		buf = buf[:self.size-file_offset]
	}

	buf_idx := 0
	run_start := int64(0)

	for _, run := range self.runs {
		if buf_idx >= len(buf) {
			break
		}

		run_length := run.Length * self.cluster_size
		run_end := run_start + run_length

		if run_start <= file_offset && file_offset < run_end {
			run_offset := file_offset - run_start

			to_read := int(run_length - run_offset)
			if to_read > len(buf)-buf_idx {
				to_read = len(buf) - buf_idx
			}

			if run.IsSparse {
				for i := 0; i < to_read; i++ {
					buf[buf_idx+i] = 0
				}
			} else {
				n, err := self.disk.ReadAt(
					buf[buf_idx:buf_idx+to_read],
					run.LCN*self.cluster_size+run_offset)
				if err != nil && err != io.EOF {
					return buf_idx + n, &IoError{Cause: err}
				}
				if n < to_read {
					return buf_idx + n, &IoError{Cause: ShortReadError}
				}
			}

			buf_idx += to_read
			file_offset += int64(to_read)
		}

		run_start = run_end
	}

	return buf_idx, nil
}

// ReadRange materializes [start, start+count) as an owned buffer.
// more reports whether content remains beyond the returned bytes.
// When the content ends before count bytes, the short buffer is
// returned with more=false - or with a Truncated error when strict is
// set.
func (self *RunReader) ReadRange(start, count int64, strict bool) (
	[]byte, bool, error) {
	if start >= self.size {
		if strict {
			return nil, false, &Truncated{Requested: count, Read: 0}
		}
		return nil, false, nil
	}

	want := count
	if start+want > self.size {
		want = self.size - start
	}

	buf := make([]byte, want)
	n, err := self.ReadAt(buf, start)
	if err != nil && err != io.EOF {
		return nil, false, err
	}
	buf = buf[:n]

	if int64(n) < count {
		if strict {
			return buf, false, &Truncated{Requested: count, Read: int64(n)}
		}
		return buf, false, nil
	}

	return buf, start+count < self.size, nil
}

// LoadMore grows an existing buffer by reading [buffer_offset,
// buffer_offset+count) of the content behind it. Bytes below
// buffer_offset are kept as is and never re-read. buffer_offset must
// be cluster aligned and must not exceed the bytes already present.
func (self *RunReader) LoadMore(buf []byte, buffer_offset, count int64,
	strict bool) ([]byte, bool, error) {
	if buffer_offset%self.cluster_size != 0 ||
		buffer_offset > int64(len(buf)) {
		return buf, false, &Truncated{Requested: count, Read: 0}
	}

	extra, more, err := self.ReadRange(buffer_offset, count, strict)
	if err != nil {
		return buf, more, err
	}

	return append(buf[:buffer_offset], extra...), more, nil
}
