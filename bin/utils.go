package main

import (
	"io"

	"github.com/ntfstools/ntfsinspect/parser"
)

// All commands read the volume through a paged reader so raw devices
// with sector aligned read requirements work too.
func getVolumeReader(fd io.ReaderAt, image_offset int64) io.ReaderAt {
	reader, _ := parser.NewPagedReader(&parser.OffsetReader{
		Offset: image_offset,
		Reader: fd,
	}, 1024, 10000)
	return reader
}
