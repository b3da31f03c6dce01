package main

import (
	"io"
	"os"

	"github.com/ntfstools/ntfsinspect/parser"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	cat_command = app.Command(
		"cat", "Dump a record's $DATA stream.")

	cat_command_file_arg = cat_command.Arg(
		"file", "The image file to inspect",
	).Required().File()

	cat_command_arg = cat_command.Arg(
		"index", "The MFT record index to dump.",
	).Default("0").Int64()

	cat_command_offset = cat_command.Flag(
		"offset", "The offset to start reading.",
	).Int64()

	cat_command_image_offset = cat_command.Flag(
		"image_offset", "The offset in the image to use.",
	).Int64()

	cat_command_output_file = cat_command.Flag(
		"out", "Write to this file",
	).OpenFile(os.O_RDWR|os.O_CREATE|os.O_TRUNC, os.FileMode(0666))
)

func doCAT() {
	reader := getVolumeReader(*cat_command_file_arg,
		*cat_command_image_offset)

	ntfs_ctx, err := parser.GetNTFSContext(reader, 0)
	kingpin.FatalIfError(err, "Can not open filesystem")
	defer ntfs_ctx.Close()

	mft_entry, err := ntfs_ctx.GetMFT(*cat_command_arg)
	kingpin.FatalIfError(err, "Can not read record")

	attr, err := mft_entry.GetAttribute(parser.ATTR_TYPE_DATA, 0)
	kingpin.FatalIfError(err, "No $DATA attribute")

	data, err := attr.Data(ntfs_ctx)
	kingpin.FatalIfError(err, "Can not open stream")

	var fd io.WriteCloser = os.Stdout
	if *cat_command_output_file != nil {
		fd = *cat_command_output_file
		defer fd.Close()
	}

	buf := make([]byte, 1024*1024)
	offset := *cat_command_offset
	for {
		n, _ := data.ReadAt(buf, offset)
		if n == 0 {
			return
		}
		fd.Write(buf[:n])
		offset += int64(n)
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "cat":
			doCAT()
		default:
			return false
		}
		return true
	})
}
