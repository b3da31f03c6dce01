package main

import (
	"fmt"

	"github.com/ntfstools/ntfsinspect/parser"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	runs_command = app.Command(
		"runs", "Display the $DATA runs of a record.")

	runs_command_file_arg = runs_command.Arg(
		"file", "The image file to inspect",
	).Required().File()

	runs_command_arg = runs_command.Arg(
		"index", "The MFT record index to inspect.",
	).Default("0").Int64()

	runs_command_image_offset = runs_command.Flag(
		"image_offset", "The offset in the image to use.",
	).Int64()
)

func doRuns() {
	reader := getVolumeReader(*runs_command_file_arg,
		*runs_command_image_offset)

	ntfs_ctx, err := parser.GetNTFSContext(reader, 0)
	kingpin.FatalIfError(err, "Can not open filesystem")
	defer ntfs_ctx.Close()

	mft_entry, err := ntfs_ctx.GetMFT(*runs_command_arg)
	kingpin.FatalIfError(err, "Can not read record")

	attr, err := mft_entry.GetAttribute(parser.ATTR_TYPE_DATA, 0)
	kingpin.FatalIfError(err, "No $DATA attribute")

	if attr.IsResident() {
		fmt.Printf("$DATA is resident (%d bytes)\n", attr.Content_size())
		return
	}

	runs, err := attr.RunList()
	kingpin.FatalIfError(err, "Can not decode run list")

	fmt.Printf("VCN range %d-%d, actual size %d\n",
		attr.Runlist_vcn_start(), attr.Runlist_vcn_end(),
		attr.Actual_size())

	file_offset := int64(0)
	for idx, run := range runs {
		fmt.Printf("%d FileOffset %d -> %v (%d clusters)\n",
			idx, file_offset, run, run.Length)
		file_offset += run.Length * ntfs_ctx.ClusterSize
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "runs":
			doRuns()
		default:
			return false
		}
		return true
	})
}
