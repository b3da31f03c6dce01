package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ntfstools/ntfsinspect/parser"
	"github.com/olekukonko/tablewriter"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	record_command = app.Command(
		"record", "Inspect one MFT record.")

	record_command_file_arg = record_command.Arg(
		"file", "The image file to inspect",
	).Required().File()

	record_command_arg = record_command.Arg(
		"index", "The MFT record index to inspect.",
	).Default("0").Int64()

	record_command_image_offset = record_command.Flag(
		"image_offset", "The offset in the image to use.",
	).Int64()
)

func doRecord() {
	reader := getVolumeReader(*record_command_file_arg,
		*record_command_image_offset)

	ntfs_ctx, err := parser.GetNTFSContext(reader, 0)
	kingpin.FatalIfError(err, "Can not open filesystem")
	defer ntfs_ctx.Close()

	mft_entry, err := ntfs_ctx.GetMFT(*record_command_arg)
	kingpin.FatalIfError(err, "Can not read record")

	if *verbose_flag {
		fmt.Println(mft_entry.Display(ntfs_ctx))
		return
	}

	stat, err := parser.ModelMFTEntry(ntfs_ctx, mft_entry)
	kingpin.FatalIfError(err, "Can not model record")

	serialized, err := json.MarshalIndent(stat, "", " ")
	kingpin.FatalIfError(err, "Marshal")

	fmt.Println(string(serialized))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Inode",
		"Type",
		"Id",
		"Resident",
		"Size",
		"Name",
	})
	table.SetCaption(true, fmt.Sprintf(
		"Attributes of MFT record %v", *record_command_arg))
	defer table.Render()

	for _, attr := range stat.Attributes {
		table.Append([]string{
			attr.Inode,
			attr.Type,
			fmt.Sprintf("%v", attr.Id),
			fmt.Sprintf("%v", attr.Resident),
			fmt.Sprintf("%v", attr.Size),
			attr.Name,
		})
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "record":
			doRecord()
		default:
			return false
		}
		return true
	})
}
