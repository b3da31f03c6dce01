package main

import (
	"encoding/json"
	"fmt"

	"github.com/ntfstools/ntfsinspect/parser"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	inspect_command = app.Command(
		"inspect", "Inspect an ntfs volume image.").Default()

	inspect_command_file_arg = inspect_command.Arg(
		"file", "The image file to inspect",
	).Required().File()

	inspect_command_image_offset = inspect_command.Flag(
		"image_offset", "The offset in the image to use.",
	).Int64()
)

func doInspect() {
	reader := getVolumeReader(*inspect_command_file_arg,
		*inspect_command_image_offset)

	ntfs_ctx, err := parser.GetNTFSContext(reader, 0)
	kingpin.FatalIfError(err, "Can not open filesystem")
	defer ntfs_ctx.Close()

	report, err := parser.InspectVolume(ntfs_ctx)
	kingpin.FatalIfError(err, "Can not inspect volume")

	serialized, err := json.MarshalIndent(report, "", " ")
	kingpin.FatalIfError(err, "Marshal")

	fmt.Println(string(serialized))
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "inspect":
			doInspect()
		default:
			return false
		}
		return true
	})
}
