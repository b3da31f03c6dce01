package main

import (
	"fmt"

	"github.com/ntfstools/ntfsinspect/parser"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	boot_command = app.Command(
		"boot", "Inspect the boot sector.")

	boot_command_file_arg = boot_command.Arg(
		"file", "The image file to inspect",
	).Required().File()

	boot_command_image_offset = boot_command.Flag(
		"image_offset", "The offset in the image to use.",
	).Int64()
)

func doBoot() {
	reader := getVolumeReader(*boot_command_file_arg,
		*boot_command_image_offset)

	boot, err := parser.NewBootSector(reader, 0)
	kingpin.FatalIfError(err, "Boot sector")

	fmt.Println(boot.DebugString())
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "boot":
			doBoot()
		default:
			return false
		}
		return true
	})
}
