package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var (
	debug bool

	NTFSINSPECT_DEBUG *bool
)

func Debug(arg interface{}) {
	spew.Dump(arg)
}

type Debugger interface {
	DebugString() string
}

func DebugPrint(fmt_str string, v ...interface{}) {
	if NTFSINSPECT_DEBUG == nil {
		// os.Environ() seems very expensive in Go so we cache
		// it.
		for _, x := range os.Environ() {
			if strings.HasPrefix(x, "NTFSINSPECT_DEBUG=") {
				value := true
				NTFSINSPECT_DEBUG = &value
				break
			}
		}
	}

	if NTFSINSPECT_DEBUG == nil {
		value := false
		NTFSINSPECT_DEBUG = &value
	}

	if *NTFSINSPECT_DEBUG {
		fmt.Printf(fmt_str, v...)
	}
}
