package signverify

import (
	"fmt"
	"io"
	"os"
)

var debugOn = os.Getenv("SIGDEBUG") == "1"

func dbg(w io.Writer, format string, args ...any) {
	if !debugOn {
		return
	}
	fmt.Fprintf(w, format, args...)
}
