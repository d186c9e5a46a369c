package pimalign

import (
	"flag"
	"fmt"
	"os"
)

// Verbose gates progress/diagnostic output. It is a package variable
// rather than a context value because cmd/pimalign sets it once from a
// flag at startup and the Vprint helpers (used by cmd/pimalign and
// balancer's ProgressBar) read it for the lifetime of the process.
var Verbose = false

func Vprint(s string) {
	if !Verbose {
		return
	}
	fmt.Fprint(os.Stderr, s)
}

func Vprintf(format string, v ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format, v...)
}

func Vprintln(s string) {
	if !Verbose {
		return
	}
	fmt.Fprintln(os.Stderr, s)
}

func PrintFlagDefaults() {
	flag.VisitAll(func(fg *flag.Flag) {
		fmt.Printf("--%s=\"%s\"\n\t%s\n", fg.Name, fg.DefValue, fg.Usage)
	})
}
