package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newCLI().Run(os.Args[1:])
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "srcfix:", err)
	os.Exit(exitCode(err))
}

// exitCode finds an ExitCode anywhere in err's chain; anything else exits 1.
func exitCode(err error) int {
	var withCode interface{ ExitCode() int }
	if errors.As(err, &withCode) {
		return withCode.ExitCode()
	}
	return 1
}
