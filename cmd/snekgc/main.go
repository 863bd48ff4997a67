// Command snekgc is a small front end onto package heap: it builds a
// runtime (internal/heapcore pool + heap roots + the objects package's
// kinds) and lets you drive it from the command line, either as a
// one-shot scripted demo or interactively.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
