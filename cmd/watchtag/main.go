package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	// Ctrl-C during a foreground sweep is already reported by the command.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "watchtag: %v\n", err)
	}
	os.Exit(1)
}
