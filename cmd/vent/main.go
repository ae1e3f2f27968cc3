// Package main is the entry point for the vent command.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/vent/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
