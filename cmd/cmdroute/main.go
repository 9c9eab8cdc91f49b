// Package main provides the entry point for the cmdroute CLI.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/cmdroute/cmd/cmdroute/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
