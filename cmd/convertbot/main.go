// Package main provides the convertbot entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/rapidfileconvert/convertbot/cmd/convertbot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
