// Package main is the entry point for the twiz CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/turbowiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
