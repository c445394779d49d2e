// Package main is the entry point for the tolltariff CLI.
package main

import (
	"os"

	"tolltariff/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
