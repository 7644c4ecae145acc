// Package main is the entry point for the sow-estimator CLI.
package main

import (
	"os"

	"sow-estimator/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
