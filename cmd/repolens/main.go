// Package main provides the entry point for the repolens CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/repolens/repolens/cmd/repolens/commands"
	"github.com/repolens/repolens/pkg/version"
)

func main() {
	version.Resolve()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
