package main

import (
	"os"

	"github.com/hdlfmt/svfmt/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
