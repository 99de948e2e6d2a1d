// Package cmd implements the svfmt command-line driver: a cobra root
// command plus format/check/range/dump-tree/dump-tokens subcommands, with a
// persistent --directory flag and subcommands doing their own file
// discovery under it.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "svfmt",
		Short:        "svfmt",
		SilenceUsage: true,
		Long:         `svfmt formats SystemVerilog source files.`,
	}

	directory string
	styleFile string
	debug     bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "path to directory and subtree scanned for *.sv/*.svh files")
	rootCmd.PersistentFlags().StringVarP(&styleFile, "style", "s", ".svfmt.yaml", "style file, relative to --directory if not absolute")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "attach a partition-tree dump to internal invariant errors")
	return rootCmd.Execute()
}
