package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hdlfmt/svfmt"
)

var dumpTreeCmd = &cobra.Command{
	Use:   "dump-tree <file>",
	Short: "Print the partition tree built from a file, for debugging the formatter itself",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDumpTree(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpTreeCmd)
}

// runDumpTree surfaces svfmt.DumpTree as its own subcommand rather than a
// flag on `format`, since it dumps a debugging artifact instead of
// formatted source.
func runDumpTree(path string) error {
	st, err := LoadStyle()
	if err != nil {
		return err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dump, err := svfmt.DumpTree(string(source), path, st)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Println(dump)
	return nil
}
