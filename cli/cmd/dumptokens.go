package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hdlfmt/svfmt"
)

var dumpTokensText bool

var dumpTokensCmd = &cobra.Command{
	Use:   "dump-tokens <file>",
	Short: "Print the raw lexed token stream of a file as JSON, for debugging the lexer itself",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDumpTokens(args[0])
	},
}

func init() {
	dumpTokensCmd.Flags().BoolVar(&dumpTokensText, "text", false, "include each token's raw text in the dump")
	rootCmd.AddCommand(dumpTokensCmd)
}

// runDumpTokens surfaces svfmt.DumpTokens as its own subcommand: unlike
// dump-tree it runs the lexer only, so it still produces output for a file
// the parser would reject.
func runDumpTokens(path string) error {
	st, err := LoadStyle()
	if err != nil {
		return err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dump, err := svfmt.DumpTokens(string(source), path, st, dumpTokensText)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Println(dump)
	return nil
}
