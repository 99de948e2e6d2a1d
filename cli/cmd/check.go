package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gofrs/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hdlfmt/svfmt"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report files that are not already formatted, without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runCheck formats every discovered file in memory and diffs it against the
// original, exiting non-zero if any file differs or fails to format.
func runCheck() error {
	st, err := LoadStyle()
	if err != nil {
		return err
	}
	st.Debug = debug

	files, err := findSourceFiles(directory)
	if err != nil {
		return err
	}

	logger := logrus.New()
	dirty := false
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		runID, _ := uuid.NewV4()
		control := svfmt.NewExecutionControl()
		control.Logger = logger
		control.RunID = runID.String()
		control.Debug = st.Debug

		var out bytes.Buffer
		if err := svfmt.Format(string(source), path, st, &out, svfmt.AllLines(), control); err != nil {
			dirty = true
			fmt.Fprintf(cmdStderr(), "%s: %v\n", path, err)
			continue
		}

		if out.String() == string(source) {
			continue
		}
		dirty = true
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(source)),
			B:        difflib.SplitLines(out.String()),
			FromFile: path,
			ToFile:   path + " (formatted)",
			Context:  3,
		})
		fmt.Fprint(cmdStderr(), diff)
	}

	if dirty {
		return fmt.Errorf("one or more files are not formatted")
	}
	return nil
}

func cmdStderr() *os.File { return os.Stderr }
