package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hdlfmt/svfmt"
)

var (
	formatWrite bool

	formatCmd = &cobra.Command{
		Use:   "format",
		Short: "Format SystemVerilog files under --directory, printing to stdout or rewriting in place with --write",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				_ = cmd.Help()
				return errors.New("format takes no positional arguments")
			}
			return runFormat()
		},
	}
)

func init() {
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "write the formatted result back to each file instead of printing it")
	rootCmd.AddCommand(formatCmd)
}

func findSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(info.Name(), ".sv") || strings.HasSuffix(info.Name(), ".svh") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// runFormat formats every source file under --directory concurrently,
// bounded by an errgroup, creating an independent engine instance per file
// so concurrent runs never share mutable state.
func runFormat() error {
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
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)

	for _, f := range files {
		f := f
		g.Go(func() error {
			return formatOneFile(f, st, logger)
		})
	}
	return g.Wait()
}

func formatOneFile(path string, st svfmt.FormatStyle, logger logrus.FieldLogger) error {
	runID, _ := uuid.NewV4()
	control := svfmt.NewExecutionControl()
	control.Logger = logger
	control.RunID = runID.String()
	control.Debug = st.Debug

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if formatWrite {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := svfmt.Format(string(source), path, st, f, svfmt.AllLines(), control); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.WithField("run_id", control.RunID).Debugf("formatted %s", path)
		return nil
	}

	if err := svfmt.Format(string(source), path, st, os.Stdout, svfmt.AllLines(), control); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
