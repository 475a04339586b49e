package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/csv"
)

type mergeOptions struct {
	out   string
	quiet bool
}

func newMergeCmd(root *rootOptions) *cobra.Command {
	var opts mergeOptions

	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge question CSVs and write the combined store",
		Long: "Merge question CSVs in the order given and write every record as one CSV.\n" +
			"A later file fills or replaces fields of records with the same question_id;\n" +
			"empty cells never erase existing values.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the per-file summary")
	return cmd
}

func runMerge(cmd *cobra.Command, root *rootOptions, opts mergeOptions, paths []string) error {
	svc, results, err := loadFiles(cmd.Context(), root, paths)
	if err != nil {
		return err
	}
	if !opts.quiet {
		printSummary(cmd.ErrOrStderr(), results)
	}

	if opts.out != "" {
		return writeStore(cmd.ErrOrStderr(), svc, opts.out)
	}

	text, err := svc.ExportStore()
	if errors.Is(err, core.ErrEmptyExportSet) {
		fmt.Fprintln(cmd.ErrOrStderr(), "no records to write")
		return nil
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), text+"\n")
	return err
}

// writeStore writes every record in svc to path as CSV.
func writeStore(stderr io.Writer, svc *core.Service, path string) error {
	records := svc.Records()
	if len(records) == 0 {
		fmt.Fprintln(stderr, "no records to write")
		return nil
	}

	header := core.StoreHeader()
	rows := make([]map[string]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Values(header)
	}
	return csv.WriteFile(path, header, rows)
}
