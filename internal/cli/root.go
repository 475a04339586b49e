// Package cli is the qbank command tree. Every command loads question CSVs
// into a fresh session in the order given, so later files win conflicts.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/logging"
)

type rootOptions struct {
	logLevel      string
	maxFileSize   int64
	maxConcurrent int
}

// NewRootCmd builds the qbank command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "qbank",
		Short:         "Merge, group and summarize exam question CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().Int64Var(&opts.maxFileSize, "max-file-size", 32<<20, "Largest CSV file accepted, in bytes")
	cmd.PersistentFlags().IntVar(&opts.maxConcurrent, "max-concurrent", core.DefaultMaxConcurrentImports, "Files read in parallel")

	cmd.AddCommand(
		newMergeCmd(&opts),
		newGroupsCmd(&opts),
		newStatsCmd(&opts),
		newHistoryCmd(&opts),
	)
	return cmd
}

// Execute runs the command tree against ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// ErrorMessage renders err for the terminal, preferring the coded user
// message when err maps to one.
func ErrorMessage(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}

// loadFiles merges paths into a new service. Nothing is merged if any file
// cannot be read.
func loadFiles(ctx context.Context, opts *rootOptions, paths []string) (*core.Service, []*core.ImportResult, error) {
	svc := core.NewService(core.Options{
		MaxFileSize:   opts.maxFileSize,
		MaxConcurrent: opts.maxConcurrent,
	})
	results, err := svc.ImportFiles(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	return svc, results, nil
}

func printSummary(w io.Writer, results []*core.ImportResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%s: %d rows, %d inserted, %d updated, %d skipped\n",
			r.FileName, r.Rows, r.Inserted, r.Updated, r.Skipped)
	}
}
