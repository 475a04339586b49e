package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/qbank/internal/core"
)

type historyOptions struct {
	file string
	id   string
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history --file HISTORY.csv FILE...",
		Short: "Show past exam uses of merged questions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, _, err := loadFiles(ctx, root, args)
			if err != nil {
				return err
			}
			if _, err := svc.LoadHistoryFile(ctx, opts.file); err != nil {
				return err
			}

			ids := []string{opts.id}
			if opts.id == "" {
				ids = ids[:0]
				for _, rec := range svc.Records() {
					ids = append(ids, rec.ID())
				}
			}

			w := cmd.OutOrStdout()
			for _, id := range ids {
				d, err := svc.Detail(id)
				if err != nil {
					return err
				}
				printHistory(w, d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "History CSV (required)")
	cmd.Flags().StringVar(&opts.id, "id", "", "Only this question ID")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printHistory(w io.Writer, d *core.Detail) {
	if len(d.History) == 0 {
		return
	}
	fmt.Fprintln(w, d.Record.ID())
	for _, h := range d.History {
		fmt.Fprintf(w, "  %s\n", h)
	}
}
