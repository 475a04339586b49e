package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/qbank/internal/stats"
)

type statsOptions struct {
	xlsx string
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	var opts statsOptions

	cmd := &cobra.Command{
		Use:   "stats FILE...",
		Short: "Count merged questions by language, author and domain against difficulty",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadFiles(cmd.Context(), root, args)
			if err != nil {
				return err
			}
			report := stats.Build(svc.Records())

			if opts.xlsx != "" {
				var buf bytes.Buffer
				if err := stats.WriteXLSX(&buf, report); err != nil {
					return err
				}
				if err := os.WriteFile(opts.xlsx, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", opts.xlsx, err)
				}
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Also write the tables to this xlsx file")
	return cmd
}

func writeReport(w io.Writer, r stats.Report) error {
	fmt.Fprintf(w, "questions: %d\n", r.Questions)
	for _, p := range r.Pivots() {
		fmt.Fprintf(w, "\n[%s]\n", p.Name)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprint(tw, "\t")
		for lv := 1; lv <= stats.Levels; lv++ {
			fmt.Fprintf(tw, "%d\t", lv)
		}
		fmt.Fprint(tw, stats.TotalKey+"\t\n")
		for _, row := range append(p.Rows, p.Total) {
			fmt.Fprint(tw, row.Key+"\t")
			for _, n := range row.Counts {
				fmt.Fprint(tw, strconv.Itoa(n)+"\t")
			}
			fmt.Fprintf(tw, "%d\t\n", row.Total)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
