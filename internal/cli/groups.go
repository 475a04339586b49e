package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/qbank/internal/core"
)

type groupsOptions struct {
	by string
}

func newGroupsCmd(root *rootOptions) *cobra.Command {
	var opts groupsOptions

	cmd := &cobra.Command{
		Use:   "groups FILE...",
		Short: "List case or revision groups of the merged records",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.by != "case" && opts.by != "revision" {
				return fmt.Errorf("--by must be case or revision, got %q", opts.by)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadFiles(cmd.Context(), root, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.by == "revision" {
				for _, g := range svc.RevisionGroups() {
					fmt.Fprintf(w, "%s\t%s\n", g.BaseID, revisionMembers(g))
				}
				return nil
			}
			for _, g := range svc.CaseGroups() {
				caseID := g.CaseID
				if caseID == "" {
					caseID = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", caseID, g.Kind, strings.Join(g.MemberIDs, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.by, "by", "case", "Grouping: case or revision")
	return cmd
}

func revisionMembers(g core.RevisionGroup) string {
	parts := make([]string, len(g.Members))
	for i, m := range g.Members {
		parts[i] = fmt.Sprintf("%s (active:%s)", m.ID, m.Active)
	}
	return strings.Join(parts, ", ")
}
