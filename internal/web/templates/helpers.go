// Package templates renders the HTML partials swapped into the page by htmx.
package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/stats"
)

// orNone returns s, or "(none)" when empty.
func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// CaseLabel describes a record's case relation for display.
func CaseLabel(g core.CaseGroup) (caseID, relation string) {
	caseID = g.CaseID
	if caseID == "" {
		caseID = "n/a"
	}
	relation = string(g.Kind)
	if len(g.MemberIDs) > 0 {
		relation += " (" + strings.Join(g.MemberIDs, ", ") + ")"
	}
	return caseID, relation
}

func caseIDLabel(g core.CaseGroup) string {
	id, _ := CaseLabel(g)
	return id
}

func caseRelation(g core.CaseGroup) string {
	_, rel := CaseLabel(g)
	return rel
}

// RevisionLabel lists a revision group as "ID (active:x)" entries.
func RevisionLabel(g core.RevisionGroup) string {
	parts := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m.Active != "" {
			parts = append(parts, fmt.Sprintf("%s (active:%s)", m.ID, m.Active))
		} else {
			parts = append(parts, m.ID)
		}
	}
	return strings.Join(parts, ", ")
}

type choice struct {
	Label string
	Text  string
}

func choices(rec core.Record) []choice {
	fields := []string{core.FieldChoiceA, core.FieldChoiceB, core.FieldChoiceC, core.FieldChoiceD, core.FieldChoiceE}
	out := make([]choice, len(fields))
	for i, f := range fields {
		out[i] = choice{Label: string(rune('a' + i)), Text: rec[f]}
	}
	return out
}

func historyText(entries []core.HistoryEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return orNone(strings.Join(lines, "\n"))
}

func listCells(r core.ListRow) []string {
	return []string{r.ID, r.CaseID, r.Title, r.Domains, r.Difficulty, r.Active, r.Excerpt}
}

func importSummaryText(res *core.ImportResult) string {
	return fmt.Sprintf("%s: %d rows, %d inserted, %d updated, %d skipped. Store now holds %d questions.",
		res.FileName, res.Rows, res.Inserted, res.Updated, res.Skipped, res.StoreSize)
}

func skippedRows(rows []int) string {
	nums := make([]string, len(rows))
	for i, n := range rows {
		nums[i] = strconv.Itoa(n)
	}
	return strings.Join(nums, ", ")
}

// pivotRows returns a pivot's rows followed by its total row.
func pivotRows(p stats.Pivot) []stats.Row {
	return append(append([]stats.Row(nil), p.Rows...), p.Total)
}
