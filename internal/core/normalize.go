package core

import (
	"strings"

	"github.com/JonMunkholm/qbank/internal/csv"
)

// Normalize maps a header-keyed row onto the canonical schema.
//
// Each field takes the canonical column when it is non-empty, else the first
// non-empty alias column in Schema order, else "". Rich-text fields are
// sanitized for their class. ok is false when no identifier resolves; such
// rows are skipped, not reported as errors.
func Normalize(raw map[string]string) (rec Record, ok bool) {
	rec = make(Record, len(Schema))
	for _, spec := range Schema {
		rec[spec.Name] = Sanitize(resolve(raw, spec), spec.Content)
	}
	if rec.ID() == "" {
		return nil, false
	}
	return rec, true
}

func resolve(raw map[string]string, spec FieldSpec) string {
	if v := strings.TrimSpace(raw[spec.Name]); v != "" {
		return v
	}
	for _, alias := range spec.Aliases {
		if v := strings.TrimSpace(raw[alias]); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeResult is the outcome of normalizing every data row of a table.
type NormalizeResult struct {
	Records []Record
	// SkippedRows holds 1-based data row positions that had no identifier.
	SkippedRows []int
}

// NormalizeTable normalizes all data rows of table in file order.
func NormalizeTable(table csv.Table) NormalizeResult {
	var res NormalizeResult
	for i, row := range table.Rows {
		rec, ok := Normalize(table.Record(row))
		if !ok {
			res.SkippedRows = append(res.SkippedRows, i+1)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}
