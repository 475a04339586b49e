// Package stats counts the question store by category and difficulty.
package stats

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/qbank/internal/core"
)

// Levels is the number of difficulty columns in a pivot.
const Levels = 5

const (
	// UnknownKey labels records whose category is empty.
	UnknownKey = "(不明)"
	// TotalKey labels the grand total row.
	TotalKey = "合計"
)

// Row is one category's difficulty histogram. Counts[i] holds difficulty i+1.
// Total also counts records whose difficulty is not 1..5.
type Row struct {
	Key    string      `json:"key"`
	Counts [Levels]int `json:"counts"`
	Total  int         `json:"total"`
}

func (r *Row) add(o Row) {
	for i := range r.Counts {
		r.Counts[i] += o.Counts[i]
	}
	r.Total += o.Total
}

// Pivot is a category x difficulty table. Rows are sorted by key; Total sums them.
type Pivot struct {
	Name  string `json:"name"`
	Rows  []Row  `json:"rows"`
	Total Row    `json:"total"`
}

// Report is the full statistics view of a store.
type Report struct {
	Questions int   `json:"questions"`
	Language  Pivot `json:"language"`
	Author    Pivot `json:"author"`
	Domain    Pivot `json:"domain"`
}

// Pivots returns the report's tables in display order.
func (r Report) Pivots() []Pivot {
	return []Pivot{r.Language, r.Author, r.Domain}
}

// Difficulty maps a difficulty cell to its level. "Lv2", "lv2" and "2" all
// read as 2; anything outside 1..5 is not a level.
func Difficulty(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "lv") {
		s = s[2:]
	}
	if len(s) != 1 || s[0] < '1' || s[0] > '0'+Levels {
		return 0, false
	}
	return int(s[0] - '0'), true
}

// keyed pairs a category with the difficulty it is counted under.
type keyed struct {
	key        string
	difficulty string
}

// Build computes the report for records.
func Build(records []core.Record) Report {
	var lang, author, domain []keyed
	for _, rec := range records {
		d := rec[core.FieldDifficulty]
		lang = append(lang, keyed{rec[core.FieldLanguage], d})
		author = append(author, keyed{rec[core.FieldAuthor], d})
		for _, f := range []string{core.FieldDomain1, core.FieldDomain2} {
			if v := rec[f]; v != "" {
				domain = append(domain, keyed{v, d})
			}
		}
	}
	return Report{
		Questions: len(records),
		Language:  buildPivot("language", lang),
		Author:    buildPivot("author", author),
		Domain:    buildPivot("domain", domain),
	}
}

func buildPivot(name string, items []keyed) Pivot {
	byKey := map[string]*Row{}
	for _, it := range items {
		key := it.key
		if key == "" {
			key = UnknownKey
		}
		row, ok := byKey[key]
		if !ok {
			row = &Row{Key: key}
			byKey[key] = row
		}
		if lv, ok := Difficulty(it.difficulty); ok {
			row.Counts[lv-1]++
		}
		row.Total++
	}

	p := Pivot{Name: name, Rows: make([]Row, 0, len(byKey)), Total: Row{Key: TotalKey}}
	for _, row := range byKey {
		p.Rows = append(p.Rows, *row)
		p.Total.add(*row)
	}
	sort.Slice(p.Rows, func(i, j int) bool { return p.Rows[i].Key < p.Rows[j].Key })
	return p
}
