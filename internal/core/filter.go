package core

import (
	"regexp"
	"strings"
)

// Filter selects records for the list view. Empty criteria match everything.
type Filter struct {
	// Keyword is matched case-insensitively against title, question text,
	// keywords and case text.
	Keyword    string `json:"q,omitempty"`
	Domain     string `json:"domain,omitempty"` // domain1 or domain2
	Language   string `json:"language,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Active     string `json:"active,omitempty"`
}

// Match reports whether rec satisfies every criterion.
func (f Filter) Match(rec Record) bool {
	if kw := strings.ToLower(f.Keyword); kw != "" {
		blob := strings.ToLower(strings.Join([]string{
			rec[FieldTitle], rec[FieldQuestionText], rec[FieldKeywords], rec[FieldCaseText],
		}, " "))
		if !strings.Contains(blob, kw) {
			return false
		}
	}
	if f.Domain != "" && rec[FieldDomain1] != f.Domain && rec[FieldDomain2] != f.Domain {
		return false
	}
	if f.Language != "" && rec[FieldLanguage] != f.Language {
		return false
	}
	if f.Difficulty != "" && rec[FieldDifficulty] != f.Difficulty {
		return false
	}
	if f.Active != "" && rec[FieldActive] != f.Active {
		return false
	}
	return true
}

// ListRow is the one-line summary shown in the question table.
type ListRow struct {
	ID         string `json:"question_id"`
	CaseID     string `json:"case_id"`
	Title      string `json:"title"`
	Domains    string `json:"domains"`
	Department string `json:"department"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
	Active     string `json:"active"`
	Excerpt    string `json:"excerpt"`
	Source     string `json:"source,omitempty"`
}

// ExcerptLength is the number of characters kept in a question excerpt.
const ExcerptLength = 60

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Excerpt strips tags from s, collapses whitespace and keeps the first n runes.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(tagPattern.ReplaceAllString(s, "")), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

// ToListRow summarizes rec for the question table.
func ToListRow(rec Record) ListRow {
	var domains []string
	for _, d := range []string{rec[FieldDomain1], rec[FieldDomain2]} {
		if d != "" {
			domains = append(domains, d)
		}
	}
	return ListRow{
		ID:         rec.ID(),
		CaseID:     rec[FieldCaseID],
		Title:      rec[FieldTitle],
		Domains:    strings.Join(domains, " / "),
		Department: rec[FieldDepartment],
		Difficulty: rec[FieldDifficulty],
		Language:   rec[FieldLanguage],
		Active:     rec[FieldActive],
		Excerpt:    Excerpt(rec[FieldQuestionText], ExcerptLength),
		Source:     rec[FieldSource],
	}
}
