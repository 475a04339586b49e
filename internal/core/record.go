package core

import "strings"

// Canonical field names of a question record.
const (
	FieldQuestionID   = "question_id"
	FieldCaseID       = "case_id"
	FieldCaseText     = "case_text"
	FieldTitle        = "title"
	FieldDepartment   = "department"
	FieldAuthor       = "author"
	FieldLanguage     = "language"
	FieldDifficulty   = "difficulty"
	FieldDomain1      = "domain1"
	FieldDomain2      = "domain2"
	FieldActive       = "active"
	FieldTag          = "tag"
	FieldQuestionText = "question_text"
	FieldChoiceA      = "choice_a"
	FieldChoiceB      = "choice_b"
	FieldChoiceC      = "choice_c"
	FieldChoiceD      = "choice_d"
	FieldChoiceE      = "choice_e"
	FieldCorrect      = "correct"
	FieldKeywords     = "keywords"
	FieldImageFile    = "image_file"
	FieldComment      = "comment"
	FieldExplanation  = "explanation"
	FieldCreatedAt    = "created_at"
	FieldUpdatedAt    = "updated_at"
	FieldRevisionNote = "revision_note"

	// FieldSource names the last import file that supplied or touched a record.
	FieldSource = "_source"
)

// TimestampLayout is the local-time format of created_at and updated_at.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one question keyed by canonical field name. Absent keys read as "".
type Record map[string]string

// ID returns the question identifier.
func (r Record) ID() string {
	return r[FieldQuestionID]
}

// Get returns the value of field, or "" when unset.
func (r Record) Get(field string) string {
	return r[field]
}

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Values returns the record's values in header order, filling gaps with "".
func (r Record) Values(header []string) map[string]string {
	out := make(map[string]string, len(header))
	for _, h := range header {
		out[h] = r[h]
	}
	return out
}

// SplitList splits a comma-joined value, trimming entries and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
