package core

// LockClass says whether a field is frozen while an edit form is locked.
type LockClass int

const (
	// LockNone fields are never disabled (file references and system stamps).
	LockNone LockClass = iota
	// LockHard fields carry identity or exam content and are disabled while locked.
	LockHard
	// LockSoft fields are answer-adjacent or annotations and stay editable.
	LockSoft
)

// ContentClass selects how a field's value is cleaned when accepted.
type ContentClass int

const (
	// ClassText values are trimmed and otherwise kept verbatim.
	ClassText ContentClass = iota
	// ClassPlain is rich text that may carry no markup at all.
	ClassPlain
	// ClassAnnotation is rich text that may carry inline emphasis tags.
	ClassAnnotation
)

// FieldSpec describes one canonical field: the header names it is read from,
// its lock class and its content class.
type FieldSpec struct {
	Name    string
	Aliases []string // tried in order after Name
	Lock    LockClass
	Content ContentClass
}

// Schema lists every canonical field in export order.
var Schema = []FieldSpec{
	{Name: FieldQuestionID, Aliases: []string{"ID", "問題ID"}, Lock: LockHard},
	{Name: FieldCaseID, Aliases: []string{"症例ID"}, Lock: LockHard},
	{Name: FieldCaseText, Aliases: []string{"症例文"}, Lock: LockHard, Content: ClassPlain},
	{Name: FieldTitle, Aliases: []string{"タイトル"}, Lock: LockHard},
	{Name: FieldDepartment, Aliases: []string{"教室"}, Lock: LockHard},
	{Name: FieldAuthor, Aliases: []string{"作問者"}, Lock: LockHard},
	{Name: FieldLanguage, Aliases: []string{"言語"}, Lock: LockHard},
	{Name: FieldDifficulty, Aliases: []string{"難易度"}, Lock: LockHard},
	{Name: FieldDomain1, Aliases: []string{"領域1"}, Lock: LockHard},
	{Name: FieldDomain2, Aliases: []string{"領域2"}, Lock: LockHard},
	{Name: FieldActive, Aliases: []string{"状態"}, Lock: LockHard},
	{Name: FieldTag, Aliases: []string{"タグ"}, Lock: LockHard},
	{Name: FieldQuestionText, Aliases: []string{"問題文"}, Lock: LockHard, Content: ClassPlain},
	{Name: FieldChoiceA, Aliases: []string{"選択肢1"}, Lock: LockHard, Content: ClassPlain},
	{Name: FieldChoiceB, Aliases: []string{"選択肢2"}, Lock: LockHard, Content: ClassPlain},
	{Name: FieldChoiceC, Aliases: []string{"選択肢3"}, Lock: LockHard, Content: ClassPlain},
	{Name: FieldChoiceD, Aliases: []string{"選択肢4"}, Lock: LockHard, Content: ClassPlain},
	{Name: FieldChoiceE, Aliases: []string{"選択肢5"}, Lock: LockHard, Content: ClassPlain},
	{Name: FieldCorrect, Aliases: []string{"正解"}, Lock: LockSoft},
	{Name: FieldKeywords, Aliases: []string{"キーワード"}, Lock: LockSoft},
	{Name: FieldImageFile, Aliases: []string{"画像"}, Lock: LockNone},
	{Name: FieldComment, Aliases: []string{"自由コメント"}, Lock: LockSoft, Content: ClassAnnotation},
	{Name: FieldExplanation, Aliases: []string{"解説"}, Lock: LockSoft, Content: ClassAnnotation},
	{Name: FieldCreatedAt, Aliases: []string{"作成日時"}, Lock: LockHard},
	{Name: FieldUpdatedAt, Aliases: []string{"最終更新日時"}, Lock: LockNone},
	{Name: FieldRevisionNote, Aliases: []string{"修正メモ"}, Lock: LockSoft},
}

// editSaveFields are the only fields an edit-mode save writes back.
var editSaveFields = []string{
	FieldChoiceA, FieldChoiceB, FieldChoiceC, FieldChoiceD, FieldChoiceE,
	FieldCorrect, FieldKeywords, FieldComment, FieldExplanation, FieldRevisionNote,
}

var specByName = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(Schema))
	for _, spec := range Schema {
		m[spec.Name] = spec
	}
	return m
}()

// LookupField returns the schema entry for a canonical field name.
func LookupField(name string) (FieldSpec, bool) {
	spec, ok := specByName[name]
	return spec, ok
}

// FieldNames returns the canonical field names in export order.
func FieldNames() []string {
	names := make([]string, len(Schema))
	for i, spec := range Schema {
		names[i] = spec.Name
	}
	return names
}

// StoreHeader is the export header of the whole store: every canonical field
// followed by the provenance column.
func StoreHeader() []string {
	return append(FieldNames(), FieldSource)
}
