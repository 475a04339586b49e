package core

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var (
	t0 = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
	t1 = time.Date(2024, 5, 2, 14, 5, 9, 0, time.Local)
)

const (
	stamp0 = "2024-05-01 09:30:00"
	stamp1 = "2024-05-02 14:05:09"
)

func lifecycleStore() *Store {
	return storeOf(rec(
		FieldQuestionID, "Q1",
		FieldTitle, "Heart",
		FieldAuthor, "Sato",
		FieldChoiceA, "one",
		FieldCorrect, "A",
		FieldComment, "old",
		FieldCreatedAt, "2020-01-01 00:00:00",
		FieldUpdatedAt, "2020-01-02 00:00:00",
	))
}

func TestEnterNew(t *testing.T) {
	f := EnterNew(t0)

	if f.Mode != ModeNew || f.Target != "" || f.Locked {
		t.Errorf("EnterNew() = %+v", f)
	}
	want := Record{
		FieldLanguage:   "ja",
		FieldDifficulty: "3",
		FieldActive:     "true",
		FieldCreatedAt:  stamp0,
		FieldUpdatedAt:  stamp0,
	}
	if !reflect.DeepEqual(f.Values, want) {
		t.Errorf("Values = %v, want %v", f.Values, want)
	}

	f.Values[FieldLanguage] = "en"
	if EnterNew(t0).Values[FieldLanguage] != "ja" {
		t.Error("defaults were mutated through a form")
	}
}

func TestEnterEdit(t *testing.T) {
	s := lifecycleStore()

	if _, err := EnterEdit(s, "nope"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("EnterEdit(nope) error = %v, want ErrRecordNotFound", err)
	}

	f, err := EnterEdit(s, "Q1")
	if err != nil {
		t.Fatalf("EnterEdit() error = %v", err)
	}
	if f.Mode != ModeEdit || f.Target != "Q1" || !f.Locked {
		t.Errorf("EnterEdit() = %+v", f)
	}
	if f.Values[FieldUpdatedAt] != "2020-01-02 00:00:00" {
		t.Errorf("updated_at = %q, want stored value", f.Values[FieldUpdatedAt])
	}
	if _, has := f.Values[FieldSource]; has {
		t.Error("form values should not carry _source")
	}

	f.Values[FieldTitle] = "changed"
	stored, _ := s.Get("Q1")
	if stored[FieldTitle] != "Heart" {
		t.Error("editing the form changed the store")
	}
}

func TestEnterRevise(t *testing.T) {
	s := lifecycleStore()

	if _, err := EnterRevise(s, "nope", t0); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("EnterRevise(nope) error = %v, want ErrRecordNotFound", err)
	}

	f, err := EnterRevise(s, "Q1", t0)
	if err != nil {
		t.Fatalf("EnterRevise() error = %v", err)
	}
	if f.Mode != ModeRevise || f.Target != "Q1" || f.Locked {
		t.Errorf("EnterRevise() = %+v", f)
	}
	if f.Values[FieldCreatedAt] != stamp0 || f.Values[FieldUpdatedAt] != stamp0 {
		t.Errorf("timestamps = %q/%q, want %q", f.Values[FieldCreatedAt], f.Values[FieldUpdatedAt], stamp0)
	}
	if f.Values[FieldTitle] != "Heart" {
		t.Errorf("title = %q, want template value", f.Values[FieldTitle])
	}
}

func TestUnlock(t *testing.T) {
	f, _ := EnterEdit(lifecycleStore(), "Q1")

	still, err := Unlock(f, false)
	if !errors.Is(err, ErrUnlockNotConfirmed) {
		t.Fatalf("Unlock(false) error = %v", err)
	}
	if !still.Locked || !f.Locked {
		t.Error("unconfirmed unlock released the lock")
	}

	open, err := Unlock(f, true)
	if err != nil {
		t.Fatalf("Unlock(true) error = %v", err)
	}
	if open.Locked {
		t.Error("confirmed unlock left the form locked")
	}
	if !f.Locked {
		t.Error("Unlock mutated its input")
	}

	again, err := Unlock(open, false)
	if err != nil || again.Locked {
		t.Errorf("Unlock on open form = %+v, %v", again, err)
	}
}

func TestForm_Editable(t *testing.T) {
	f, _ := EnterEdit(lifecycleStore(), "Q1")

	hard := []string{FieldQuestionID, FieldCaseID, FieldTitle, FieldAuthor, FieldDepartment, FieldLanguage,
		FieldDifficulty, FieldDomain1, FieldDomain2, FieldActive, FieldTag, FieldCaseText, FieldQuestionText,
		FieldChoiceA, FieldChoiceE, FieldCreatedAt}
	soft := []string{FieldCorrect, FieldKeywords, FieldComment, FieldExplanation, FieldRevisionNote, FieldImageFile}

	for _, field := range hard {
		if f.Editable(field) {
			t.Errorf("%s editable while locked", field)
		}
	}
	for _, field := range soft {
		if !f.Editable(field) {
			t.Errorf("%s not editable while locked", field)
		}
	}

	open, _ := Unlock(f, true)
	for _, field := range append(hard, soft...) {
		if !open.Editable(field) {
			t.Errorf("%s not editable after unlock", field)
		}
	}
}

func TestPlanSave_New(t *testing.T) {
	s := lifecycleStore()
	f := EnterNew(t0)

	t.Run("missing identifier", func(t *testing.T) {
		_, err := PlanSave(s, f, Record{FieldTitle: "x", FieldQuestionID: "  "}, t1)
		if !errors.Is(err, ErrMissingIdentifier) {
			t.Errorf("error = %v, want ErrMissingIdentifier", err)
		}
	})

	t.Run("duplicate identifier", func(t *testing.T) {
		_, err := PlanSave(s, f, Record{FieldQuestionID: "Q1"}, t1)
		if !errors.Is(err, ErrDuplicateIdentifier) {
			t.Errorf("error = %v, want ErrDuplicateIdentifier", err)
		}
		if s.Len() != 1 {
			t.Errorf("store changed: %d records", s.Len())
		}
	})

	t.Run("inserts sanitized record", func(t *testing.T) {
		plan, err := PlanSave(s, f, Record{
			FieldQuestionID:   " Q2 ",
			FieldTitle:        "Lung",
			FieldQuestionText: "<p>What <b>is</b> it?</p>",
			FieldComment:      `<em class="x">note</em><script>bad</script>`,
			FieldCorrect:      "A, c ,",
			FieldCreatedAt:    "1999-01-01 00:00:00",
		}, t1)
		if err != nil {
			t.Fatalf("PlanSave() error = %v", err)
		}
		if plan.Kind != SaveInsert {
			t.Errorf("Kind = %q, want insert", plan.Kind)
		}
		r := plan.Record
		checks := map[string]string{
			FieldQuestionID:   "Q2",
			FieldTitle:        "Lung",
			FieldQuestionText: "What is it?",
			FieldComment:      "<em>note</em>bad",
			FieldCorrect:      "A,c",
			FieldCreatedAt:    stamp1,
			FieldUpdatedAt:    stamp1,
		}
		for field, want := range checks {
			if r[field] != want {
				t.Errorf("%s = %q, want %q", field, r[field], want)
			}
		}
		if len(r) != len(Schema) {
			t.Errorf("record has %d fields, want %d", len(r), len(Schema))
		}
		if s.Has("Q2") {
			t.Error("PlanSave wrote to the store")
		}
	})
}

func TestPlanSave_ReviseKeepsCreatedStamp(t *testing.T) {
	s := lifecycleStore()
	f, _ := EnterRevise(s, "Q1", t0)

	input := f.Values.Clone()
	input[FieldQuestionID] = "Q1R1"
	input[FieldCreatedAt] = ""

	plan, err := PlanSave(s, f, input, t1)
	if err != nil {
		t.Fatalf("PlanSave() error = %v", err)
	}
	if plan.Record[FieldCreatedAt] != stamp0 {
		t.Errorf("created_at = %q, want revise entry stamp %q", plan.Record[FieldCreatedAt], stamp0)
	}
	if plan.Record[FieldUpdatedAt] != stamp1 {
		t.Errorf("updated_at = %q, want %q", plan.Record[FieldUpdatedAt], stamp1)
	}

	if _, err := PlanSave(s, f, f.Values, t1); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("revise saved under the original ID: %v", err)
	}
}

func TestPlanSave_Edit(t *testing.T) {
	s := lifecycleStore()
	locked, _ := EnterEdit(s, "Q1")
	input := Record{
		FieldTitle:   "hijacked",
		FieldChoiceA: "<b>uno</b>",
		FieldCorrect: "B",
		FieldComment: "<b>new</b>",
	}

	if _, err := PlanSave(s, locked, input, t1); !errors.Is(err, ErrFormLocked) {
		t.Fatalf("locked save error = %v, want ErrFormLocked", err)
	}

	open, _ := Unlock(locked, true)
	plan, err := PlanSave(s, open, input, t1)
	if err != nil {
		t.Fatalf("PlanSave() error = %v", err)
	}
	if plan.Kind != SaveUpdate {
		t.Errorf("Kind = %q, want update", plan.Kind)
	}

	r := plan.Record
	if r[FieldTitle] != "Heart" {
		t.Errorf("hard field title changed to %q", r[FieldTitle])
	}
	if r[FieldChoiceA] != "uno" || r[FieldCorrect] != "B" || r[FieldComment] != "<b>new</b>" {
		t.Errorf("soft fields = %q %q %q", r[FieldChoiceA], r[FieldCorrect], r[FieldComment])
	}
	if r[FieldCreatedAt] != "2020-01-01 00:00:00" {
		t.Errorf("created_at changed to %q", r[FieldCreatedAt])
	}
	if r[FieldUpdatedAt] != stamp1 {
		t.Errorf("updated_at = %q, want %q", r[FieldUpdatedAt], stamp1)
	}
	if r[FieldAuthor] != "Sato" {
		t.Errorf("author = %q, want untouched", r[FieldAuthor])
	}
}

func TestPlanSave_EditWithoutTarget(t *testing.T) {
	_, err := PlanSave(NewStore(), Form{Mode: ModeEdit}, Record{}, t1)
	if !errors.Is(err, ErrNoEditTarget) {
		t.Errorf("error = %v, want ErrNoEditTarget", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, in := range []string{"new", "EDIT", " revise "} {
		if _, err := ParseMode(in); err != nil {
			t.Errorf("ParseMode(%q) error = %v", in, err)
		}
	}
	if _, err := ParseMode("delete"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("ParseMode(delete) error = %v, want ErrInvalidMode", err)
	}
}
