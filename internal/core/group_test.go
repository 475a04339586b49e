package core

import (
	"errors"
	"reflect"
	"testing"
)

func storeOf(records ...Record) *Store {
	s := NewStore()
	MergeAll(s, records, "test.csv")
	return s
}

func TestBaseID(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{"Q1", "Q1"},
		{"Q1R1", "Q1"},
		{"Q1R12", "Q1"},
		{"Q1R", "Q1R"},
		{"Q1r1", "Q1r1"},
		{"QR1X", "QR1X"},
		// Known false positive: a code that merely ends in R+digits.
		{"Q100R5", "Q100"},
		{"R1", ""},
	}

	for _, tt := range tests {
		if got := BaseID(tt.id); got != tt.want {
			t.Errorf("BaseID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRevisionGroupOf(t *testing.T) {
	s := storeOf(
		rec(FieldQuestionID, "Q1", FieldActive, "false"),
		rec(FieldQuestionID, "Q2", FieldActive, "true"),
		rec(FieldQuestionID, "Q1R1", FieldActive, "false"),
		rec(FieldQuestionID, "Q1R2", FieldActive, "true"),
	)

	g := RevisionGroupOf(s, "Q1R2")
	want := RevisionGroup{BaseID: "Q1", Members: []RevisionMember{
		{ID: "Q1", Active: "false"},
		{ID: "Q1R1", Active: "false"},
		{ID: "Q1R2", Active: "true"},
	}}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("RevisionGroupOf(Q1R2) = %+v, want %+v", g, want)
	}

	alone := RevisionGroupOf(s, "Q2")
	if len(alone.Members) != 1 || alone.Members[0].ID != "Q2" {
		t.Errorf("RevisionGroupOf(Q2) = %+v, want only Q2", alone)
	}

	none := RevisionGroupOf(s, "Z9")
	if none.BaseID != "Z9" || len(none.Members) != 0 {
		t.Errorf("RevisionGroupOf(Z9) = %+v, want empty group", none)
	}
}

func TestRevisionGroups(t *testing.T) {
	s := storeOf(
		rec(FieldQuestionID, "Q1"),
		rec(FieldQuestionID, "Q2"),
		rec(FieldQuestionID, "Q1R1"),
	)

	groups := RevisionGroups(s)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].BaseID != "Q1" || len(groups[0].Members) != 2 {
		t.Errorf("groups[0] = %+v", groups[0])
	}
	if groups[1].BaseID != "Q2" || len(groups[1].Members) != 1 {
		t.Errorf("groups[1] = %+v", groups[1])
	}
}

func TestCaseGroupOf(t *testing.T) {
	s := storeOf(
		rec(FieldQuestionID, "Q1", FieldCaseID, "C1"),
		rec(FieldQuestionID, "Q2", FieldCaseID, "C1"),
		rec(FieldQuestionID, "Q3", FieldCaseID, "C2"),
		rec(FieldQuestionID, "Q4"),
		rec(FieldQuestionID, "Q5"),
	)

	tests := []struct {
		id   string
		want CaseGroup
	}{
		{"Q1", CaseGroup{CaseID: "C1", Kind: CaseMulti, MemberIDs: []string{"Q1", "Q2"}}},
		{"Q2", CaseGroup{CaseID: "C1", Kind: CaseMulti, MemberIDs: []string{"Q1", "Q2"}}},
		{"Q3", CaseGroup{CaseID: "C2", Kind: CaseSingle, MemberIDs: []string{"Q3"}}},
		{"Q4", CaseGroup{Kind: CaseNone, MemberIDs: []string{"Q4"}}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := CaseGroupOf(s, tt.id)
			if err != nil {
				t.Fatalf("CaseGroupOf() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CaseGroupOf(%s) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}

	if _, err := CaseGroupOf(s, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("CaseGroupOf(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestCaseMembers_NoMatch(t *testing.T) {
	s := storeOf(rec(FieldQuestionID, "Q1"))

	for _, caseID := range []string{"", "C9"} {
		g := CaseMembers(s, caseID)
		if len(g.MemberIDs) != 0 || g.Kind != "" {
			t.Errorf("CaseMembers(%q) = %+v, want empty group", caseID, g)
		}
	}
}

func TestCaseGroups_EmptyCaseNeverShared(t *testing.T) {
	s := storeOf(
		rec(FieldQuestionID, "Q1"),
		rec(FieldQuestionID, "Q2", FieldCaseID, "C1"),
		rec(FieldQuestionID, "Q3"),
		rec(FieldQuestionID, "Q4", FieldCaseID, "C1"),
	)

	groups := CaseGroups(s)
	want := []CaseGroup{
		{Kind: CaseNone, MemberIDs: []string{"Q1"}},
		{CaseID: "C1", Kind: CaseMulti, MemberIDs: []string{"Q2", "Q4"}},
		{Kind: CaseNone, MemberIDs: []string{"Q3"}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("CaseGroups() = %+v, want %+v", groups, want)
	}
}

func TestGroups_EmptyStore(t *testing.T) {
	s := NewStore()
	if g := CaseGroups(s); len(g) != 0 {
		t.Errorf("CaseGroups() = %v, want none", g)
	}
	if g := RevisionGroups(s); len(g) != 0 {
		t.Errorf("RevisionGroups() = %v, want none", g)
	}
}
