package core

import "regexp"

// CaseKind labels a case group by its size.
type CaseKind string

const (
	CaseNone   CaseKind = "no case"
	CaseSingle CaseKind = "single question with case"
	CaseMulti  CaseKind = "multi-part case set"
)

// CaseGroup is the set of records sharing a case identifier. A record without
// a case identifier forms a CaseNone group holding only itself.
type CaseGroup struct {
	CaseID    string   `json:"case_id"`
	Kind      CaseKind `json:"kind"`
	MemberIDs []string `json:"member_ids"`
}

// revisionSuffix marks a revision: a trailing "R" followed by digits. It also
// matches identifiers that merely end that way, e.g. "Q100R5" where "R5" is
// part of the code.
var revisionSuffix = regexp.MustCompile(`R\d+$`)

// BaseID strips a trailing revision suffix from id.
func BaseID(id string) string {
	return revisionSuffix.ReplaceAllString(id, "")
}

// RevisionMember is one record of a revision group.
type RevisionMember struct {
	ID     string `json:"question_id"`
	Active string `json:"active"`
}

// RevisionGroup is the set of records sharing a base identifier.
type RevisionGroup struct {
	BaseID  string           `json:"base_id"`
	Members []RevisionMember `json:"members"`
}

func caseKind(caseID string, size int) CaseKind {
	switch {
	case caseID == "":
		return CaseNone
	case size > 1:
		return CaseMulti
	default:
		return CaseSingle
	}
}

// CaseMembers returns the group for a non-empty case identifier. An unknown
// or empty caseID yields a group with no members and no kind.
func CaseMembers(s *Store, caseID string) CaseGroup {
	g := CaseGroup{CaseID: caseID, MemberIDs: []string{}}
	if caseID == "" {
		return g
	}
	s.each(func(rec Record) {
		if rec[FieldCaseID] == caseID {
			g.MemberIDs = append(g.MemberIDs, rec.ID())
		}
	})
	if len(g.MemberIDs) > 0 {
		g.Kind = caseKind(caseID, len(g.MemberIDs))
	}
	return g
}

// CaseGroupOf returns the case group the record id belongs to.
func CaseGroupOf(s *Store, id string) (CaseGroup, error) {
	rec, ok := s.byID[id]
	if !ok {
		return CaseGroup{}, recordNotFound(id)
	}
	caseID := rec[FieldCaseID]
	if caseID == "" {
		return CaseGroup{Kind: CaseNone, MemberIDs: []string{id}}, nil
	}
	return CaseMembers(s, caseID), nil
}

// CaseGroups derives every case group in presentation order of first member.
func CaseGroups(s *Store) []CaseGroup {
	var groups []CaseGroup
	index := map[string]int{}
	s.each(func(rec Record) {
		caseID := rec[FieldCaseID]
		if caseID == "" {
			groups = append(groups, CaseGroup{Kind: CaseNone, MemberIDs: []string{rec.ID()}})
			return
		}
		i, ok := index[caseID]
		if !ok {
			i = len(groups)
			index[caseID] = i
			groups = append(groups, CaseGroup{CaseID: caseID})
		}
		groups[i].MemberIDs = append(groups[i].MemberIDs, rec.ID())
	})
	for i := range groups {
		groups[i].Kind = caseKind(groups[i].CaseID, len(groups[i].MemberIDs))
	}
	return groups
}

// RevisionGroupOf returns the records sharing id's base identifier. id itself
// need not be stored; no match yields an empty member list.
func RevisionGroupOf(s *Store, id string) RevisionGroup {
	base := BaseID(id)
	g := RevisionGroup{BaseID: base, Members: []RevisionMember{}}
	s.each(func(rec Record) {
		if BaseID(rec.ID()) == base {
			g.Members = append(g.Members, RevisionMember{ID: rec.ID(), Active: rec[FieldActive]})
		}
	})
	return g
}

// RevisionGroups derives every revision group in presentation order of first member.
func RevisionGroups(s *Store) []RevisionGroup {
	var groups []RevisionGroup
	index := map[string]int{}
	s.each(func(rec Record) {
		base := BaseID(rec.ID())
		i, ok := index[base]
		if !ok {
			i = len(groups)
			index[base] = i
			groups = append(groups, RevisionGroup{BaseID: base})
		}
		groups[i].Members = append(groups[i].Members, RevisionMember{ID: rec.ID(), Active: rec[FieldActive]})
	})
	return groups
}
