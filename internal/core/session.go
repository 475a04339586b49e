package core

import "time"

// Session owns the canonical store, the records authored in it and the
// authoring form. It is the only writer of the store. Session is not safe
// for concurrent use; Service wraps it with a lock.
type Session struct {
	store    *Store
	authored []Record
	form     Form
	history  History
	now      func() time.Time
}

// NewSession returns a session with an empty store and a blank new-mode form.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		store: NewStore(),
		form:  EnterNew(now()),
		now:   now,
	}
}

// Store exposes the canonical store for read-only derivations.
func (s *Session) Store() *Store {
	return s.store
}

// Form returns a copy of the current form state.
func (s *Session) Form() Form {
	f := s.form
	f.Values = f.Values.Clone()
	return f
}

// Authored returns copies of the records saved in new or revise mode.
func (s *Session) Authored() []Record {
	out := make([]Record, len(s.authored))
	for i, rec := range s.authored {
		out[i] = rec.Clone()
	}
	return out
}

// Merge folds normalized records from source into the store.
func (s *Session) Merge(records []Record, source string) MergeStats {
	return MergeAll(s.store, records, source)
}

// SetHistory replaces the loaded exam history.
func (s *Session) SetHistory(h History) {
	s.history = h
}

// History returns the loaded exam history.
func (s *Session) History() History {
	return s.history
}

// EnterMode switches the form. id is required for edit and revise.
func (s *Session) EnterMode(mode Mode, id string) (Form, error) {
	var (
		next Form
		err  error
	)
	switch mode {
	case ModeNew:
		next = EnterNew(s.now())
	case ModeEdit:
		next, err = EnterEdit(s.store, id)
	case ModeRevise:
		next, err = EnterRevise(s.store, id, s.now())
	default:
		_, err = ParseMode(string(mode))
	}
	if err != nil {
		return s.Form(), err
	}
	s.form = next
	return s.Form(), nil
}

// Reset returns the form to a blank new-mode state.
func (s *Session) Reset() Form {
	s.form = EnterNew(s.now())
	return s.Form()
}

// Unlock releases the hard-field lock after explicit confirmation.
func (s *Session) Unlock(confirmed bool) (Form, error) {
	next, err := Unlock(s.form, confirmed)
	if err != nil {
		return s.Form(), err
	}
	s.form = next
	return s.Form(), nil
}

// SaveOutcome reports a successful save.
type SaveOutcome struct {
	Kind   SaveKind `json:"kind"`
	Mode   Mode     `json:"mode"`
	Record Record   `json:"record"`
}

// Save applies a form submission. On error nothing changes.
func (s *Session) Save(input Record) (SaveOutcome, error) {
	plan, err := PlanSave(s.store, s.form, input, s.now())
	if err != nil {
		return SaveOutcome{}, err
	}

	switch plan.Kind {
	case SaveInsert:
		s.store.insert(plan.Record)
		s.authored = append(s.authored, plan.Record.Clone())
	case SaveUpdate:
		s.store.replace(plan.Record)
	}
	mode := s.form.Mode
	s.form = plan.Next

	return SaveOutcome{Kind: plan.Kind, Mode: mode, Record: plan.Record.Clone()}, nil
}

// ExportStore renders the whole store with the provenance column.
func (s *Session) ExportStore() (string, error) {
	return ExportRecords(StoreHeader(), s.store.List())
}

// ExportAuthored renders the records authored in this session.
func (s *Session) ExportAuthored() (string, error) {
	return ExportRecords(FieldNames(), s.authored)
}
