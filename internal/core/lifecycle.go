package core

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the authoring mode of the session's form.
type Mode string

const (
	ModeNew    Mode = "new"
	ModeEdit   Mode = "edit"
	ModeRevise Mode = "revise"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNew, ModeEdit, ModeRevise:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Default values a fresh form starts with.
var formDefaults = Record{
	FieldLanguage:   "ja",
	FieldDifficulty: "3",
	FieldActive:     "true",
}

// Form is the state of the single authoring form. Transitions below take a
// Form by value and return the next one; nothing is mutated in place.
type Form struct {
	Mode Mode `json:"mode"`
	// Target is the record loaded by edit or revise; empty in new mode.
	Target string `json:"target,omitempty"`
	// Locked freezes hard fields. Only edit mode starts locked.
	Locked bool   `json:"locked"`
	Values Record `json:"values"`
}

func stamp(now time.Time) string {
	return now.Local().Format(TimestampLayout)
}

// EnterNew starts a blank form: no target, unlocked, both timestamps now.
func EnterNew(now time.Time) Form {
	values := formDefaults.Clone()
	values[FieldCreatedAt] = stamp(now)
	values[FieldUpdatedAt] = stamp(now)
	return Form{Mode: ModeNew, Values: values}
}

// EnterEdit loads record id for in-place editing with hard fields locked.
// Timestamps are left as stored.
func EnterEdit(records RecordLookup, id string) (Form, error) {
	rec, ok := records.Get(id)
	if !ok {
		return Form{}, recordNotFound(id)
	}
	delete(rec, FieldSource)
	return Form{Mode: ModeEdit, Target: id, Locked: true, Values: rec}, nil
}

// EnterRevise loads record id as the template of a new record. The form is
// unlocked and both timestamps restart at now.
func EnterRevise(records RecordLookup, id string, now time.Time) (Form, error) {
	rec, ok := records.Get(id)
	if !ok {
		return Form{}, recordNotFound(id)
	}
	delete(rec, FieldSource)
	rec[FieldCreatedAt] = stamp(now)
	rec[FieldUpdatedAt] = stamp(now)
	return Form{Mode: ModeRevise, Target: id, Values: rec}, nil
}

// Unlock releases the hard-field lock. It needs an explicit confirmation and
// is a no-op on a form that is already unlocked.
func Unlock(f Form, confirmed bool) (Form, error) {
	if !f.Locked {
		return f, nil
	}
	if !confirmed {
		return f, ErrUnlockNotConfirmed
	}
	f.Locked = false
	return f, nil
}

// Editable reports whether field accepts input in the form's current state.
func (f Form) Editable(field string) bool {
	if !f.Locked {
		return true
	}
	spec, ok := LookupField(field)
	return !ok || spec.Lock != LockHard
}

// SaveKind tells how a save changes the store.
type SaveKind string

const (
	SaveInsert SaveKind = "insert"
	SaveUpdate SaveKind = "update"
)

// SavePlan is the validated effect of a save: the record to insert or
// replace and the form state that follows.
type SavePlan struct {
	Kind   SaveKind
	Record Record
	Next   Form
}

// PlanSave validates a form submission and computes its effect without
// touching the store.
//
// In new and revise mode the submission becomes a new record; an empty or
// already present identifier is rejected. In edit mode the form must be
// unlocked and only the soft fields and choice texts of the target are
// overwritten, for keys present in input; updated_at is the only stamp
// refreshed. Every accepted value is sanitized for its field.
func PlanSave(records RecordLookup, f Form, input Record, now time.Time) (SavePlan, error) {
	switch f.Mode {
	case ModeNew, ModeRevise:
		return planInsert(records, f, input, now)
	case ModeEdit:
		return planUpdate(records, f, input, now)
	default:
		return SavePlan{}, fmt.Errorf("%w: %q", ErrInvalidMode, f.Mode)
	}
}

func planInsert(records RecordLookup, f Form, input Record, now time.Time) (SavePlan, error) {
	id := strings.TrimSpace(input[FieldQuestionID])
	if id == "" {
		return SavePlan{}, ErrMissingIdentifier
	}
	if records.Has(id) {
		return SavePlan{}, duplicateIdentifier(id)
	}

	rec := make(Record, len(Schema))
	for _, spec := range Schema {
		rec[spec.Name] = cleanInput(spec, input[spec.Name])
	}
	rec[FieldQuestionID] = id

	created := stamp(now)
	if f.Mode == ModeRevise {
		if v := rec[FieldCreatedAt]; v != "" {
			created = v
		} else if v := f.Values[FieldCreatedAt]; v != "" {
			created = v
		}
	}
	rec[FieldCreatedAt] = created
	rec[FieldUpdatedAt] = stamp(now)

	next := f
	next.Values = rec.Clone()
	return SavePlan{Kind: SaveInsert, Record: rec, Next: next}, nil
}

func planUpdate(records RecordLookup, f Form, input Record, now time.Time) (SavePlan, error) {
	if f.Target == "" {
		return SavePlan{}, ErrNoEditTarget
	}
	target, ok := records.Get(f.Target)
	if !ok {
		return SavePlan{}, recordNotFound(f.Target)
	}
	if f.Locked {
		return SavePlan{}, ErrFormLocked
	}

	for _, field := range editSaveFields {
		v, present := input[field]
		if !present {
			continue
		}
		spec, _ := LookupField(field)
		target[field] = cleanInput(spec, v)
	}
	target[FieldUpdatedAt] = stamp(now)

	next := f
	next.Values = target.Clone()
	delete(next.Values, FieldSource)
	return SavePlan{Kind: SaveUpdate, Record: target, Next: next}, nil
}

// cleanInput trims a submitted value and sanitizes it for the field.
func cleanInput(spec FieldSpec, v string) string {
	v = strings.TrimSpace(v)
	if spec.Name == FieldCorrect {
		return strings.Join(SplitList(v), ",")
	}
	return Sanitize(v, spec.Content)
}
