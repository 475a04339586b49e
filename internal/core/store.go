package core

// RecordLookup is the read access lifecycle transitions need.
type RecordLookup interface {
	Get(id string) (Record, bool)
	Has(id string) bool
}

// Store is the canonical record set, one record per question identifier.
//
// Lookup goes through an identifier map. Presentation order is kept in a
// separate slice: an identifier takes its place the first time it is inserted
// and keeps it through later merges and edits. Store is not safe for
// concurrent use; Service serializes access.
type Store struct {
	byID  map[string]Record
	order []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]Record)}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.order)
}

// Has reports whether id is present.
func (s *Store) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Get returns a copy of the record with identifier id.
func (s *Store) Get(id string) (Record, bool) {
	rec, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// IDs returns identifiers in presentation order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// List returns copies of all records in presentation order.
func (s *Store) List() []Record {
	out := make([]Record, 0, len(s.order))
	s.each(func(rec Record) {
		out = append(out, rec.Clone())
	})
	return out
}

// each visits stored records in presentation order without copying.
// fn must not modify the record.
func (s *Store) each(fn func(Record)) {
	for _, id := range s.order {
		fn(s.byID[id])
	}
}

// insert adds a record whose identifier is not yet present.
func (s *Store) insert(rec Record) {
	id := rec.ID()
	s.byID[id] = rec
	s.order = append(s.order, id)
}

// replace swaps in a new version of an existing record.
func (s *Store) replace(rec Record) {
	s.byID[rec.ID()] = rec
}
