package core

// MergeStats counts what one MergeAll call did.
type MergeStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// MergeAll folds records into s in order.
//
// A new identifier is inserted as given with _source set to source. For an
// existing identifier every non-empty incoming field overwrites the stored
// one and empty incoming fields leave the stored value alone; _source is set
// to source either way. Merging never removes a record or a field, and
// merging the same batch again changes nothing but _source.
func MergeAll(s *Store, records []Record, source string) MergeStats {
	var stats MergeStats
	for _, in := range records {
		id := in.ID()
		if id == "" {
			continue
		}

		cur, ok := s.byID[id]
		if !ok {
			rec := in.Clone()
			rec[FieldSource] = source
			s.insert(rec)
			stats.Inserted++
			continue
		}

		for field, v := range in {
			if v != "" && field != FieldSource {
				cur[field] = v
			}
		}
		cur[FieldSource] = source
		stats.Updated++
	}
	return stats
}
