package core

import "github.com/JonMunkholm/qbank/internal/csv"

// ExportRecords renders records as CSV under header.
// An empty set fails with ErrEmptyExportSet and produces no text.
func ExportRecords(header []string, records []Record) (string, error) {
	if len(records) == 0 {
		return "", ErrEmptyExportSet
	}
	rows := make([]map[string]string, len(records))
	for i, rec := range records {
		rows[i] = rec
	}
	return csv.Serialize(header, rows), nil
}
