package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var sheetHeader = []any{"", "1", "2", "3", "4", "5", "total"}

// WriteXLSX writes one worksheet per pivot, each ending with the total row.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, p := range r.Pivots() {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), p.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(p.Name); err != nil {
			return fmt.Errorf("add sheet %s: %w", p.Name, err)
		}
		if err := writePivot(f, p); err != nil {
			return fmt.Errorf("write sheet %s: %w", p.Name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writePivot(f *excelize.File, p Pivot) error {
	header := append([]any(nil), sheetHeader...)
	header[0] = p.Name
	if err := f.SetSheetRow(p.Name, "A1", &header); err != nil {
		return err
	}

	rows := append(append([]Row(nil), p.Rows...), p.Total)
	for i, row := range rows {
		values := make([]any, 0, Levels+2)
		values = append(values, row.Key)
		for _, c := range row.Counts {
			values = append(values, c)
		}
		values = append(values, row.Total)

		if err := f.SetSheetRow(p.Name, "A"+strconv.Itoa(i+2), &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(p.Name, "A", "A", 24)
}
