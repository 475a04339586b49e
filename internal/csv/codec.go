// Package csv implements the permissive CSV dialect question files are
// exchanged in.
//
// The dialect differs from encoding/csv in ways the question files depend on:
// a quote character toggles quoting wherever it appears, a bare CR or LF ends
// a row, blank lines vanish, an unterminated quote at end of input is closed
// implicitly, and rows may have any number of fields. Parse never fails.
package csv

import "strings"

// Parse splits text into rows of fields using a two-state scan.
//
// Inside quotes a doubled quote yields one literal quote. Outside quotes a
// comma ends the field and CR or LF ends the row; a row is only emitted when
// it has at least one completed field or a pending non-empty value.
func Parse(text string) [][]string {
	var (
		rows     [][]string
		cur      []string
		val      strings.Builder
		inQuotes bool
	)

	flush := func() {
		if val.Len() > 0 || len(cur) > 0 {
			cur = append(cur, val.String())
			rows = append(rows, cur)
			cur = nil
			val.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(text) && text[i+1] == '"':
			val.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			cur = append(cur, val.String())
			val.Reset()
		case (c == '\n' || c == '\r') && !inQuotes:
			flush()
		default:
			val.WriteByte(c)
		}
	}
	flush()

	return rows
}

// Escape quotes s when it contains a quote, a comma, "\n" or "\r", doubling
// any embedded quotes. Other values are returned unchanged.
func Escape(s string) string {
	if strings.ContainsAny(s, "\",\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Serialize renders a header row followed by one row per record. Missing keys
// are written as empty fields. Rows are joined with "\n" and no trailing
// newline is written.
func Serialize(header []string, records []map[string]string) string {
	var b strings.Builder
	writeRow(&b, header)
	for _, rec := range records {
		b.WriteByte('\n')
		fields := make([]string, len(header))
		for i, h := range header {
			fields[i] = rec[h]
		}
		writeRow(&b, fields)
	}
	return b.String()
}

// SerializeRows renders raw rows with the same quoting rules as Serialize.
func SerializeRows(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(f))
	}
}

// Table is a parsed file split into its header and data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseTable parses text and treats the first row as the header. Header names
// are trimmed. Text without rows yields an empty Table.
func ParseTable(text string) Table {
	rows := Parse(text)
	if len(rows) == 0 {
		return Table{}
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return Table{Header: header, Rows: rows[1:]}
}

// Record maps one data row onto the header. Values are trimmed; cells beyond
// the end of a short row read as empty and cells beyond the header are
// dropped. When a header name repeats, the rightmost column wins.
func (t Table) Record(row []string) map[string]string {
	rec := make(map[string]string, len(t.Header))
	for i, h := range t.Header {
		v := ""
		if i < len(row) {
			v = strings.TrimSpace(row[i])
		}
		rec[h] = v
	}
	return rec
}

// Records maps every data row onto the header.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, t.Record(row))
	}
	return out
}
