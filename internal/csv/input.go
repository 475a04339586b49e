package csv

// input.go prepares raw file bytes for Parse:
//
//   - bomSkippingReader drops the UTF-8 BOM spreadsheet tools prepend
//   - CountingReader tracks bytes read and enforces a size ceiling
//   - invalid UTF-8 is replaced with U+FFFD once the whole file is in memory
//
// Files are read completely before parsing so an import either sees the
// whole file or nothing.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrFileTooLarge is returned when input exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkippingReader removes a leading UTF-8 BOM.
type bomSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{br: bufio.NewReader(r)}
}

func (r *bomSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.br.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}

// CountingReader wraps an io.Reader to track bytes read. When Limit is
// positive, reading past it fails with ErrFileTooLarge.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64
}

// NewCountingReader creates a counting reader with an optional byte limit.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, r.Limit)
	}
	return n, err
}

// ReadText reads r to the end and returns its text with any BOM removed and
// invalid UTF-8 replaced. A positive limit caps the accepted size.
func ReadText(r io.Reader, limit int64) (string, error) {
	counter := NewCountingReader(newBOMSkippingReader(r), limit)
	data, err := io.ReadAll(counter)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// ReadFile reads and parses the file at path.
func ReadFile(path string, limit int64) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	text, err := ReadText(f, limit)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseTable(text), nil
}

// WriteFile writes header and records to path, replacing any existing file.
func WriteFile(path string, header []string, records []map[string]string) error {
	if err := os.WriteFile(path, []byte(Serialize(header, records)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
