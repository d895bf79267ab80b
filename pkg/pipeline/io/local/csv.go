package local

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shpitdev/imagefetch/pkg/pipeline/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// RowReader reads rows lazily from a CSV stream with a header line.
//
// Input is decoded as UTF-8: a leading byte-order mark is dropped and invalid
// sequences are replaced with U+FFFD.
type RowReader struct {
	cr      *csv.Reader
	idIdx   int
	primIdx int
	secIdx  int
	missing []string
	n       int
	done    bool
}

// NewRowReader reads the header from r and prepares to yield rows.
//
// Column names are matched case-insensitively. A configured column that is not
// present in the header reads as empty for every row; see Missing.
func NewRowReader(r io.Reader, cols core.Columns) (*RowReader, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rr := &RowReader{cr: cr, idIdx: -1, primIdx: -1, secIdx: -1}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		rr.done = true
		rr.missing = []string{cols.ID, cols.Primary, cols.Secondary}
		return rr, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	rr.idIdx = columnIndex(header, cols.ID)
	rr.primIdx = columnIndex(header, cols.Primary)
	rr.secIdx = columnIndex(header, cols.Secondary)
	for _, c := range []struct {
		name string
		idx  int
	}{{cols.ID, rr.idIdx}, {cols.Primary, rr.primIdx}, {cols.Secondary, rr.secIdx}} {
		if c.idx < 0 {
			rr.missing = append(rr.missing, c.name)
		}
	}
	return rr, nil
}

// Missing returns the configured column names absent from the header.
func (r *RowReader) Missing() []string {
	return append([]string(nil), r.missing...)
}

// Next returns the next row, or io.EOF once the input is exhausted.
//
// A record that fails to parse is returned as a row with Err set rather than
// as an error, so callers can skip it and continue.
func (r *RowReader) Next() (core.Row, error) {
	if r.done {
		return core.Row{}, io.EOF
	}
	rec, err := r.cr.Read()
	if errors.Is(err, io.EOF) {
		r.done = true
		return core.Row{}, io.EOF
	}
	r.n++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return core.Row{Index: r.n, Err: err}, nil
		}
		r.done = true
		return core.Row{}, fmt.Errorf("read row %d: %w", r.n, err)
	}
	return core.Row{
		Index:     r.n,
		ID:        field(rec, r.idIdx),
		Primary:   field(rec, r.primIdx),
		Secondary: field(rec, r.secIdx),
	}, nil
}

func columnIndex(header []string, name string) int {
	want := strings.TrimSpace(name)
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), want) {
			return i
		}
	}
	return -1
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// CountRows counts the data records in r using the same parsing rules as
// RowReader. Malformed records are counted.
func CountRows(r io.Reader) (int, error) {
	rr, err := NewRowReader(r, core.Columns{})
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		_, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
