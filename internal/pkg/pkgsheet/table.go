package pkgsheet

import (
	"errors"
	"fmt"
	"strings"
)

// HeaderSearchRows bounds how far Locate looks for the real header row.
const HeaderSearchRows = 20

// ErrMissingColumns is wrapped by Locate when no row carries every required column.
var ErrMissingColumns = errors.New("missing required columns")

// Table is a header plus data rows, all cells as text.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds a normalized table from raw records, the first non-empty
// record being the header.
func NewTable(records [][]string) *Table {
	t := &Table{}
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		t.Header = rec
		t.Rows = records[i+1:]
		break
	}
	t.normalize()
	return t
}

// Column returns the index of the first header cell equal to any of names,
// ignoring case and surrounding space, or -1.
func (t *Table) Column(names ...string) int {
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		for _, n := range names {
			if strings.EqualFold(h, n) {
				return i
			}
		}
	}
	return -1
}

// Locate makes sure the header carries every required column.
//
// Exports often start with a few preamble lines, so when the current header
// does not match, the first HeaderSearchRows rows are tried as header and the
// lines above the match are discarded.
func (t *Table) Locate(required ...string) error {
	if missing := missingColumns(t.Header, required); len(missing) == 0 {
		return nil
	}

	limit := min(len(t.Rows), HeaderSearchRows)
	for i := range limit {
		if len(missingColumns(t.Rows[i], required)) > 0 {
			continue
		}
		t.Header = t.Rows[i]
		t.Rows = t.Rows[i+1:]
		t.normalize()
		return nil
	}

	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missingColumns(t.Header, required), ", "))
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Cell returns row[col], or "" when col is outside the row.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// normalize trims trailing empty header cells, pads every row to the header
// width, and drops rows with no content.
func (t *Table) normalize() {
	for len(t.Header) > 0 && strings.TrimSpace(t.Header[len(t.Header)-1]) == "" {
		t.Header = t.Header[:len(t.Header)-1]
	}

	width := len(t.Header)
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if isBlank(row) {
			continue
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		rows = append(rows, row)
	}
	t.Rows = rows
}

func missingColumns(header, required []string) []string {
	var missing []string
	for _, req := range required {
		found := false
		for _, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), req) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, req)
		}
	}
	return missing
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
