// Package dataset holds the in-memory tabular form of a record store and
// binds its columns to records.
package dataset

import "strings"

// Table is a header plus rows of string cells. Every row has exactly
// len(Columns) cells. Header cells keep their raw text so a save writes back
// what was read.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a Table from raw rows whose first row is the header. The
// width is that of the widest row, so cells under a blank header cell are
// kept; short rows are padded. Trailing columns that are blank in every row
// are dropped.
func NewTable(raw [][]string) *Table {
	if len(raw) == 0 {
		return &Table{}
	}

	width := 0
	for _, r := range raw {
		width = max(width, len(r))
	}
	for width > 0 && blankColumn(raw, width-1) {
		width--
	}

	t := &Table{Columns: fit(raw[0], width), Rows: make([][]string, 0, len(raw)-1)}
	for _, r := range raw[1:] {
		t.Rows = append(t.Rows, fit(r, width))
	}
	return t
}

func blankColumn(raw [][]string, col int) bool {
	for _, r := range raw {
		if col < len(r) && strings.TrimSpace(r[col]) != "" {
			return false
		}
	}
	return true
}

func fit(r []string, width int) []string {
	out := make([]string, width)
	copy(out, r)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column or -1. Names are
// compared after trimming, case-sensitively.
func (t *Table) ColumnIndex(name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	for i, c := range t.Columns {
		if strings.TrimSpace(c) == name {
			return i
		}
	}
	return -1
}

// EnsureColumn returns the index of the named column, appending it with
// empty cells when absent. added reports whether the column was created.
func (t *Table) EnsureColumn(name string) (idx int, added bool) {
	if idx = t.ColumnIndex(name); idx >= 0 {
		return idx, false
	}
	t.Columns = append(t.Columns, strings.TrimSpace(name))
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Columns) - 1, true
}

// Get returns the cell at (row, col), or "" when out of range.
func (t *Table) Get(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Set writes the cell at (row, col). Out-of-range writes are ignored.
func (t *Table) Set(row, col int, v string) {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return
	}
	t.Rows[row][col] = v
}

// Matrix returns the header followed by every row.
func (t *Table) Matrix() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Columns)
	out = append(out, t.Rows...)
	return out
}
