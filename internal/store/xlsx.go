package store

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/geocode-cli/internal/dataset"
)

// XLSXStore reads one sheet of a workbook and writes it back, touching only
// cells whose value changed so untouched cells keep their type and style.
type XLSXStore struct {
	path   string
	output string
	sheet  string
}

// NewXLSX creates an XLSXStore. An empty output writes back to path; an empty
// sheet selects the first sheet.
func NewXLSX(path, output, sheet string) *XLSXStore {
	return &XLSXStore{path: path, output: outputOr(output, path), sheet: sheet}
}

// Load implements Store.
func (s *XLSXStore) Load(_ context.Context) (*dataset.Table, error) {
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	sheet, err := s.pick(f)
	if err != nil {
		return nil, err
	}

	raw := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		raw = append(raw, rowToStrings(row))
	}
	return dataset.NewTable(raw), nil
}

// Save implements Store. The workbook is re-read from the source path so
// other sheets and columns survive, then written to a temporary file that
// replaces the output.
func (s *XLSXStore) Save(_ context.Context, t *dataset.Table) error {
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return eris.Wrap(err, "xlsx: reopen file")
	}
	sheet, err := s.pick(f)
	if err != nil {
		return err
	}

	for i, values := range t.Matrix() {
		for len(sheet.Rows) <= i {
			sheet.AddRow()
		}
		row := sheet.Rows[i]
		if row == nil {
			return eris.Errorf("xlsx: row %d missing from sheet", i)
		}
		for j, v := range values {
			for len(row.Cells) <= j {
				row.AddCell()
			}
			if cell := row.Cells[j]; cell.String() != v {
				cell.SetString(v)
			}
		}
	}

	tmp := s.output + ".tmp"
	if err := f.Save(tmp); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrap(err, "xlsx: save")
	}
	return eris.Wrap(os.Rename(tmp, s.output), "xlsx: replace output")
}

// Close implements Store.
func (s *XLSXStore) Close() error { return nil }

func (s *XLSXStore) pick(f *xlsx.File) (*xlsx.Sheet, error) {
	if s.sheet != "" {
		sheet, ok := f.Sheet[s.sheet]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", s.sheet)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
