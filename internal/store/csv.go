package store

import (
	"context"
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geocode-cli/internal/dataset"
)

const utf8BOM = "\ufeff"

// CSVStore reads and writes a comma-separated file with a header row.
type CSVStore struct {
	path   string
	output string
}

// NewCSV creates a CSVStore. An empty output writes back to path.
func NewCSV(path, output string) *CSVStore {
	return &CSVStore{path: path, output: outputOr(output, path)}
}

// Load implements Store.
func (s *CSVStore) Load(_ context.Context) (*dataset.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read rows")
	}
	if len(raw) > 0 && len(raw[0]) > 0 {
		raw[0][0] = strings.TrimPrefix(raw[0][0], utf8BOM)
	}
	return dataset.NewTable(raw), nil
}

// Save implements Store. Rows are written to a temporary file that replaces
// the output.
func (s *CSVStore) Save(_ context.Context, t *dataset.Table) error {
	tmp := s.output + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return eris.Wrap(err, "csv: create file")
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(t.Matrix()); err != nil {
		f.Close() //nolint:errcheck
		_ = os.Remove(tmp)
		return eris.Wrap(err, "csv: write rows")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrap(err, "csv: close file")
	}
	return eris.Wrap(os.Rename(tmp, s.output), "csv: replace output")
}

// Close implements Store.
func (s *CSVStore) Close() error { return nil }
