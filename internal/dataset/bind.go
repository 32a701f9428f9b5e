package dataset

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geocode-cli/internal/address"
	"github.com/sells-group/geocode-cli/internal/model"
)

// Columns names the table columns that hold each record field. An empty name
// means the data set has no such column and the field is always empty.
type Columns struct {
	Street       string `yaml:"street" mapstructure:"street"`
	CrossStreet  string `yaml:"cross_street" mapstructure:"cross_street"`
	Number       string `yaml:"number" mapstructure:"number"`
	Neighborhood string `yaml:"neighborhood" mapstructure:"neighborhood"`
	City         string `yaml:"city" mapstructure:"city"`
	Province     string `yaml:"province" mapstructure:"province"`
	Coordinate   string `yaml:"coordinate" mapstructure:"coordinate"`
	Key          string `yaml:"key" mapstructure:"key"`
	Display      string `yaml:"display" mapstructure:"display"`
}

// DefaultColumns returns the column layout of the business registry export.
func DefaultColumns() Columns {
	return Columns{
		Street:       "CALLE",
		CrossStreet:  "CALLE SECUNDARIA",
		Number:       "NUMERO",
		Neighborhood: "BARRIO",
		City:         "CIUDAD",
		Province:     "PROVINCIA",
		Coordinate:   "COORDENADA",
		Key:          "AddressAPI",
		Display:      "FullAddress",
	}
}

// Binding ties a Table to the records built from it. Record.Row is the row
// position in the table.
type Binding struct {
	table   *Table
	records []*model.Record

	coord   int
	key     int
	display int
	derive  *address.Normalizer

	// CoordinateAdded is true when the coordinate column did not exist and was
	// created empty.
	CoordinateAdded bool
}

// Bind reads records out of t using cols. Every named address column must
// exist; the coordinate column is added when missing.
func Bind(t *Table, cols Columns) (*Binding, error) {
	if strings.TrimSpace(cols.Coordinate) == "" {
		return nil, eris.New("dataset: coordinate column name is required")
	}

	lookup := func(name string) (int, error) {
		if strings.TrimSpace(name) == "" {
			return -1, nil
		}
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return -1, eris.Errorf("dataset: column %q not found", name)
		}
		return idx, nil
	}

	names := []string{cols.Street, cols.CrossStreet, cols.Number, cols.Neighborhood, cols.City, cols.Province}
	idx := make([]int, len(names))
	for i, name := range names {
		var err error
		if idx[i], err = lookup(name); err != nil {
			return nil, err
		}
	}

	b := &Binding{table: t, key: -1, display: -1}
	b.coord, b.CoordinateAdded = t.EnsureColumn(cols.Coordinate)

	b.records = make([]*model.Record, t.Len())
	for row := range t.Rows {
		b.records[row] = &model.Record{
			Row:          row,
			Street:       t.Get(row, idx[0]),
			CrossStreet:  t.Get(row, idx[1]),
			Number:       t.Get(row, idx[2]),
			Neighborhood: t.Get(row, idx[3]),
			City:         t.Get(row, idx[4]),
			Province:     t.Get(row, idx[5]),
			Coordinate:   t.Get(row, b.coord),
		}
	}

	return b, nil
}

// Derive makes Sync also write the canonical key and display form into the
// key and display columns of cols, creating them when absent. Empty names are
// skipped.
func (b *Binding) Derive(n *address.Normalizer, cols Columns) {
	b.derive = n
	if strings.TrimSpace(cols.Key) != "" {
		b.key, _ = b.table.EnsureColumn(cols.Key)
	}
	if strings.TrimSpace(cols.Display) != "" {
		b.display, _ = b.table.EnsureColumn(cols.Display)
	}
}

// Records returns the bound records.
func (b *Binding) Records() []*model.Record {
	return b.records
}

// Table returns the underlying table.
func (b *Binding) Table() *Table {
	return b.table
}

// Sync copies the coordinate of each record, and the derived columns when
// enabled, back into the table.
func (b *Binding) Sync(records []*model.Record) {
	for _, r := range records {
		b.table.Set(r.Row, b.coord, r.Coordinate)
		if b.derive == nil {
			continue
		}
		if b.key >= 0 {
			b.table.Set(r.Row, b.key, b.derive.Canonical(r))
		}
		if b.display >= 0 {
			b.table.Set(r.Row, b.display, b.derive.Display(r))
		}
	}
}
