// Package store loads and saves record tables from spreadsheets, CSV files,
// SQLite databases and Postgres tables.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geocode-cli/internal/dataset"
)

// Store persists a record table. Save must leave the previous contents intact
// when it fails.
type Store interface {
	Load(ctx context.Context) (*dataset.Table, error)
	Save(ctx context.Context, t *dataset.Table) error
	Close() error
}

// Options configures Open.
type Options struct {
	// Output is where file stores write. Empty means the source itself.
	Output string `yaml:"output" mapstructure:"output"`
	// Sheet selects the XLSX sheet by name. Empty means the first sheet.
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
	// Table is the database table holding the records.
	Table string `yaml:"table" mapstructure:"table"`
	// KeyColumn identifies rows in Postgres tables.
	KeyColumn string `yaml:"key_column" mapstructure:"key_column"`
}

// Kind names a store backend.
type Kind string

const (
	KindXLSX     Kind = "xlsx"
	KindCSV      Kind = "csv"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Detect picks the backend for source from its scheme or file extension.
func Detect(source string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(source))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return KindPostgres, nil
	}
	switch filepath.Ext(lower) {
	case ".xlsx":
		return KindXLSX, nil
	case ".csv":
		return KindCSV, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	}
	return "", eris.Errorf("store: unsupported source %q", source)
}

// Open returns the Store for source.
func Open(ctx context.Context, source string, opts Options) (Store, error) {
	kind, err := Detect(source)
	if err != nil {
		return nil, err
	}

	if (kind == KindSQLite || kind == KindPostgres) && opts.Output != "" && opts.Output != source {
		return nil, eris.Errorf("store: %s sources are updated in place and take no output path", kind)
	}

	switch kind {
	case KindXLSX:
		return NewXLSX(source, opts.Output, opts.Sheet), nil
	case KindCSV:
		return NewCSV(source, opts.Output), nil
	case KindSQLite:
		return NewSQLite(source, opts.Table)
	default:
		return NewPostgres(ctx, source, opts.Table, opts.KeyColumn)
	}
}

func outputOr(output, source string) string {
	if output == "" {
		return source
	}
	return output
}
