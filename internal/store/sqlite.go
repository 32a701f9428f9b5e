package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/geocode-cli/internal/dataset"
)

// SQLiteStore keeps records in a SQLite table. Rows are ordered and updated
// by rowid; columns missing from the table are added as TEXT.
type SQLiteStore struct {
	db     *sql.DB
	table  string
	rowids []int64
	last   snapshot
}

// NewSQLite opens the database at dsn and configures WAL mode.
func NewSQLite(dsn, table string) (*SQLiteStore, error) {
	if strings.TrimSpace(table) == "" {
		return nil, eris.New("sqlite: table name is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, table: table}, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) (*dataset.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rowid, * FROM `+quoteIdent(s.table)+` ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: select %s", s.table)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: read columns")
	}

	t := &dataset.Table{Columns: append([]string(nil), cols[1:]...)}
	s.rowids = s.rowids[:0]

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}
		rowid, ok := values[0].(int64)
		if !ok {
			return nil, eris.Errorf("sqlite: unexpected rowid %v", values[0])
		}
		s.rowids = append(s.rowids, rowid)

		row := make([]string, len(cols)-1)
		for i, v := range values[1:] {
			row[i] = cellString(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rows")
	}

	s.last = takeSnapshot(t)
	return t, nil
}

// Save implements Store. New columns are added and changed cells are updated
// in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, t *dataset.Table) error {
	if len(t.Rows) != len(s.rowids) {
		return eris.Errorf("sqlite: table has %d rows, loaded %d", len(t.Rows), len(s.rowids))
	}

	added, changes := s.last.diff(t)
	if len(added) == 0 && len(changes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	for _, col := range added {
		stmt := `ALTER TABLE ` + quoteIdent(s.table) + ` ADD COLUMN ` + quoteIdent(col) + ` TEXT`
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "sqlite: add column %s", col)
		}
	}

	for _, ch := range changes {
		sets := make([]string, len(ch.columns))
		args := make([]any, 0, len(ch.columns)+1)
		for i, col := range ch.columns {
			sets[i] = quoteIdent(col) + ` = ?`
			args = append(args, ch.values[i])
		}
		args = append(args, s.rowids[ch.row])

		stmt := `UPDATE ` + quoteIdent(s.table) + ` SET ` + strings.Join(sets, ", ") + ` WHERE rowid = ?`
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return eris.Wrapf(err, "sqlite: update row %d", s.rowids[ch.row])
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit")
	}
	s.last = takeSnapshot(t)
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
