package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/geocode-cli/internal/dataset"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore keeps records in a Postgres table identified by a key column.
// Rows are ordered by the key; columns missing from the table are added as
// TEXT.
type PostgresStore struct {
	pool  Pool
	table string
	key   string
	keys  []any
	last  snapshot
}

// NewPostgres connects to connString. table may be schema-qualified.
func NewPostgres(ctx context.Context, connString, table, key string) (*PostgresStore, error) {
	if strings.TrimSpace(table) == "" || strings.TrimSpace(key) == "" {
		return nil, eris.New("postgres: table and key column are required")
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return NewPostgresWithPool(pool, table, key), nil
}

// NewPostgresWithPool creates a PostgresStore over an existing pool.
func NewPostgresWithPool(pool Pool, table, key string) *PostgresStore {
	return &PostgresStore{pool: pool, table: table, key: key}
}

func (s *PostgresStore) tableIdent() string {
	return pgx.Identifier(strings.Split(s.table, ".")).Sanitize()
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context) (*dataset.Table, error) {
	keyIdent := pgx.Identifier{s.key}.Sanitize()
	rows, err := s.pool.Query(ctx, `SELECT * FROM `+s.tableIdent()+` ORDER BY `+keyIdent)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: select %s", s.table)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := &dataset.Table{Columns: make([]string, len(fields))}
	keyIdx := -1
	for i, fd := range fields {
		t.Columns[i] = fd.Name
		if fd.Name == s.key {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, eris.Errorf("postgres: key column %q not found in %s", s.key, s.table)
	}

	s.keys = s.keys[:0]
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "postgres: read row")
		}
		s.keys = append(s.keys, values[keyIdx])

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}

	s.last = takeSnapshot(t)
	return t, nil
}

// Save implements Store. New columns and changed cells are written in one
// transaction.
func (s *PostgresStore) Save(ctx context.Context, t *dataset.Table) error {
	if len(t.Rows) != len(s.keys) {
		return eris.Errorf("postgres: table has %d rows, loaded %d", len(t.Rows), len(s.keys))
	}

	added, changes := s.last.diff(t)
	if len(added) == 0 && len(changes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, col := range added {
		stmt := `ALTER TABLE ` + s.tableIdent() + ` ADD COLUMN IF NOT EXISTS ` + pgx.Identifier{col}.Sanitize() + ` TEXT`
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return eris.Wrapf(err, "postgres: add column %s", col)
		}
	}
	for _, ch := range changes {
		stmt, args := s.updateStatement(ch)
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return eris.Wrapf(err, "postgres: update row %v", s.keys[ch.row])
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit")
	}
	s.last = takeSnapshot(t)
	return nil
}

func (s *PostgresStore) updateStatement(ch rowChange) (string, []any) {
	sets := make([]string, len(ch.columns))
	args := make([]any, 0, len(ch.columns)+1)
	for i, col := range ch.columns {
		args = append(args, ch.values[i])
		sets[i] = pgx.Identifier{col}.Sanitize() + ` = $` + strconv.Itoa(len(args))
	}
	args = append(args, s.keys[ch.row])
	stmt := `UPDATE ` + s.tableIdent() + ` SET ` + strings.Join(sets, ", ") +
		` WHERE ` + pgx.Identifier{s.key}.Sanitize() + ` = $` + strconv.Itoa(len(args))
	return stmt, args
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
