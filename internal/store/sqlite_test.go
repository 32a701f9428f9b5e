package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE empresas (
			id     INTEGER PRIMARY KEY,
			CALLE  TEXT,
			CIUDAD TEXT,
			EMPLEADOS INTEGER
		);
		INSERT INTO empresas (id, CALLE, CIUDAD, EMPLEADOS) VALUES
			(10, 'Av. Amazonas', 'Quito', 12),
			(20, 'Malecón', 'Guayaquil', NULL);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	st, err := NewSQLite(path, "empresas")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st, path
}

func TestSQLiteStore_Load(t *testing.T) {
	st, _ := newTestSQLiteStore(t)

	tbl, err := st.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "CALLE", "CIUDAD", "EMPLEADOS"}, tbl.Columns)
	assert.Equal(t, [][]string{
		{"10", "Av. Amazonas", "Quito", "12"},
		{"20", "Malecón", "Guayaquil", ""},
	}, tbl.Rows)
	assert.Equal(t, []int64{10, 20}, st.rowids)
}

func TestSQLiteStore_SaveAddsColumnAndUpdates(t *testing.T) {
	st, path := newTestSQLiteStore(t)
	ctx := context.Background()

	tbl, err := st.Load(ctx)
	require.NoError(t, err)
	idx, _ := tbl.EnsureColumn("COORDENADA")
	tbl.Set(0, idx, "-0.18,-78.47")
	require.NoError(t, st.Save(ctx, tbl))

	tbl.Set(1, idx, "NA")
	require.NoError(t, st.Save(ctx, tbl))

	other, err := NewSQLite(path, "empresas")
	require.NoError(t, err)
	defer other.Close() //nolint:errcheck

	again, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "CALLE", "CIUDAD", "EMPLEADOS", "COORDENADA"}, again.Columns)
	assert.Equal(t, "-0.18,-78.47", again.Get(0, 4))
	assert.Equal(t, "NA", again.Get(1, 4))
	assert.Equal(t, "12", again.Get(0, 3))

	var employees sql.NullInt64
	require.NoError(t, other.db.QueryRow(`SELECT EMPLEADOS FROM empresas WHERE id = 10`).Scan(&employees))
	assert.Equal(t, int64(12), employees.Int64)
}

func TestSQLiteStore_SaveNoChanges(t *testing.T) {
	st, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	tbl, err := st.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, tbl))
}

func TestSQLiteStore_SaveRowMismatch(t *testing.T) {
	st, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	tbl, err := st.Load(ctx)
	require.NoError(t, err)
	tbl.Rows = tbl.Rows[:1]

	err = st.Save(ctx, tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loaded 2")
}

func TestSQLiteStore_MissingTable(t *testing.T) {
	st, err := NewSQLite(filepath.Join(t.TempDir(), "empty.db"), "empresas")
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	_, err = st.Load(context.Background())
	assert.Error(t, err)
}

func TestNewSQLite_RequiresTable(t *testing.T) {
	_, err := NewSQLite(filepath.Join(t.TempDir(), "x.db"), " ")
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"CALLE SECUNDARIA"`, quoteIdent("CALLE SECUNDARIA"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
