package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		source string
		want   Kind
	}{
		{"empresas.xlsx", KindXLSX},
		{"/data/EMPRESAS.XLSX", KindXLSX},
		{"empresas.csv", KindCSV},
		{"registry.db", KindSQLite},
		{"registry.sqlite3", KindSQLite},
		{"postgres://user@localhost/geo", KindPostgres},
		{"postgresql://user@localhost/geo", KindPostgres},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := Detect(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Detect("empresas.xls")
	assert.Error(t, err)
}

func TestOpen_DatabaseRejectsOutput(t *testing.T) {
	_, err := Open(context.Background(), "registry.db", Options{Output: "copy.db", Table: "records"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in place")
}

func TestOpen_FileStores(t *testing.T) {
	s, err := Open(context.Background(), "in.csv", Options{Output: "out.csv"})
	require.NoError(t, err)
	csvStore, ok := s.(*CSVStore)
	require.True(t, ok)
	assert.Equal(t, "out.csv", csvStore.output)

	s, err = Open(context.Background(), "in.xlsx", Options{})
	require.NoError(t, err)
	xlsxStore, ok := s.(*XLSXStore)
	require.True(t, ok)
	assert.Equal(t, "in.xlsx", xlsxStore.output)
}
