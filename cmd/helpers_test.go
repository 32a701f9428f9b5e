package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/geocode-cli/internal/config"
	"github.com/sells-group/geocode-cli/internal/dataset"
)

const registryCSV = "RUC,CALLE,CALLE SECUNDARIA,NUMERO,BARRIO,CIUDAD,PROVINCIA\n" +
	"1790000000001,Av. Amazonas,Naciones Unidas,,,Quito,Pichincha\n" +
	"1790000000002,av. amazonas ,naciones unidas,,,QUITO,pichincha\n" +
	"0990000000001,---,,,,Guayaquil,Guayas\n" +
	"0190000000001,Calle Larga,,,,Cuenca,Azuay\n" +
	"1790000000003,Av. Shyris,,,,Quito,Pichincha\n"

// fakeGoogle serves the geocode endpoint from a fixed table keyed by the
// address parameter. Unknown addresses get ZERO_RESULTS.
type fakeGoogle struct {
	srv   *httptest.Server
	calls atomic.Int32
}

func newFakeGoogle(t *testing.T, results map[string][2]float64) *fakeGoogle {
	t.Helper()
	fg := &fakeGoogle{}
	fg.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fg.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")

		loc, ok := results[r.URL.Query().Get("address")]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"results": []any{map[string]any{
				"geometry": map[string]any{
					"location":      map[string]float64{"lat": loc[0], "lng": loc[1]},
					"location_type": "ROOFTOP",
				},
			}},
		})
	}))
	t.Cleanup(fg.srv.Close)
	return fg
}

func writeRegistry(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empresas.csv")
	require.NoError(t, os.WriteFile(path, []byte(registryCSV), 0o644))
	return path
}

func testConfig(source, baseURL string) *config.Config {
	c := &config.Config{}
	c.Google.APIKey = "test-key"
	c.Google.BaseURL = baseURL
	c.Google.Country = "EC"
	c.Google.TimeoutSecs = 5
	c.Address.Country = "ecuador"
	c.Columns = dataset.DefaultColumns()
	c.Pipeline.MaterializeKeys = true
	c.Store.Source = source
	c.Store.Table = "records"
	c.Store.KeyColumn = "id"
	return c
}
