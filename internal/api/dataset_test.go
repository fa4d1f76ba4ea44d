// File path: internal/api/dataset_test.go
package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nicodishanthj/bellybutton/internal/sqlite"
)

var datasetStatements = []string{
	`CREATE TABLE samples (otu_id INTEGER, otu_label TEXT, "940" INTEGER, "941" INTEGER, "943" INTEGER)`,
	`INSERT INTO samples VALUES (1, 'Bacteria', 5, 0, 2)`,
	`INSERT INTO samples VALUES (2, 'Archaea', 0, 3, NULL)`,
	`INSERT INTO samples VALUES (3, 'Bacteria;Firmicutes', 1, 8, 2)`,
	`INSERT INTO samples VALUES (4, 'Bacteria;Bacteroidetes', 7, 3, 40)`,
	`CREATE TABLE sample_metadata (sample INTEGER PRIMARY KEY, EVENT TEXT, ETHNICITY TEXT, GENDER TEXT, AGE INTEGER, WFREQ REAL, BBTYPE TEXT, LOCATION TEXT)`,
	`INSERT INTO sample_metadata VALUES (940, 'BB_940', 'Caucasian', 'F', 24, 2, 'I', 'Beaufort/NC')`,
}

// newDatasetServer serves a real SQLite file through sqlite.Store and
// samples.Service.
func newDatasetServer(t *testing.T) (*Server, *sqlx.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bellybutton.sqlite")
	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range datasetStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}

	store, err := sqlite.OpenWithConfig(sqlite.Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return newTestServer(t, store, store), db
}

func TestDatasetEndToEnd(t *testing.T) {
	srv, _ := newDatasetServer(t)

	rec := get(t, srv, "/names")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `["940","941","943"]`, rec.Body.String())

	rec = get(t, srv, "/samples/940")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"otu_ids":[4,1],"sample_values":[7,5],"otu_labels":["Bacteria;Bacteroidetes","Bacteria"]}`, rec.Body.String())

	rec = get(t, srv, "/samples/941")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"otu_ids":[3,2,4],"sample_values":[8,3,3],"otu_labels":["Bacteria;Firmicutes","Archaea","Bacteria;Bacteroidetes"]}`, rec.Body.String())

	rec = get(t, srv, "/metadata/940")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"sample":"940","ETHNICITY":"Caucasian","GENDER":"F","AGE":24,"LOCATION":"Beaufort/NC","BBTYPE":"I","WFREQ":2}`, rec.Body.String())

	rec = get(t, srv, "/metadata/941")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{}`, rec.Body.String())

	require.Equal(t, http.StatusNotFound, get(t, srv, "/samples/%20940").Code)
	require.Equal(t, http.StatusNotFound, get(t, srv, "/samples/otu_label").Code)
	require.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
}

func TestDatasetMeasurementsMatchSourceRows(t *testing.T) {
	srv, db := newDatasetServer(t)

	var names []string
	rec := get(t, srv, "/names")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	require.NotEmpty(t, names)

	for _, name := range names {
		rec := get(t, srv, "/samples/"+name)
		require.Equal(t, http.StatusOK, rec.Code, name)
		var got measurementsBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.SampleValues, len(got.OTUIDs), name)
		require.Len(t, got.OTULabels, len(got.OTUIDs), name)

		for i := 1; i < len(got.SampleValues); i++ {
			require.GreaterOrEqual(t, got.SampleValues[i-1], got.SampleValues[i], name)
		}

		expected := map[int64]float64{}
		rows, err := db.Queryx(`SELECT otu_id, "` + name + `" FROM samples`)
		require.NoError(t, err)
		for rows.Next() {
			var id int64
			var value *float64
			require.NoError(t, rows.Scan(&id, &value))
			if value != nil && *value > 1 {
				expected[id] = *value
			}
		}
		require.NoError(t, rows.Err())
		rows.Close()

		require.Len(t, got.OTUIDs, len(expected), name)
		for i, id := range got.OTUIDs {
			require.Equal(t, expected[id], got.SampleValues[i], "sample %s otu %d", name, id)
		}
	}
}
