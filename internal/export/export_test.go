package export_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/storefront/internal/database"
	"github.com/Rana718/storefront/internal/export"
	"github.com/Rana718/storefront/internal/seeder"
	"github.com/Rana718/storefront/internal/testhelpers"
)

var exportedAt = time.Date(2024, time.May, 2, 10, 4, 5, 0, time.UTC)

func seededStore(t *testing.T) *database.Store {
	t.Helper()
	store := testhelpers.NewTestStore(t)
	s, err := seeder.New(store, seeder.NewDirSource("../seeder/testdata"), seeder.WithRandom(seeder.NewRandom(7)))
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)
	return store
}

func TestExportJSON(t *testing.T) {
	store := seededStore(t)
	dir := t.TempDir()

	path, err := export.Export(context.Background(), store, seeder.Tables(), dir, export.FormatJSON, exportedAt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export_2024-05-02_10-04-05.json"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)

	var snapshot export.Snapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, "2024-05-02T10:04:05Z", snapshot.Timestamp)
	assert.Len(t, snapshot.Tables, len(seeder.Tables()))
	assert.Len(t, snapshot.Tables[seeder.TableProducts], 4)
	assert.Len(t, snapshot.Tables[seeder.TableStores], 3)
	assert.Len(t, snapshot.Tables[seeder.TableOrderStatus], 4)
}

func TestExportCSV(t *testing.T) {
	store := seededStore(t)
	dir := t.TempDir()

	path, err := export.Export(context.Background(), store, []string{seeder.TableStores, seeder.TableOrderStatus}, dir, export.FormatCSV, exportedAt)
	require.NoError(t, err)

	file, err := os.Open(filepath.Join(path, "stores.csv"))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"add_1", "add_2", "city", "country", "hrs_close", "hrs_open", "phone", "state", "store_id", "zip"}, records[0])

	_, err = os.Stat(filepath.Join(path, "order_status.csv"))
	assert.NoError(t, err)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	store := testhelpers.NewTestStore(t)

	_, err := export.Export(context.Background(), store, seeder.Tables(), t.TempDir(), "xml", exportedAt)
	assert.Error(t, err)
}

func TestExportSkipsEmptyTablesInCSV(t *testing.T) {
	store := testhelpers.NewTestStore(t)

	path, err := export.Export(context.Background(), store, []string{seeder.TableStores}, t.TempDir(), export.FormatCSV, exportedAt)
	require.NoError(t, err)

	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
