package store

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// seedInputDB creates an input database with a results table holding the
// given id → record JSON rows.
func seedInputDB(t *testing.T, records map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`CREATE TABLE results (id TEXT PRIMARY KEY, record JSON)`)
	require.NoError(t, err)
	for id, record := range records {
		_, err = db.Exec(`INSERT INTO results (id, record) VALUES (?, ?)`, id, record)
		require.NoError(t, err)
	}
	return path
}

func TestStream(t *testing.T) {
	in := seedInputDB(t, map[string]string{
		"r1": `{"a": 1}`,
		"r2": `{"b": 2}`,
	})

	seen := map[string]string{}
	err := Stream(in, "results", func(id string, raw []byte) error {
		seen[id] = string(raw)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"r1": `{"a": 1}`, "r2": `{"b": 2}`}, seen)
}

func TestBatch(t *testing.T) {
	in := seedInputDB(t, map[string]string{
		"shops":  `{"RegionList": [{"Label": "n", "StoreList": [{"Label": "s1"}]}]}`,
		"zones":  `{"ZoneList": [{"Label": "z"}]}`,
		"plain":  `{"name": "no tiers here"}`,
		"broken": `{"RegionList": `,
	})
	out := filepath.Join(t.TempDir(), "out.db")

	stats, err := Batch(in, out, "results")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 3, stats.TierNames) // Region, Store, Zone

	db, err := sql.Open("sqlite", out)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t.Run("normalized records are written", func(t *testing.T) {
		var record string
		var tierCount int
		var structure string
		err := db.QueryRow(
			`SELECT tier_count, structure, record FROM results_norm WHERE id = ?`, "shops",
		).Scan(&tierCount, &structure, &record)
		require.NoError(t, err)

		assert.Equal(t, 1, tierCount)
		assert.Equal(t, "Tier1 → Branches", structure)
		assert.Equal(t, `{"Tier1_List":[{"Label":"n","BranchesList":[{"Label":"s1"}]}]}`, record)
	})

	t.Run("records without tiers pass through", func(t *testing.T) {
		var record string
		var tierCount int
		err := db.QueryRow(
			`SELECT tier_count, record FROM results_norm WHERE id = ?`, "plain",
		).Scan(&tierCount, &record)
		require.NoError(t, err)
		assert.Equal(t, -1, tierCount)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(record), &doc))
		assert.Equal(t, "no tiers here", doc["name"])
	})

	t.Run("bad records land in skipped", func(t *testing.T) {
		var reason string
		err := db.QueryRow(`SELECT reason FROM skipped WHERE id = ?`, "broken").Scan(&reason)
		require.NoError(t, err)
		assert.NotEmpty(t, reason)
	})

	t.Run("tier refs resolve record ids", func(t *testing.T) {
		ids, err := RecordsWithTier(out, "Region")
		require.NoError(t, err)
		assert.Equal(t, []string{"shops"}, ids)

		ids, err = RecordsWithTier(out, "Zone")
		require.NoError(t, err)
		assert.Equal(t, []string{"zones"}, ids)

		ids, err = RecordsWithTier(out, "Nope")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestBatchMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.db")
	_, err := Batch(filepath.Join(t.TempDir(), "absent.db"), out, "results")
	require.Error(t, err)
}
