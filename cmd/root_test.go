package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structline/tiernorm/internal/config"
	"github.com/structline/tiernorm/tier"
)

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"RegionList": []}`), 0o644))

	doc, err := loadDocument(path)
	require.NoError(t, err)

	obj, ok := doc.(*tier.Object)
	require.True(t, ok)
	assert.True(t, obj.Has("RegionList"))
}

func TestEmitJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("compact to file", func(t *testing.T) {
		profile = config.Default()
		outputPath = filepath.Join(dir, "out.json")
		defer func() { outputPath = "" }()

		require.NoError(t, emitJSON(map[string]any{"a": 1}))
		data, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.Equal(t, "{\"a\":1}\n", string(data))
	})

	t.Run("pretty to file", func(t *testing.T) {
		profile = config.Default()
		profile.Pretty = true
		outputPath = filepath.Join(dir, "pretty.json")
		defer func() { outputPath = "" }()

		require.NoError(t, emitJSON([]any{1}))
		data, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.Equal(t, "[\n  1\n]\n", string(data))
	})
}

func TestInitHost(t *testing.T) {
	t.Run("profile file is honored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.hcl")
		require.NoError(t, os.WriteFile(path, []byte("pretty = true\ntable = \"records\"\n"), 0o644))
		profilePath = path
		defer func() { profilePath = "" }()

		require.NoError(t, initHost(rootCmd, nil))
		assert.True(t, profile.Pretty)
		assert.Equal(t, "records", profile.Table)
	})

	t.Run("flags win over the profile", func(t *testing.T) {
		profilePath = ""
		pf := rootCmd.PersistentFlags()
		require.NoError(t, pf.Set("data-only", "true"))

		require.NoError(t, initHost(rootCmd, nil))
		assert.True(t, profile.DataOnly)
	})

	t.Run("missing profile fails", func(t *testing.T) {
		profilePath = filepath.Join(t.TempDir(), "absent.hcl")
		defer func() { profilePath = "" }()
		require.Error(t, initHost(rootCmd, nil))
	})
}

func TestRunNormalizeEndToEnd(t *testing.T) {
	profile = config.Default()
	input := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(input,
		[]byte(`{"RegionList": [{"Label": "n", "StoreList": [{"Label": "s1"}]}]}`), 0o644))
	outputPath = filepath.Join(t.TempDir(), "res.json")
	defer func() { outputPath = "" }()

	require.NoError(t, runNormalize(normalizeCmd, []string{input}))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, float64(1), envelope["tierCount"])
	assert.Equal(t, "Tier1 → Branches", envelope["structure"])

	transformed, err := json.Marshal(envelope["transformedData"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Tier1_List":[{"Label":"n","BranchesList":[{"Label":"s1"}]}]}`, string(transformed))
}
