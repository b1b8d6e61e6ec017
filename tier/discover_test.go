package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, src string) any {
	t.Helper()
	v, err := DecodeBytes([]byte(src))
	require.NoError(t, err)
	return v
}

func TestDiscoverChain(t *testing.T) {
	t.Run("two levels", func(t *testing.T) {
		data := mustDecode(t, `{"RegionList": [{"Label": "north", "StoreList": [{"Label": "s1"}]}]}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)

		assert.Equal(t, Chain{"Region", "Store"}, chain)
		assert.Equal(t, []string{"Tier1", "Branches"}, chain.Canonical())
		assert.Equal(t, 1, chain.TierCount())
		assert.Equal(t, "Tier1 → Branches", chain.Structure())
	})

	t.Run("three levels", func(t *testing.T) {
		data := mustDecode(t, `{
			"RegionList": [{
				"Label": "north",
				"DistrictList": [{
					"Label": "d1",
					"StoreList": [{"Label": "s1"}]
				}]
			}]
		}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)

		assert.Equal(t, Chain{"Region", "District", "Store"}, chain)
		assert.Equal(t, []string{"Tier1", "Tier2", "Branches"}, chain.Canonical())
		assert.Equal(t, 2, chain.TierCount())
		assert.Equal(t, "Tier1 → Tier2 → Branches", chain.Structure())
	})

	t.Run("scalars yield empty chain", func(t *testing.T) {
		for _, data := range []any{nil, "x", true, float64(3), 3} {
			chain, err := DiscoverChain(data)
			require.NoError(t, err)
			assert.Empty(t, chain)
			assert.Equal(t, -1, chain.TierCount())
		}
	})

	t.Run("mapping without List key yields empty chain", func(t *testing.T) {
		data := mustDecode(t, `{"name": "x", "Items": [1, 2]}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)
		assert.Empty(t, chain)
		assert.Equal(t, "", chain.Structure())
	})

	t.Run("first List key in document order wins", func(t *testing.T) {
		data := mustDecode(t, `{
			"ZoneList": [{"Label": "z"}],
			"AreaList": [{"Label": "a"}]
		}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)
		assert.Equal(t, Chain{"Zone"}, chain)
	})

	t.Run("empty sequence halts after recording the name", func(t *testing.T) {
		data := mustDecode(t, `{"RegionList": []}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)
		assert.Equal(t, Chain{"Region"}, chain)
		assert.Equal(t, 0, chain.TierCount())
		assert.Equal(t, []string{"Branches"}, chain.Canonical())
	})

	t.Run("missing Label ends the walk below the recorded level", func(t *testing.T) {
		data := mustDecode(t, `{"RegionList": [{"StoreList": [{"Label": "s1"}]}]}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)
		// The first item under RegionList has no Label, so Store is
		// never reached.
		assert.Equal(t, Chain{"Region"}, chain)
	})

	t.Run("non-sequence List value descends directly", func(t *testing.T) {
		data := mustDecode(t, `{"RegionList": {"Label": "north", "StoreList": [{"Label": "s1"}]}}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)
		assert.Equal(t, Chain{"Region", "Store"}, chain)
	})

	t.Run("bare List key strips to empty name", func(t *testing.T) {
		data := mustDecode(t, `{"List": [{"Label": "x"}]}`)
		chain, err := DiscoverChain(data)
		require.NoError(t, err)
		assert.Equal(t, Chain{""}, chain)
	})

	t.Run("cyclic mapping fails", func(t *testing.T) {
		root := NewObject().Set("Label", "r")
		inner := NewObject().Set("Label", "a").Set("LoopList", root)
		root.Set("LoopList", []any{inner})

		_, err := DiscoverChain(root)
		require.ErrorIs(t, err, ErrCyclicStructure)
	})
}
