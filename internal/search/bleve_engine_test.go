package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/dex/internal/pokeapi"
)

func TestBleveEngineIndexesAndSearches(t *testing.T) {
	store := seededStore(t)
	idxPath := filepath.Join(t.TempDir(), "dex", "index.bleve")

	eng, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.(*bleveEngine).Close() })

	res, err := eng.Search("Pikachu", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "25", res[0].Item.ID)
	assert.Equal(t, []string{"Electric"}, res[0].Item.Types)

	res, err = eng.Search("char", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "Charmander", res[0].Item.Name)

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestBleveEngine_UpdatesAndStats(t *testing.T) {
	store := seededStore(t)
	eng, err := NewBleveEngine(store, filepath.Join(t.TempDir(), "index.bleve"))
	require.NoError(t, err)
	be := eng.(*bleveEngine)
	t.Cleanup(func() { _ = be.Close() })

	n, err := be.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	var listener UpdateListener = be
	listener.OnItemsUpdated([]pokeapi.ListItem{{ID: "150", Name: "Mewtwo", Types: []string{"Psychic"}}})

	n, err = be.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	res, err := eng.Search("mewtwo", 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "150", res[0].Item.ID)
}

func TestBleveEngine_Suggest(t *testing.T) {
	eng, err := NewBleveEngine(seededStore(t), filepath.Join(t.TempDir(), "index.bleve"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.(*bleveEngine).Close() })

	got, err := eng.Suggest("pikchu", 3)
	require.NoError(t, err)
	assert.Contains(t, got, "Pikachu")

	got, err = eng.Suggest("x", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBleveEngine_ReopenExistingIndex(t *testing.T) {
	store := seededStore(t)
	path := filepath.Join(t.TempDir(), "index.bleve")

	eng, err := NewBleveEngine(store, path)
	require.NoError(t, err)
	require.NoError(t, eng.(*bleveEngine).Close())

	eng, err = NewBleveEngine(store, path)
	require.NoError(t, err)
	defer eng.(*bleveEngine).Close()

	res, err := eng.Search("raichu", 5)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}
