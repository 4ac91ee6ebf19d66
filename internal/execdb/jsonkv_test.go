package execdb_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/execdb"
)

func TestJSONFileKVStore_PutGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := execdb.NewJSONFileKVStore(path)
	require.NoError(t, err)

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("key", []byte("value")))
	v, ok, err := store.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), v)

	require.NoError(t, store.Delete("key"))
	_, ok, err = store.Get("key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONFileKVStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := execdb.NewJSONFileKVStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("a", []byte("1")))
	require.NoError(t, store.Put("b", []byte("2")))

	reopened, err := execdb.NewJSONFileKVStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)
	v, ok, err = reopened.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("2"), v)
}

func TestJSONFileKVStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "store.json")
	_, err := execdb.NewJSONFileKVStore(path)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Dir(path))
	require.NoError(t, statErr)
}

func TestJSONFileKVStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := execdb.NewJSONFileKVStore(path)
	assert.Error(t, err)
}
