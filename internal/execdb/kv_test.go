package execdb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/execdb"
)

func TestMemoryKVStore_PutGetDelete(t *testing.T) {
	store := execdb.NewMemoryKVStore()

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("k1", []byte("v1")))
	v, ok, err := store.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	require.NoError(t, store.Delete("k1"))
	_, ok, err = store.Get("k1")
	require.NoError(t, err)
	assert.False(t, ok)
}
