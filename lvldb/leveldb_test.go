// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/kv"
)

func TestLevelDB(t *testing.T) {
	persistent, err := New(filepath.Join(t.TempDir(), "db"), Options{CacheSize: 16, OpenFilesCacheCapacity: 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put([]byte("123"), []byte("456")))

		v, err := db.Get([]byte("123"))
		require.NoError(t, err)
		assert.Equal(t, []byte("456"), v)

		_, err = db.Get([]byte("abc"))
		assert.True(t, db.IsNotFound(err))

		snap := db.Snapshot()
		require.NoError(t, db.Delete([]byte("123")))
		has, err := db.Has([]byte("123"))
		require.NoError(t, err)
		assert.False(t, has)

		v, err = snap.Get([]byte("123"))
		require.NoError(t, err)
		assert.Equal(t, []byte("456"), v)
		snap.Release()
	}
}

func TestBulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	for _, k := range []string{"a1", "a2", "b1"} {
		require.NoError(t, bulk.Put([]byte(k), []byte(k)))
	}
	require.NoError(t, bulk.Write())
	require.NoError(t, bulk.Write())

	it := db.Iterate(kv.PrefixRange([]byte("a")))
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"a1", "a2"}, keys)
}
