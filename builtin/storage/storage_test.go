// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

type testStruct struct {
	Field1 uint64
	Addr1  rentnet.Address
	Opt    *rentnet.Address `rlp:"nil"`
	List   []uint64
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(rentnet.Address{1}, state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[Uint64Key, *testStruct](ctx, Slot("test"))

	v, err := m.Get(1)
	require.NoError(t, err)
	assert.Nil(t, v)

	exists, err := m.Exists(1)
	require.NoError(t, err)
	assert.False(t, exists)

	opt := rentnet.Address{9}
	want := &testStruct{Field1: 7, Addr1: rentnet.Address{2}, Opt: &opt, List: []uint64{1, 2}}
	require.NoError(t, m.Set(1, want))

	got, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	m.Delete(1)
	got, err = m.Get(1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMappingValueType(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[rentnet.Address, uint64](ctx, Slot("balances"))

	v, err := m.Get(rentnet.Address{3})
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, m.Set(rentnet.Address{3}, 42))
	v, err = m.Get(rentnet.Address{3})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	other := NewMapping[rentnet.Address, uint64](ctx, Slot("other"))
	v, err = other.Get(rentnet.Address{3})
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestUint64(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint64(ctx, Slot("counter"))

	v, err := u.Add(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)

	_, err = u.Sub(6)
	assert.Error(t, err)

	require.NoError(t, u.Set(math.MaxUint64))
	_, err = u.Add(1)
	assert.Error(t, err)

	v, err = u.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestCompositeKey(t *testing.T) {
	a := CompositeKey{StringKey("ab"), StringKey("c")}.Bytes()
	b := CompositeKey{StringKey("a"), StringKey("bc")}.Bytes()
	assert.NotEqual(t, a, b)
}
