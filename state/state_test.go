// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
)

func newStater(t *testing.T) *Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db)
}

func TestStateCheckpoint(t *testing.T) {
	st := newStater(t).NewState()
	addr := rentnet.BytesToAddress([]byte("committee"))
	key := rentnet.BytesToBytes32([]byte("k"))

	st.SetRawStorage(addr, key, []byte{1})
	cp := st.NewCheckpoint()
	st.SetRawStorage(addr, key, []byte{2})

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, raw)

	st.RevertTo(cp)
	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, raw)

	assert.Panics(t, func() { st.RevertTo(10) })
}

func TestStageCommit(t *testing.T) {
	stater := newStater(t)
	addr := rentnet.BytesToAddress([]byte("ledger"))
	k1 := rentnet.BytesToBytes32([]byte("k1"))
	k2 := rentnet.BytesToBytes32([]byte("k2"))

	st := stater.NewState()
	st.SetRawStorage(addr, k1, []byte("a"))
	st.SetRawStorage(addr, k2, []byte("b"))
	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit(stater.Store()))

	st = stater.NewState()
	raw, err := st.GetRawStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), raw)

	st.SetRawStorage(addr, k1, nil)
	require.NoError(t, st.Stage().Commit(stater.Store()))

	raw, err = stater.NewState().GetRawStorage(addr, k1)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStageHashIgnoresWriteOrder(t *testing.T) {
	stater := newStater(t)
	addr := rentnet.BytesToAddress([]byte("slash"))
	k1 := rentnet.BytesToBytes32([]byte("k1"))
	k2 := rentnet.BytesToBytes32([]byte("k2"))

	a := stater.NewState()
	a.SetRawStorage(addr, k1, []byte("x"))
	a.SetRawStorage(addr, k2, []byte("y"))

	b := stater.NewState()
	b.SetRawStorage(addr, k2, []byte("old"))
	b.SetRawStorage(addr, k2, []byte("y"))
	b.NewCheckpoint()
	b.SetRawStorage(addr, k1, []byte("x"))

	assert.Equal(t, a.Stage().Hash(), b.Stage().Hash())

	b.SetRawStorage(addr, k1, []byte("z"))
	assert.NotEqual(t, a.Stage().Hash(), b.Stage().Hash())
}
