// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actionpool

import (
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

const (
	LIMIT             = 10
	LIMIT_PER_ACCOUNT = 2
)

func newRepo(t *testing.T) *chain.Repository {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stage := state.New(state.NewStater(db).Store()).Stage()
	genesis := new(block.Builder).Timestamp(1000).StateRoot(stage.Hash()).Build()
	repo, err := chain.NewRepository(db, genesis, stage)
	require.NoError(t, err)
	return repo
}

func newPool(t *testing.T, limit, limitPerAccount int) (*ActionPool, *chain.Repository) {
	repo := newRepo(t)
	pool := New(repo, Options{
		Limit:           limit,
		LimitPerAccount: limitPerAccount,
		MaxLifetime:     time.Hour,
	})
	t.Cleanup(pool.Close)
	return pool, repo
}

func newAction(tag byte, nonce uint64, key *ecdsa.PrivateKey) *action.Action {
	a := action.NewBuilder(&action.Transfer{To: rentnet.Address{1}, Amount: 1}).
		ChainTag(tag).
		Nonce(nonce).
		MustBuild()
	return action.MustSign(a, key)
}

func newKeys(t *testing.T, n int) []*ecdsa.PrivateKey {
	keys := make([]*ecdsa.PrivateKey, n)
	for i := range keys {
		k, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = k
	}
	return keys
}

func TestAddAndExecutables(t *testing.T) {
	pool, repo := newPool(t, LIMIT, LIMIT_PER_ACCOUNT)
	keys := newKeys(t, 3)

	var added action.Actions
	for i, key := range keys {
		a := newAction(repo.ChainTag(), uint64(i), key)
		require.NoError(t, pool.Add(a))
		added = append(added, a)
	}
	// re-adding is not an error
	assert.NoError(t, pool.Add(added[0]))
	assert.Equal(t, 3, pool.Len())

	execs := pool.Executables()
	require.Len(t, execs, 3)
	for i := range added {
		assert.Equal(t, added[i].ID(), execs[i].ID())
	}
	assert.Equal(t, added[1].ID(), pool.Get(added[1].ID()).ID())

	assert.True(t, pool.Remove(added[1].ID()))
	assert.False(t, pool.Remove(added[1].ID()))
	assert.Nil(t, pool.Get(added[1].ID()))
	assert.Equal(t, 2, pool.Len())
}

func TestAddRejects(t *testing.T) {
	pool, repo := newPool(t, 3, LIMIT_PER_ACCOUNT)
	keys := newKeys(t, 3)

	err := pool.Add(newAction(repo.ChainTag()+1, 1, keys[0]))
	assert.True(t, IsBadAction(err), "chain tag mismatch")

	unsigned := action.NewBuilder(&action.Chill{}).ChainTag(repo.ChainTag()).MustBuild()
	assert.True(t, IsBadAction(pool.Add(unsigned)), "unsigned")

	require.NoError(t, pool.Add(newAction(repo.ChainTag(), 1, keys[0])))
	require.NoError(t, pool.Add(newAction(repo.ChainTag(), 2, keys[0])))
	err = pool.Add(newAction(repo.ChainTag(), 3, keys[0]))
	assert.True(t, IsActionRejected(err), "account quota")

	require.NoError(t, pool.Add(newAction(repo.ChainTag(), 1, keys[1])))
	err = pool.Add(newAction(repo.ChainTag(), 1, keys[2]))
	assert.True(t, IsActionRejected(err), "pool full")
}

func TestPackedActionsRemoved(t *testing.T) {
	pool, repo := newPool(t, LIMIT, LIMIT_PER_ACCOUNT)
	key := newKeys(t, 1)[0]

	a := newAction(repo.ChainTag(), 1, key)
	b := newAction(repo.ChainTag(), 2, key)
	require.NoError(t, pool.Add(a))
	require.NoError(t, pool.Add(b))

	best := repo.BestBlock()
	blk := new(block.Builder).ParentID(best.ID()).Timestamp(best.Timestamp() + 10).Action(a).Build()
	sig, err := crypto.Sign(blk.Header().SigningHash().Bytes(), key)
	require.NoError(t, err)
	blk = blk.WithSignature(sig)
	receipts := action.Receipts{{ActionID: a.ID(), Kind: a.Kind()}}
	require.NoError(t, repo.AddBlock(blk, receipts, nil))

	assert.Eventually(t, func() bool { return pool.Len() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, b.ID(), pool.Executables()[0].ID())
	assert.True(t, IsKnownAction(pool.Add(a)))
}

func TestWashExpired(t *testing.T) {
	repo := newRepo(t)
	pool := New(repo, Options{Limit: LIMIT, LimitPerAccount: LIMIT_PER_ACCOUNT, MaxLifetime: time.Minute})
	defer pool.Close()

	key := newKeys(t, 1)[0]
	require.NoError(t, pool.Add(newAction(repo.ChainTag(), 1, key)))

	assert.Equal(t, 0, pool.washExpired(time.Now().UnixNano()))
	assert.Equal(t, 1, pool.washExpired(time.Now().Add(2*time.Minute).UnixNano()))
	assert.Equal(t, 0, pool.Len())
}

func TestSubscribeActionEvent(t *testing.T) {
	pool, repo := newPool(t, LIMIT, LIMIT_PER_ACCOUNT)
	key := newKeys(t, 1)[0]

	ch := make(chan *ActionEvent, 1)
	sub := pool.SubscribeActionEvent(ch)
	defer sub.Unsubscribe()

	a := newAction(repo.ChainTag(), 1, key)
	require.NoError(t, pool.Add(a))

	select {
	case ev := <-ch:
		assert.Equal(t, a.ID(), ev.Action.ID())
		assert.Equal(t, rentnet.Address(crypto.PubkeyToAddress(key.PublicKey)), ev.Origin)
	case <-time.After(time.Second):
		t.Fatal("no action event")
	}
}
