// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/actionpool"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/packer"
	"github.com/rentnet/rentnet/test"
	"github.com/rentnet/rentnet/test/testchain"
)

func newTestSolo(t *testing.T) (*testchain.Chain, *actionpool.ActionPool, *Solo) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	pool := actionpool.New(tc.Repo(), actionpool.DefaultOptions)
	t.Cleanup(func() {
		pool.Close()
		tc.Close()
	})

	key := genesis.DevAccounts()[0].PrivateKey
	solo := newSolo(tc.Repo(), packer.New(tc.Repo(), tc.LogDB(), key), key, pool, 10, nil)
	return tc, pool, solo
}

func TestSoloPack(t *testing.T) {
	tc, pool, solo := newTestSolo(t)
	accs := genesis.DevAccounts()

	transfer := tc.Sign(&action.Transfer{To: accs[7].Address, Amount: 5}, 5)
	require.NoError(t, pool.Add(transfer))
	require.Equal(t, 1, pool.Len())

	now := tc.Repo().BestBlock().Timestamp() + 10
	packed, err := solo.pack(now)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), tc.Repo().BestBlock().Number())
	assert.Equal(t, now, packed.Block.Header().Timestamp())
	require.Len(t, packed.Block.Actions(), 1)
	assert.Equal(t, transfer.ID(), packed.Block.Actions()[0].ID())
	assert.Equal(t, 0, pool.Len())
}

func TestSoloPackDropsKnownAction(t *testing.T) {
	tc, pool, solo := newTestSolo(t)
	accs := genesis.DevAccounts()

	transfer := tc.Sign(&action.Transfer{To: accs[7].Address, Amount: 5}, 5)
	require.NoError(t, pool.Add(transfer))
	_, err := tc.MintBlock(transfer)
	require.NoError(t, err)

	packed, err := solo.pack(tc.Repo().BestBlock().Timestamp() + 10)
	require.NoError(t, err)
	assert.Empty(t, packed.Block.Actions())
	assert.Equal(t, 0, pool.Len())
}

func TestSoloPackTimestamp(t *testing.T) {
	tc, _, solo := newTestSolo(t)
	_, err := solo.pack(tc.Repo().BestBlock().Timestamp())
	assert.Error(t, err)
}

func TestSoloRun(t *testing.T) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	pool := actionpool.New(tc.Repo(), actionpool.DefaultOptions)
	t.Cleanup(func() {
		pool.Close()
		tc.Close()
	})

	key := genesis.DevAccounts()[0].PrivateKey
	var packed atomic.Int32
	solo := newSolo(tc.Repo(), packer.New(tc.Repo(), tc.LogDB(), key), key, pool, 1, func(ok bool) {
		if ok {
			packed.Add(1)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- solo.Run(ctx) }()

	err = test.Retry(func() error {
		if n := tc.Repo().BestBlock().Number(); n < 2 {
			return fmt.Errorf("best block #%d", n)
		}
		return nil
	}, 100*time.Millisecond, 10*time.Second)
	cancel()
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, packed.Load(), int32(2))
}
