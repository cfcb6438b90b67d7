// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var (
	alice = rentnet.Address{1}
	bob   = rentnet.Address{2}
)

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(rentnet.BytesToAddress([]byte("ledger")), state.New(db))
}

func balances(t *testing.T, l *Ledger, who rentnet.Address) (uint64, uint64) {
	free, err := l.FreeBalance(who)
	require.NoError(t, err)
	reserved, err := l.ReservedBalance(who)
	require.NoError(t, err)
	return free, reserved
}

func TestReserveUnreserve(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Mint(alice, 100))

	require.NoError(t, l.Reserve(alice, 60))
	free, reserved := balances(t, l, alice)
	assert.Equal(t, uint64(40), free)
	assert.Equal(t, uint64(60), reserved)

	assert.ErrorIs(t, l.Reserve(alice, 41), ErrInsufficientBalance)
	assert.ErrorIs(t, l.Unreserve(alice, 61), ErrInsufficientReserved)

	require.NoError(t, l.Unreserve(alice, 10))
	free, reserved = balances(t, l, alice)
	assert.Equal(t, uint64(50), free)
	assert.Equal(t, uint64(50), reserved)
}

func TestSlashReserved(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Mint(alice, 100))
	require.NoError(t, l.Reserve(alice, 30))

	slashed, missing, err := l.SlashReserved(alice, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), slashed)
	assert.Equal(t, uint64(20), missing)

	total, err := l.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, uint64(70), total)
}

func TestRepatriateReserved(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Mint(alice, 100))
	require.NoError(t, l.Reserve(alice, 100))

	require.NoError(t, l.RepatriateReserved(alice, bob, 30, Free))
	require.NoError(t, l.RepatriateReserved(alice, bob, 20, Reserved))
	assert.ErrorIs(t, l.RepatriateReserved(alice, bob, 51, Free), ErrInsufficientReserved)

	free, reserved := balances(t, l, bob)
	assert.Equal(t, uint64(30), free)
	assert.Equal(t, uint64(20), reserved)

	_, reserved = balances(t, l, alice)
	assert.Equal(t, uint64(50), reserved)

	total, err := l.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), total)
}

func TestTransfer(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Mint(alice, 10))
	assert.ErrorIs(t, l.Transfer(alice, bob, 11), ErrInsufficientBalance)
	assert.ErrorIs(t, l.Transfer(alice, bob, 0), ErrZeroAmount)
	require.NoError(t, l.Transfer(alice, bob, 10))

	free, _ := balances(t, l, bob)
	assert.Equal(t, uint64(10), free)
	free, _ = balances(t, l, alice)
	assert.Zero(t, free)
}
