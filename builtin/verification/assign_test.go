// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/consensus"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/random"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var council = rentnet.BytesToAddress([]byte("council"))

type assignSetup struct {
	params    *params.Params
	committee *committee.Committee
	random    *random.Random
	slash     *slash.Slash
}

func newAssignSetup(t *testing.T, members int) *assignSetup {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	p := params.New(rentnet.BytesToAddress([]byte("params")), st)
	require.NoError(t, p.SetCouncil([]rentnet.Address{council}))
	l := ledger.New(rentnet.BytesToAddress([]byte("ledger")), st)
	c := committee.New(rentnet.BytesToAddress([]byte("committee")), st, p, l, nil)
	for i := range members {
		m := rentnet.Address{byte(i + 1)}
		require.NoError(t, l.Mint(m, 20_000))
		require.NoError(t, c.Add(council, m))
		require.NoError(t, c.SetBoxPubkey(m, []byte("box")))
	}
	return &assignSetup{
		params:    p,
		committee: c,
		random:    random.New(rentnet.BytesToAddress([]byte("random")), st, random.SeedSource{7}),
		slash:     slash.New(rentnet.BytesToAddress([]byte("slash")), st, p, l, c, nil),
	}
}

func TestAssign(t *testing.T) {
	s := newAssignSetup(t, 5)

	members, lock, err := verification.Assign(s.params, s.committee, s.random)
	require.NoError(t, err)
	assert.Len(t, members, 3)
	assert.Equal(t, uint64(1_000), lock)
	for _, m := range members {
		info, err := s.committee.Stake(m)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000), info.Used)
	}
}

func TestAssignUnderProvisioned(t *testing.T) {
	s := newAssignSetup(t, 2)

	members, _, err := verification.Assign(s.params, s.committee, s.random)
	require.NoError(t, err)
	assert.Nil(t, members)

	// proceed with fewer verifiers once the minimum allows it
	require.NoError(t, s.params.Set(params.MinCommittee, 2))
	members, _, err = verification.Assign(s.params, s.committee, s.random)
	require.NoError(t, err)
	assert.Equal(t, []rentnet.Address{{1}, {2}}, members)
}

func TestAssignSkipsLockedMembers(t *testing.T) {
	s := newAssignSetup(t, 3)
	require.NoError(t, s.committee.ChangeUsedStake(rentnet.Address{1}, 19_500, true))

	members, _, err := verification.Assign(s.params, s.committee, s.random)
	require.NoError(t, err)
	assert.Nil(t, members)
}

func TestSettle(t *testing.T) {
	s := newAssignSetup(t, 3)
	a, b, c := rentnet.Address{1}, rentnet.Address{2}, rentnet.Address{3}
	for _, m := range []rentnet.Address{a, b, c} {
		require.NoError(t, s.committee.ChangeUsedStake(m, 1_000, true))
	}
	task := &verification.Task{
		Kind:        verification.MachineOnline,
		SubjectID:   "machine-1",
		Members:     []rentnet.Address{a, b, c},
		StakeLocked: 1_000,
	}
	res := &consensus.Resolution{
		Outcome: consensus.Confirmed,
		Honest:  []rentnet.Address{a, b},
		Unruly:  []rentnet.Address{c},
	}
	require.NoError(t, verification.Settle(s.committee, s.slash, task, res, 100, 10))

	for _, m := range []rentnet.Address{a, b} {
		info, err := s.committee.Stake(m)
		require.NoError(t, err)
		assert.Zero(t, info.Used)
		assert.Equal(t, uint64(100), info.CanClaimReward)
	}
	info, err := s.committee.Stake(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), info.Used, "stays locked until the slash settles")

	pending, err := s.slash.List(slash.Pending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	ps := pending[0]
	assert.Equal(t, []rentnet.Address{c}, ps.SlashWho)
	assert.Equal(t, []rentnet.Address{a, b}, ps.RewardTo)
	assert.Equal(t, uint64(1_000), ps.SlashAmount)
	assert.Equal(t, rentnet.MachineID("machine-1"), ps.MachineID)
}

func TestSettleInconclusive(t *testing.T) {
	s := newAssignSetup(t, 2)
	a, b := rentnet.Address{1}, rentnet.Address{2}
	for _, m := range []rentnet.Address{a, b} {
		require.NoError(t, s.committee.ChangeUsedStake(m, 1_000, true))
	}
	task := &verification.Task{Kind: verification.FaultReport, SubjectID: "1", StakeLocked: 1_000}
	res := consensus.Resolve([]consensus.Vote{
		{Member: a, Support: true, Observation: []byte("A")},
		{Member: b, Support: true, Observation: []byte("B")},
	}, nil)
	require.Equal(t, consensus.Inconclusive, res.Outcome)
	require.NoError(t, verification.Settle(s.committee, s.slash, task, res, 100, 10))

	for _, m := range []rentnet.Address{a, b} {
		info, err := s.committee.Stake(m)
		require.NoError(t, err)
		assert.Zero(t, info.Used)
		assert.Zero(t, info.CanClaimReward, "no reward without a majority")
	}
	pending, err := s.slash.IDs(slash.Pending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
