// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package onlineprofile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var (
	owner = rentnet.Address{0xaa}
	c1    = rentnet.Address{1}
	c2    = rentnet.Address{2}
	c3    = rentnet.Address{3}
)

const (
	m1 rentnet.MachineID = "machine-1"
	m2 rentnet.MachineID = "machine-2"
)

type testSetup struct {
	profile   *OnlineProfile
	committee *committee.Committee
	ledger    *ledger.Ledger
}

func newSetup(t *testing.T) *testSetup {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	p := params.New(rentnet.BytesToAddress([]byte("params")), st)
	l := ledger.New(rentnet.BytesToAddress([]byte("ledger")), st)
	c := committee.New(rentnet.BytesToAddress([]byte("committee")), st, p, l, nil)
	require.NoError(t, l.Mint(owner, 100_000))
	return &testSetup{
		profile:   New(rentnet.BytesToAddress([]byte("profile")), st, p, l, c, nil),
		committee: c,
		ledger:    l,
	}
}

// online bonds a machine and brings it online with the given calc point.
func (s *testSetup) online(t *testing.T, id rentnet.MachineID, gpuNum uint32, calcPoint uint64) {
	require.NoError(t, s.profile.AddMachine(owner, id, gpuNum, 10_000, 1))
	require.NoError(t, s.profile.StartVerify(id))
	info := &Info{GPUType: "RTX4090", GPUNum: gpuNum, CalcPoint: calcPoint}
	require.NoError(t, s.profile.ConfirmOnline(id, info, []rentnet.Address{c1, c2, c3}, 5))
}

func (s *testSetup) machine(t *testing.T, id rentnet.MachineID) *Machine {
	m, err := s.profile.Machine(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func (s *testSetup) totalGrade(t *testing.T) uint64 {
	g, err := s.profile.TotalGrade()
	require.NoError(t, err)
	return g
}

func TestAddMachine(t *testing.T) {
	s := newSetup(t)

	assert.ErrorIs(t, s.profile.AddMachine(owner, m1, 0, 10_000, 1), ErrInvalidMachine)
	assert.ErrorIs(t, s.profile.AddMachine(rentnet.Address{9}, m1, 1, 10_000, 1), ledger.ErrInsufficientBalance)

	require.NoError(t, s.profile.AddMachine(owner, m1, 2, 10_000, 1))
	assert.ErrorIs(t, s.profile.AddMachine(owner, m1, 2, 10_000, 1), ErrMachineExists)

	m := s.machine(t, m1)
	assert.Equal(t, WaitingVerify, m.Status)
	assert.Equal(t, uint64(20_000), m.Stake)

	reserved, err := s.ledger.ReservedBalance(owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(20_000), reserved)

	queued, err := s.profile.List(WaitingVerify)
	require.NoError(t, err)
	assert.Equal(t, []rentnet.MachineID{m1}, queued)
	owned, err := s.profile.OwnerMachines(owner)
	require.NoError(t, err)
	assert.Equal(t, []rentnet.MachineID{m1}, owned)
}

func TestConfirmOnline(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, s.profile.AddMachine(owner, m1, 1, 10_000, 1))

	info := &Info{GPUNum: 1, CalcPoint: 800}
	assert.ErrorIs(t, s.profile.ConfirmOnline(m1, info, nil, 2), ErrStatusNotAllowed)
	require.NoError(t, s.profile.StartVerify(m1))
	assert.ErrorIs(t, s.profile.ConfirmOnline(m1, &Info{GPUNum: 2}, nil, 2), ErrGPUNumMismatch)
	require.NoError(t, s.profile.ConfirmOnline(m1, info, []rentnet.Address{c1}, 2))

	m := s.machine(t, m1)
	assert.Equal(t, Online, m.Status)
	assert.Equal(t, uint64(400), m.Grade)
	assert.Equal(t, uint32(2), m.OnlineTime)
	assert.Equal(t, uint64(400), s.totalGrade(t))

	queued, err := s.profile.List(WaitingVerify)
	require.NoError(t, err)
	assert.Empty(t, queued)
}

func TestRefuseAndResubmit(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, s.profile.AddMachine(owner, m1, 1, 10_000, 1))
	require.NoError(t, s.profile.StartVerify(m1))
	require.NoError(t, s.profile.Refuse(m1))
	assert.Equal(t, Refused, s.machine(t, m1).Status)

	assert.ErrorIs(t, s.profile.Resubmit(c1, m1), ErrNotMachineOwner)
	require.NoError(t, s.profile.Resubmit(owner, m1))
	assert.Equal(t, WaitingVerify, s.machine(t, m1).Status)
	assert.ErrorIs(t, s.profile.Resubmit(owner, m1), ErrStatusNotAllowed)
}

func TestRentedAndExit(t *testing.T) {
	s := newSetup(t)
	s.online(t, m1, 1, 800)

	require.NoError(t, s.profile.SetRented(m1, true))
	require.NoError(t, s.profile.SetRented(m1, true))
	assert.ErrorIs(t, s.profile.ExitMachine(owner, m1), ErrStatusNotAllowed)
	require.NoError(t, s.profile.SetRented(m1, false))

	assert.ErrorIs(t, s.profile.ExitMachine(c1, m1), ErrNotMachineOwner)
	require.NoError(t, s.profile.ExitMachine(owner, m1))
	assert.Equal(t, Exited, s.machine(t, m1).Status)
	assert.Zero(t, s.totalGrade(t))

	free, err := s.ledger.FreeBalance(owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), free)

	// bond again after exit
	require.NoError(t, s.profile.AddMachine(owner, m1, 1, 10_000, 9))
	exited, err := s.profile.List(Exited)
	require.NoError(t, err)
	assert.Empty(t, exited)
}

func TestMarkFault(t *testing.T) {
	s := newSetup(t)
	s.online(t, m1, 1, 800)
	s.online(t, m2, 2, 800)
	assert.Equal(t, uint64(400+753), s.totalGrade(t))

	require.NoError(t, s.profile.MarkFault(m1))
	assert.Equal(t, Fault, s.machine(t, m1).Status)
	assert.Equal(t, uint64(753), s.totalGrade(t))
	assert.ErrorIs(t, s.profile.MarkFault(m1), ErrStatusNotAllowed)
}

func TestEraReward(t *testing.T) {
	s := newSetup(t)
	s.online(t, m1, 1, 800)
	s.online(t, m2, 2, 800)

	paid, err := s.profile.Housekeep(rentnet.BlocksPerEra - 1)
	require.NoError(t, err)
	assert.Zero(t, paid)

	paid, err = s.profile.Housekeep(rentnet.BlocksPerEra)
	require.NoError(t, err)
	assert.Equal(t, uint64(346_921+653_078), paid)

	info, err := s.committee.Stake(c1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_156+2_176), info.CanClaimReward)
	info, err = s.committee.Stake(c3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_157+2_178), info.CanClaimReward)

	r, err := s.profile.Reward(owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(343_452+646_548), r.Claimable)

	claimed, err := s.profile.ClaimRewards(owner, s.ledger)
	require.NoError(t, err)
	assert.Equal(t, r.Claimable, claimed)
	_, err = s.profile.ClaimRewards(owner, s.ledger)
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

func TestStakeSettler(t *testing.T) {
	s := newSetup(t)
	s.online(t, m2, 2, 800)
	before := s.machine(t, m2)

	err := s.profile.StakeSettler().Settle(&slash.PendingSlash{
		Target:      slash.TargetMachineStake,
		MachineID:   m2,
		SlashWho:    []rentnet.Address{owner},
		SlashAmount: 2_000,
		RewardTo:    []rentnet.Address{c1},
	})
	require.NoError(t, err)

	after := s.machine(t, m2)
	assert.Equal(t, uint64(18_000), after.Stake)
	assert.Less(t, after.Grade, before.Grade)
	assert.Equal(t, after.Grade, s.totalGrade(t))

	free, err := s.ledger.FreeBalance(c1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000), free)

	err = s.profile.StakeSettler().Settle(&slash.PendingSlash{MachineID: "missing"})
	assert.ErrorIs(t, err, ErrSlashMachineAbsent)
}

func TestEraRewardTotalSaturates(t *testing.T) {
	s := newSetup(t)
	s.online(t, m1, 1, 800)

	m, err := s.profile.Machine(m1)
	require.NoError(t, err)
	m.TotalReward = ^uint64(0) - 1
	require.NoError(t, s.profile.machines.Set(m1, m))

	paid, err := s.profile.Housekeep(rentnet.BlocksPerEra)
	require.NoError(t, err)
	assert.NotZero(t, paid)

	m, err = s.profile.Machine(m1)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), m.TotalReward)
}
