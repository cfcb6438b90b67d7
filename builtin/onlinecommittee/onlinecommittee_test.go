// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package onlinecommittee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/random"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var (
	council = rentnet.BytesToAddress([]byte("council"))
	owner   = rentnet.Address{0xaa}
	c1      = rentnet.Address{1}
	c2      = rentnet.Address{2}
	c3      = rentnet.Address{3}
	members = []rentnet.Address{c1, c2, c3}
)

const machine rentnet.MachineID = "gpu-box-1"

var info = onlineprofile.Info{GPUType: "RTX4090", GPUNum: 1, GPUMemGB: 24, CPUCores: 16, MemoryGB: 64, DiskGB: 1000, CalcPoint: 800}

type testSetup struct {
	online       *OnlineCommittee
	profile      *onlineprofile.OnlineProfile
	committee    *committee.Committee
	verification *verification.Verification
	slash        *slash.Slash
	ledger       *ledger.Ledger
}

func newSetup(t *testing.T) *testSetup {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	log := &events.Log{}
	p := params.New(rentnet.BytesToAddress([]byte("params")), st)
	require.NoError(t, p.SetCouncil([]rentnet.Address{council}))
	require.NoError(t, p.Set(params.SlashDelay, 10))

	l := ledger.New(rentnet.BytesToAddress([]byte("ledger")), st)
	c := committee.New(rentnet.BytesToAddress([]byte("committee")), st, p, l, log)
	for _, m := range members {
		require.NoError(t, l.Mint(m, 20_000))
		require.NoError(t, c.Add(council, m))
		require.NoError(t, c.SetBoxPubkey(m, []byte("box")))
	}
	require.NoError(t, l.Mint(owner, 10_000))

	r := random.New(rentnet.BytesToAddress([]byte("random")), st, random.SeedSource{1})
	v := verification.New(rentnet.BytesToAddress([]byte("verification")), st, p, log)
	prof := onlineprofile.New(rentnet.BytesToAddress([]byte("profile")), st, p, l, c, log)
	s := slash.New(rentnet.BytesToAddress([]byte("slash")), st, p, l, c, log)
	s.Handle(slash.TargetMachineStake, prof.StakeSettler())

	require.NoError(t, prof.AddMachine(owner, machine, 1, 10_000, 1))
	return &testSetup{
		online:       New(st, log, p, c, r, v, prof, s),
		profile:      prof,
		committee:    c,
		verification: v,
		slash:        s,
		ledger:       l,
	}
}

func salt(who rentnet.Address) []byte {
	return []byte("salt-" + who.String())
}

func (s *testSetup) commit(t *testing.T, who rentnet.Address, v *Verdict, now uint32) {
	require.NoError(t, s.online.SubmitConfirmHash(who, machine, Commitment(machine, v, salt(who)), now))
}

func (s *testSetup) reveal(t *testing.T, who rentnet.Address, v *Verdict, now uint32) {
	require.NoError(t, s.online.SubmitConfirmRaw(who, machine, v, salt(who), now))
}

func (s *testSetup) status(t *testing.T) onlineprofile.Status {
	m, err := s.profile.Machine(machine)
	require.NoError(t, err)
	return m.Status
}

func (s *testSetup) stake(t *testing.T, who rentnet.Address) committee.StakeInfo {
	info, err := s.committee.Stake(who)
	require.NoError(t, err)
	return info
}

func (s *testSetup) free(t *testing.T, who rentnet.Address) uint64 {
	v, err := s.ledger.FreeBalance(who)
	require.NoError(t, err)
	return v
}

func (s *testSetup) book(t *testing.T, now uint32) *verification.Task {
	require.NoError(t, s.online.Housekeep(now))
	task, err := s.verification.Task(verification.MachineOnline, machine.String())
	require.NoError(t, err)
	require.NotNil(t, task)
	return task
}

func TestAllConfirm(t *testing.T) {
	s := newSetup(t)
	task := s.book(t, 2)
	assert.Equal(t, members, task.Members)
	assert.Equal(t, onlineprofile.Verifying, s.status(t))
	for _, m := range members {
		assert.Equal(t, uint64(1_000), s.stake(t, m).Used)
	}

	yes := &Verdict{Support: true, Info: info}
	for _, m := range members {
		s.commit(t, m, yes, 3)
	}
	for _, m := range members {
		s.reveal(t, m, yes, 4)
	}
	require.NoError(t, s.online.Housekeep(4))

	assert.Equal(t, onlineprofile.Online, s.status(t))
	for _, m := range members {
		st := s.stake(t, m)
		assert.Zero(t, st.Used)
		assert.Equal(t, uint64(100), st.CanClaimReward)
	}
	m, err := s.profile.Machine(machine)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), m.Grade)
	assert.Equal(t, members, m.Committees)
	assert.Equal(t, info, *m.Info)

	pending, err := s.slash.IDs(slash.Pending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	ops, err := s.verification.Ops(verification.MachineOnline, machine.String())
	require.NoError(t, err)
	for _, m := range members {
		assert.Equal(t, verification.Confirmed, ops[m].Status)
	}
}

func TestOneMemberTimesOut(t *testing.T) {
	s := newSetup(t)
	task := s.book(t, 2)

	yes := &Verdict{Support: true, Info: info}
	for _, m := range members {
		s.commit(t, m, yes, 3)
	}
	s.reveal(t, c1, yes, 4)
	s.reveal(t, c2, yes, 4)

	require.NoError(t, s.online.Housekeep(task.RawDeadline-1))
	assert.Equal(t, onlineprofile.Verifying, s.status(t), "c3 may still reveal")

	require.NoError(t, s.online.Housekeep(task.RawDeadline))
	assert.Equal(t, onlineprofile.Online, s.status(t))

	ops, err := s.verification.Ops(verification.MachineOnline, machine.String())
	require.NoError(t, err)
	assert.Equal(t, verification.TimedOut, ops[c3].Status)

	pending, err := s.slash.List(slash.Pending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, []rentnet.Address{c3}, pending[0].SlashWho)
	assert.Equal(t, []rentnet.Address{c1, c2}, pending[0].RewardTo)

	n, err := s.slash.Housekeep(pending[0].ExecTime)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	unruly := s.stake(t, c3)
	assert.Zero(t, unruly.Used)
	assert.Equal(t, uint64(19_000), unruly.Staked)
	assert.Zero(t, unruly.CanClaimReward)
	for _, m := range []rentnet.Address{c1, c2} {
		assert.Equal(t, uint64(500), s.free(t, m))
		assert.Equal(t, uint64(100), s.stake(t, m).CanClaimReward)
	}
}

func TestMajorityRefuses(t *testing.T) {
	s := newSetup(t)
	s.book(t, 2)

	no := &Verdict{Support: false, Info: info}
	yes := &Verdict{Support: true, Info: info}
	s.commit(t, c1, no, 3)
	s.commit(t, c2, &Verdict{}, 3)
	s.commit(t, c3, yes, 3)
	s.reveal(t, c1, no, 4)
	s.reveal(t, c2, &Verdict{}, 4)
	s.reveal(t, c3, yes, 4)
	require.NoError(t, s.online.Housekeep(4))

	assert.Equal(t, onlineprofile.Refused, s.status(t))

	pending, err := s.slash.List(slash.Pending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	committeeSlash, ownerSlash := pending[0], pending[1]
	assert.Equal(t, slash.TargetCommittee, committeeSlash.Target)
	assert.Equal(t, []rentnet.Address{c3}, committeeSlash.SlashWho)
	assert.Equal(t, slash.TargetMachineStake, ownerSlash.Target)
	assert.Equal(t, uint64(500), ownerSlash.SlashAmount)
	assert.Equal(t, []rentnet.Address{c1, c2}, ownerSlash.RewardTo)

	_, err = s.slash.Housekeep(ownerSlash.ExecTime)
	require.NoError(t, err)
	m, err := s.profile.Machine(machine)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_500), m.Stake)
	assert.Equal(t, uint64(250+500), s.free(t, c1))
}

func TestAllRefusedIsInconclusive(t *testing.T) {
	s := newSetup(t)
	s.book(t, 2)

	no := &Verdict{Support: false}
	for _, m := range []rentnet.Address{c1, c2, c3} {
		s.commit(t, m, no, 3)
	}
	for _, m := range []rentnet.Address{c1, c2, c3} {
		s.reveal(t, m, no, 4)
	}
	require.NoError(t, s.online.Housekeep(4))

	assert.Equal(t, onlineprofile.Refused, s.status(t))
	for _, m := range []rentnet.Address{c1, c2, c3} {
		st := s.stake(t, m)
		assert.Zero(t, st.Used)
		assert.Zero(t, st.CanClaimReward)
	}

	pending, err := s.slash.List(slash.Pending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	m, err := s.profile.Machine(machine)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), m.Stake)
}

func TestInconclusive(t *testing.T) {
	s := newSetup(t)
	task := s.book(t, 2)

	a := &Verdict{Support: true, Info: info}
	other := info
	other.MemoryGB = 32
	b := &Verdict{Support: true, Info: other}
	s.commit(t, c1, a, 3)
	s.commit(t, c2, b, 3)
	s.reveal(t, c1, a, task.HashDeadline)
	s.reveal(t, c2, b, task.HashDeadline)

	// c3 never committed, so nothing is left to wait for
	require.NoError(t, s.online.Housekeep(task.HashDeadline))
	assert.Equal(t, onlineprofile.Refused, s.status(t))

	for _, m := range []rentnet.Address{c1, c2} {
		st := s.stake(t, m)
		assert.Zero(t, st.Used)
		assert.Zero(t, st.CanClaimReward)
	}

	pending, err := s.slash.List(slash.Pending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, []rentnet.Address{c3}, pending[0].SlashWho)
	assert.Empty(t, pending[0].RewardTo)

	_, err = s.slash.Housekeep(pending[0].ExecTime)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), s.free(t, ledger.Treasury))
}

func TestUnderProvisionedWaits(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, s.committee.Chill(c3))

	require.NoError(t, s.online.Housekeep(2))
	assert.Equal(t, onlineprofile.WaitingVerify, s.status(t))

	require.NoError(t, s.committee.UndoChill(c3))
	s.book(t, 3)
	assert.Equal(t, onlineprofile.Verifying, s.status(t))
}

func TestVerdictEncodeNormalizesRefusal(t *testing.T) {
	a := &Verdict{Support: false, Info: info}
	b := &Verdict{}
	assert.Equal(t, a.Encode(), b.Encode())
	assert.NotEqual(t, a.Encode(), (&Verdict{Support: true, Info: info}).Encode())
}
