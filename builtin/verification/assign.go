// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verification

import (
	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/consensus"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/rentnet"
)

// Registry is the view of the committee registry tasks need.
type Registry interface {
	committee.Manager
	Stake(who rentnet.Address) (committee.StakeInfo, error)
}

// Chooser picks k distinct members.
type Chooser interface {
	Choose(candidates []rentnet.Address, k int) ([]rentnet.Address, error)
}

// Slasher records pending slashes.
type Slasher interface {
	Create(ps *slash.PendingSlash, now uint32) (uint64, error)
}

// Assign picks the committee of a new task among Normal members with enough
// free stake, and locks StakePerOrder on each of them. It returns no member
// while fewer than MinCommittee members are eligible; the task then waits.
func Assign(p *params.Params, reg Registry, rnd Chooser) ([]rentnet.Address, uint64, error) {
	size, err := p.Get(params.CommitteeSize)
	if err != nil {
		return nil, 0, err
	}
	least, err := p.Get(params.MinCommittee)
	if err != nil {
		return nil, 0, err
	}
	lock, err := reg.StakePerOrder()
	if err != nil {
		return nil, 0, err
	}
	available, err := reg.AvailableCommittee()
	if err != nil {
		return nil, 0, err
	}

	var eligible []rentnet.Address
	for _, m := range available {
		info, err := reg.Stake(m)
		if err != nil {
			return nil, 0, err
		}
		if info.Free() >= lock {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 || uint64(len(eligible)) < max(least, 1) {
		return nil, 0, nil
	}

	members, err := rnd.Choose(eligible, int(min(size, uint64(len(eligible)))))
	if err != nil {
		return nil, 0, err
	}
	for _, m := range members {
		if err := reg.ChangeUsedStake(m, lock, true); err != nil {
			return nil, 0, err
		}
	}
	return members, lock, nil
}

// Settle applies the committee side of a resolved task: honest and undecided
// members get their stake unlocked, honest ones are credited reward when the
// outcome is not Inconclusive, and punished members go to a pending slash of
// StakePerOrder each that rewards the honest members.
func Settle(reg Registry, slasher Slasher, t *Task, res *consensus.Resolution, reward uint64, now uint32) error {
	for _, group := range [][]rentnet.Address{res.Honest, res.Undecided} {
		for _, m := range group {
			if err := reg.ChangeUsedStake(m, t.StakeLocked, false); err != nil {
				return err
			}
		}
	}
	if res.Outcome != consensus.Inconclusive && reward > 0 {
		for _, m := range res.Honest {
			if err := reg.AddReward(m, reward); err != nil {
				return err
			}
		}
	}

	punished := res.Punished()
	if len(punished) == 0 {
		return nil
	}
	amount, err := reg.StakePerOrder()
	if err != nil {
		return err
	}
	ps := &slash.PendingSlash{
		Target:      slash.TargetCommittee,
		Reason:      t.Kind.String() + "-verification",
		Subject:     t.SubjectID,
		SlashWho:    punished,
		SlashAmount: amount,
		UnlockStake: t.StakeLocked,
		RewardTo:    res.Honest,
	}
	if t.Kind == MachineOnline {
		ps.MachineID = rentnet.MachineID(t.SubjectID)
	}
	_, err = slasher.Create(ps, now)
	return err
}
