// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package onlineprofile

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/rentnet"
)

// Housekeep pays the era reward when now opens a new era. It returns the
// amount credited.
func (p *OnlineProfile) Housekeep(now uint32) (uint64, error) {
	if !rentnet.IsEraStart(now) {
		return 0, nil
	}
	return p.DistributeEraReward(rentnet.CurrentEra(now) - 1)
}

// DistributeEraReward splits EraMachineReward over serving machines by grade.
// Committees that confirmed a machine share CommitteeRewardShare of its part.
func (p *OnlineProfile) DistributeEraReward(era uint32) (uint64, error) {
	total, err := p.TotalGrade()
	if err != nil || total == 0 {
		return 0, err
	}
	pool, err := p.params.Get(params.EraMachineReward)
	if err != nil {
		return 0, err
	}
	share, err := p.params.Get(params.CommitteeRewardShare)
	if err != nil {
		return 0, err
	}

	var paid uint64
	for _, status := range []Status{Online, Rented} {
		ids, err := p.List(status)
		if err != nil {
			return paid, err
		}
		for _, id := range ids {
			m, err := p.mustMachine(id)
			if err != nil {
				return paid, err
			}
			reward := mulDiv(pool, m.Grade, total)
			if reward == 0 {
				continue
			}
			toCommittee := uint64(0)
			if len(m.Committees) > 0 {
				toCommittee = rentnet.Perbill(min(share, rentnet.Billion)).Mul(reward)
				for i, part := range committee.Split(toCommittee, len(m.Committees)) {
					if err := p.mgr.AddReward(m.Committees[i], part); err != nil {
						return paid, err
					}
				}
			}
			if err := p.credit(m.Owner, reward-toCommittee); err != nil {
				return paid, err
			}
			// lifetime statistic, saturates rather than failing the era
			if sum, overflow := math.SafeAdd(m.TotalReward, reward); overflow {
				m.TotalReward = ^uint64(0)
			} else {
				m.TotalReward = sum
			}
			if err := p.machines.Set(id, m); err != nil {
				return paid, err
			}
			paid += reward
			p.events.Emit("era-reward", id.String(), m.Owner, reward, "")
		}
	}
	logger.Info("era reward distributed", "era", era, "paid", paid, "totalGrade", total)
	return paid, nil
}

func (p *OnlineProfile) credit(owner rentnet.Address, amount uint64) error {
	r, err := p.Reward(owner)
	if err != nil {
		return err
	}
	var overflow bool
	if r.Claimable, overflow = math.SafeAdd(r.Claimable, amount); overflow {
		return ErrOverflow
	}
	return p.rewards.Set(owner, r)
}

func mulDiv(a, b, c uint64) uint64 {
	v := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	return v.Div(v, uint256.NewInt(c)).Uint64()
}

// StakeSettler settles slashes of machine stake. The single slashed party
// is the machine owner.
type StakeSettler struct {
	profile *OnlineProfile
}

var _ slash.Settler = (*StakeSettler)(nil)

// StakeSettler returns the settler of slash.TargetMachineStake.
func (p *OnlineProfile) StakeSettler() *StakeSettler {
	return &StakeSettler{p}
}

func (s *StakeSettler) Settle(ps *slash.PendingSlash) error {
	m, err := s.profile.Machine(ps.MachineID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrSlashMachineAbsent
	}
	taken, err := s.profile.reduceStake(m, ps.SlashAmount)
	if err != nil {
		return err
	}
	if err := committee.Distribute(s.profile.ledger, m.Owner, taken, ps.RewardTo); err != nil {
		return err
	}
	logger.Debug("machine stake slashed", "machine", m.ID, "taken", taken, "rewarded", len(ps.RewardTo))
	s.profile.events.Emit("stake-slashed", m.ID.String(), m.Owner, taken, ps.Reason)
	return nil
}

// Release is a no-op: machine stake stays reserved until the machine exits.
func (s *StakeSettler) Release(*slash.PendingSlash) error {
	return nil
}
