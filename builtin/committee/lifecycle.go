// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/rentnet"
)

// Minter credits claimed rewards.
type Minter interface {
	Mint(to rentnet.Address, amount uint64) error
}

// Add registers who as a committee member waiting for its box pubkey. Council only.
func (c *Committee) Add(caller, who rentnet.Address) error {
	if err := c.params.RequireCouncil(caller); err != nil {
		return err
	}
	status, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	if status != None {
		return ErrAlreadyCommittee
	}
	logger.Info("committee added", "who", who)
	return c.setStatus(who, WaitingBoxPubkey)
}

// Kick removes who from the committee, releasing its stake. Council only.
func (c *Committee) Kick(caller, who rentnet.Address) error {
	if err := c.params.RequireCouncil(caller); err != nil {
		return err
	}
	return c.exit(who)
}

// Exit removes the caller from the committee. Unclaimed rewards stay claimable.
func (c *Committee) Exit(who rentnet.Address) error {
	return c.exit(who)
}

func (c *Committee) exit(who rentnet.Address) error {
	status, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	if status == None {
		return ErrNotCommittee
	}
	info, err := c.Stake(who)
	if err != nil {
		return err
	}
	if info.Used > 0 {
		return ErrStakeInUse
	}
	if info.Staked > 0 {
		if err := c.ChangeTotalStake(who, info.Staked, false, true); err != nil {
			return err
		}
	}
	logger.Info("committee exited", "who", who, "unreserved", info.Staked)
	return c.setStatus(who, None)
}

// SetBoxPubkey stores the box pubkey of who. A member waiting for it gets the
// stake baseline reserved and becomes Normal.
func (c *Committee) SetBoxPubkey(who rentnet.Address, key []byte) error {
	if len(key) == 0 {
		return ErrEmptyBoxPubkey
	}
	status, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	if status == None {
		return ErrNotCommittee
	}
	if err := c.boxPubkey.Set(who, &boxPubkey{Key: key}); err != nil {
		return err
	}
	if status != WaitingBoxPubkey {
		info, err := c.Stake(who)
		if err != nil {
			return err
		}
		return c.refreshStatus(who, info)
	}

	baseline, err := c.params.Get(params.CommitteeStakeBaseline)
	if err != nil {
		return err
	}
	info, err := c.Stake(who)
	if err != nil {
		return err
	}
	if info.Staked < baseline {
		if err := c.ChangeTotalStake(who, baseline-info.Staked, true, true); err != nil {
			return err
		}
	}
	return c.setStatus(who, Normal)
}

// Chill stops who from being assigned new tasks.
func (c *Committee) Chill(who rentnet.Address) error {
	status, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	switch status {
	case None:
		return ErrNotCommittee
	case Normal, Fulfilling:
		return c.setStatus(who, Chill)
	default:
		return ErrStatusNotAllowed
	}
}

// UndoChill makes a chilled member assignable again, or Fulfilling if short of stake.
func (c *Committee) UndoChill(who rentnet.Address) error {
	status, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	if status != Chill {
		return ErrStatusNotAllowed
	}
	info, err := c.Stake(who)
	if err != nil {
		return err
	}
	baseline, err := c.params.Get(params.CommitteeStakeBaseline)
	if err != nil {
		return err
	}
	if info.Staked < baseline {
		return c.setStatus(who, Fulfilling)
	}
	return c.setStatus(who, Normal)
}

// AddStake reserves more stake for who.
func (c *Committee) AddStake(who rentnet.Address, amount uint64) error {
	ok, err := c.IsCommittee(who)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotCommittee
	}
	return c.ChangeTotalStake(who, amount, true, true)
}

// ReduceStake releases stake of who. Used stake stays reserved and a Normal
// member keeps at least the baseline.
func (c *Committee) ReduceStake(who rentnet.Address, amount uint64) error {
	status, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	if status == None {
		return ErrNotCommittee
	}
	info, err := c.Stake(who)
	if err != nil {
		return err
	}
	if amount > info.Free() {
		return ErrStakeInUse
	}
	if status == Normal {
		baseline, err := c.params.Get(params.CommitteeStakeBaseline)
		if err != nil {
			return err
		}
		if info.Staked-amount < baseline {
			return ErrStakeNotEnough
		}
	}
	return c.ChangeTotalStake(who, amount, false, true)
}

// ClaimReward pays out the claimable reward of who and returns the amount paid.
func (c *Committee) ClaimReward(who rentnet.Address, minter Minter) (uint64, error) {
	info, err := c.Stake(who)
	if err != nil {
		return 0, err
	}
	if info.CanClaimReward == 0 {
		return 0, ErrNothingToClaim
	}
	amount := info.CanClaimReward
	claimed, overflow := math.SafeAdd(info.ClaimedReward, amount)
	if overflow {
		return 0, ErrOverflow
	}
	if err := minter.Mint(who, amount); err != nil {
		return 0, err
	}
	info.ClaimedReward = claimed
	info.CanClaimReward = 0
	if err := c.setStake(who, info); err != nil {
		return 0, err
	}
	c.events.Emit("reward-claimed", "", who, amount, "")
	return amount, nil
}
