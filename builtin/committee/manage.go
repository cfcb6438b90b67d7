// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/rentnet"
)

// Manager is the capability set verification modules use to drive committee stake.
type Manager interface {
	// IsValidCommittee reports whether who is in Normal status.
	IsValidCommittee(who rentnet.Address) (bool, error)
	// AvailableCommittee returns the Normal members, or nil if there is none.
	AvailableCommittee() ([]rentnet.Address, error)
	ChangeUsedStake(who rentnet.Address, amount uint64, isAdd bool) error
	ChangeTotalStake(who rentnet.Address, amount uint64, isAdd bool, changeReserve bool) error
	StakePerOrder() (uint64, error)
	AddReward(who rentnet.Address, amount uint64) error
	SlashAndReward(slashWho []rentnet.Address, eachSlash uint64, rewardTo []rentnet.Address) error
}

var _ Manager = (*Committee)(nil)

func (c *Committee) IsValidCommittee(who rentnet.Address) (bool, error) {
	status, err := c.StatusOf(who)
	return status == Normal, err
}

func (c *Committee) AvailableCommittee() ([]rentnet.Address, error) {
	normal, err := c.List(Normal)
	if err != nil {
		return nil, err
	}
	if len(normal) == 0 {
		return nil, nil
	}
	return normal, nil
}

// ChangeUsedStake locks or unlocks stake of who against tasks.
func (c *Committee) ChangeUsedStake(who rentnet.Address, amount uint64, isAdd bool) error {
	info, err := c.Stake(who)
	if err != nil {
		return err
	}
	if isAdd {
		used, overflow := math.SafeAdd(info.Used, amount)
		if overflow || used > info.Staked {
			return ErrOverflow
		}
		info.Used = used
	} else {
		used, underflow := math.SafeSub(info.Used, amount)
		if underflow {
			return ErrOverflow
		}
		info.Used = used
	}
	return c.setStake(who, info)
}

// ChangeTotalStake changes staked amount of who, reserving or unreserving the
// same amount on the ledger when changeReserve is set.
func (c *Committee) ChangeTotalStake(who rentnet.Address, amount uint64, isAdd bool, changeReserve bool) error {
	info, err := c.Stake(who)
	if err != nil {
		return err
	}
	if isAdd {
		staked, overflow := math.SafeAdd(info.Staked, amount)
		if overflow {
			return ErrOverflow
		}
		info.Staked = staked
	} else {
		staked, underflow := math.SafeSub(info.Staked, amount)
		if underflow || staked < info.Used {
			return ErrOverflow
		}
		info.Staked = staked
	}

	if changeReserve {
		if isAdd {
			err = c.ledger.Reserve(who, amount)
		} else {
			err = c.ledger.Unreserve(who, amount)
		}
		if err != nil {
			return err
		}
	}
	if err := c.setStake(who, info); err != nil {
		return err
	}
	return c.refreshStatus(who, info)
}

func (c *Committee) StakePerOrder() (uint64, error) {
	return c.params.Get(params.StakePerOrder)
}

// AddReward credits claimable reward to who.
func (c *Committee) AddReward(who rentnet.Address, amount uint64) error {
	info, err := c.Stake(who)
	if err != nil {
		return err
	}
	reward, overflow := math.SafeAdd(info.CanClaimReward, amount)
	if overflow {
		return ErrOverflow
	}
	info.CanClaimReward = reward
	if err := c.setStake(who, info); err != nil {
		return err
	}
	c.events.Emit("reward", "", who, amount, "")
	return nil
}

// SlashAndReward takes eachSlash from every slashed member's stake and splits it
// evenly among rewardTo, in order, the last recipient absorbing the remainder.
// With no recipient the slashed stake goes to the treasury.
// The slashed stake must already be unlocked with ChangeUsedStake.
func (c *Committee) SlashAndReward(slashWho []rentnet.Address, eachSlash uint64, rewardTo []rentnet.Address) error {
	for _, who := range slashWho {
		info, err := c.Stake(who)
		if err != nil {
			return err
		}
		amount := min(eachSlash, info.Free())
		if amount == 0 {
			continue
		}
		if err := c.ChangeTotalStake(who, amount, false, false); err != nil {
			return err
		}
		if err := Distribute(c.ledger, who, amount, rewardTo); err != nil {
			return errors.Wrapf(err, "slash %v", who)
		}
		logger.Debug("committee slashed", "who", who, "amount", amount, "rewarded", len(rewardTo))
		c.events.Emit("slashed", "", who, amount, "")
	}
	return nil
}

// Distribute repatriates amount of from's reserved balance to recipients in
// even Perbill shares. The last recipient receives what is left so the shares
// always sum to amount. Without recipients the amount goes to the treasury.
func Distribute(l ledger.Adapter, from rentnet.Address, amount uint64, recipients []rentnet.Address) error {
	if len(recipients) == 0 {
		return l.RepatriateReserved(from, ledger.Treasury, amount, ledger.Free)
	}
	for i, share := range Split(amount, len(recipients)) {
		if err := l.RepatriateReserved(from, recipients[i], share, ledger.Free); err != nil {
			return err
		}
	}
	return nil
}

// Split returns the shares Distribute pays to n recipients.
func Split(amount uint64, n int) []uint64 {
	if n == 0 {
		return nil
	}
	each := rentnet.PerbillFromRational(1, uint64(n)).Mul(amount)
	shares := make([]uint64, n)
	left := amount
	for i := range shares {
		if i == n-1 {
			shares[i] = left
		} else {
			shares[i] = each
		}
		left -= shares[i]
	}
	return shares
}
