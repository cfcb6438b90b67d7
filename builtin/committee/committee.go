// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "committee")

// Status of a committee member. A member holds exactly one status, or None.
type Status uint8

const (
	None Status = iota
	Normal
	Chill
	WaitingBoxPubkey
	Fulfilling
)

var statusNames = map[Status]string{
	None:             "none",
	Normal:           "normal",
	Chill:            "chill",
	WaitingBoxPubkey: "waiting",
	Fulfilling:       "fulfilling",
}

func (s Status) String() string {
	return statusNames[s]
}

// ParseStatus parses the names returned by Status.String.
func ParseStatus(name string) (Status, bool) {
	for s, n := range statusNames {
		if n == name && s != None {
			return s, true
		}
	}
	return None, false
}

// StakeInfo is the stake accounting of one member. Used never exceeds Staked.
type StakeInfo struct {
	Staked         uint64
	Used           uint64
	CanClaimReward uint64
	ClaimedReward  uint64
}

// Free returns stake not locked by tasks.
func (s StakeInfo) Free() uint64 {
	return s.Staked - s.Used
}

type boxPubkey struct {
	Key []byte
}

var (
	slotNormal      = storage.Slot("committee-normal")
	slotChill       = storage.Slot("committee-chill")
	slotWaiting     = storage.Slot("committee-waiting-box-pubkey")
	slotFulfilling  = storage.Slot("committee-fulfilling")
	slotStake       = storage.Slot("committee-stake")
	slotBoxPubkey   = storage.Slot("committee-box-pubkey")
	statusSlotOrder = []Status{Normal, Chill, WaitingBoxPubkey, Fulfilling}
)

// Committee is the registry of committee members and their stake.
type Committee struct {
	lists     map[Status]*storage.Value[[]rentnet.Address]
	stakes    *storage.Mapping[rentnet.Address, StakeInfo]
	boxPubkey *storage.Mapping[rentnet.Address, *boxPubkey]

	params *params.Params
	ledger ledger.Adapter
	events *events.Emitter
}

// New create a new instance.
func New(addr rentnet.Address, state *state.State, params *params.Params, ledger ledger.Adapter, log *events.Log) *Committee {
	sctx := storage.NewContext(addr, state)
	return &Committee{
		lists: map[Status]*storage.Value[[]rentnet.Address]{
			Normal:           storage.NewValue[[]rentnet.Address](sctx, slotNormal),
			Chill:            storage.NewValue[[]rentnet.Address](sctx, slotChill),
			WaitingBoxPubkey: storage.NewValue[[]rentnet.Address](sctx, slotWaiting),
			Fulfilling:       storage.NewValue[[]rentnet.Address](sctx, slotFulfilling),
		},
		stakes:    storage.NewMapping[rentnet.Address, StakeInfo](sctx, slotStake),
		boxPubkey: storage.NewMapping[rentnet.Address, *boxPubkey](sctx, slotBoxPubkey),
		params:    params,
		ledger:    ledger,
		events:    events.NewEmitter("committee", log),
	}
}

//
// Getters - no state change
//

// List returns the sorted members holding status.
func (c *Committee) List(status Status) ([]rentnet.Address, error) {
	l, ok := c.lists[status]
	if !ok {
		return nil, fmt.Errorf("no list for status %v", status)
	}
	members, err := l.Get()
	if err != nil {
		return nil, errors.Wrapf(err, "get %v list", status)
	}
	return members, nil
}

// StatusOf returns the status of who. It panics if who is found in more than one list.
func (c *Committee) StatusOf(who rentnet.Address) (Status, error) {
	found := None
	for _, s := range statusSlotOrder {
		members, err := c.List(s)
		if err != nil {
			return None, err
		}
		if itemlist.ContainsFunc(members, who) {
			if found != None {
				panic(fmt.Sprintf("committee %v is both %v and %v", who, found, s))
			}
			found = s
		}
	}
	return found, nil
}

// IsCommittee reports membership in any status list.
func (c *Committee) IsCommittee(who rentnet.Address) (bool, error) {
	s, err := c.StatusOf(who)
	return s != None, err
}

// Stake returns the stake info of who.
func (c *Committee) Stake(who rentnet.Address) (StakeInfo, error) {
	info, err := c.stakes.Get(who)
	if err != nil {
		return StakeInfo{}, errors.Wrapf(err, "get stake of %v", who)
	}
	return info, nil
}

// BoxPubkey returns the key committee members use to receive machine owner secrets.
func (c *Committee) BoxPubkey(who rentnet.Address) ([]byte, error) {
	k, err := c.boxPubkey.Get(who)
	if err != nil || k == nil {
		return nil, err
	}
	return k.Key, nil
}

//
// Internal mutators
//

// setStatus is the only writer of the status lists.
func (c *Committee) setStatus(who rentnet.Address, to Status) error {
	from, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	if from != None {
		members, err := c.List(from)
		if err != nil {
			return err
		}
		if err := c.lists[from].Set(itemlist.RemoveFunc(members, who)); err != nil {
			return err
		}
	}
	if to != None {
		members, err := c.List(to)
		if err != nil {
			return err
		}
		if err := c.lists[to].Set(itemlist.AddFunc(members, who)); err != nil {
			return err
		}
	}
	logger.Debug("committee status changed", "who", who, "from", from, "to", to)
	c.events.Emit("status", to.String(), who, 0, from.String())
	return nil
}

func (c *Committee) setStake(who rentnet.Address, info StakeInfo) error {
	if info.Used > info.Staked {
		panic(fmt.Sprintf("committee %v used stake %d exceeds staked %d", who, info.Used, info.Staked))
	}
	return c.stakes.Set(who, info)
}

// refreshStatus moves a member between Normal and Fulfilling as its stake crosses the baseline.
func (c *Committee) refreshStatus(who rentnet.Address, info StakeInfo) error {
	status, err := c.StatusOf(who)
	if err != nil {
		return err
	}
	baseline, err := c.params.Get(params.CommitteeStakeBaseline)
	if err != nil {
		return err
	}
	switch {
	case status == Normal && info.Staked < baseline:
		return c.setStatus(who, Fulfilling)
	case status == Fulfilling && info.Staked >= baseline:
		key, err := c.BoxPubkey(who)
		if err != nil {
			return err
		}
		if len(key) > 0 {
			return c.setStatus(who, Normal)
		}
	}
	return nil
}
