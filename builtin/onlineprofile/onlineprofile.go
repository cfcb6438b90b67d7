// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package onlineprofile keeps bonded machines, their stake, grade and rewards.
package onlineprofile

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/grade"
	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "onlineprofile")

var (
	slotMachines   = storage.Slot("profile-machines")
	slotByStatus   = storage.Slot("profile-by-status")
	slotByOwner    = storage.Slot("profile-by-owner")
	slotRewards    = storage.Slot("profile-owner-rewards")
	slotTotalGrade = storage.Slot("profile-total-grade")
)

// OnlineProfile is the machine registry.
type OnlineProfile struct {
	machines   *storage.Mapping[rentnet.MachineID, *Machine]
	byStatus   *storage.Mapping[storage.Uint64Key, []rentnet.MachineID]
	byOwner    *storage.Mapping[rentnet.Address, []rentnet.MachineID]
	rewards    *storage.Mapping[rentnet.Address, OwnerReward]
	totalGrade *storage.Uint64

	params *params.Params
	ledger ledger.Adapter
	mgr    committee.Manager
	events *events.Emitter
}

func New(addr rentnet.Address, state *state.State, params *params.Params, ledger ledger.Adapter, mgr committee.Manager, log *events.Log) *OnlineProfile {
	sctx := storage.NewContext(addr, state)
	return &OnlineProfile{
		machines:   storage.NewMapping[rentnet.MachineID, *Machine](sctx, slotMachines),
		byStatus:   storage.NewMapping[storage.Uint64Key, []rentnet.MachineID](sctx, slotByStatus),
		byOwner:    storage.NewMapping[rentnet.Address, []rentnet.MachineID](sctx, slotByOwner),
		rewards:    storage.NewMapping[rentnet.Address, OwnerReward](sctx, slotRewards),
		totalGrade: storage.NewUint64(sctx, slotTotalGrade),
		params:     params,
		ledger:     ledger,
		mgr:        mgr,
		events:     events.NewEmitter("onlineprofile", log),
	}
}

//
// Getters - no state change
//

// Machine returns the machine of id, nil if never bonded.
func (p *OnlineProfile) Machine(id rentnet.MachineID) (*Machine, error) {
	m, err := p.machines.Get(id)
	if err != nil {
		return nil, errors.Wrapf(err, "get machine %s", id)
	}
	return m, nil
}

// List returns the sorted ids of machines with status.
func (p *OnlineProfile) List(status Status) ([]rentnet.MachineID, error) {
	return p.byStatus.Get(storage.Uint64Key(status))
}

// OwnerMachines returns the sorted ids of machines bonded by owner.
func (p *OnlineProfile) OwnerMachines(owner rentnet.Address) ([]rentnet.MachineID, error) {
	return p.byOwner.Get(owner)
}

// Reward returns the reward account of owner.
func (p *OnlineProfile) Reward(owner rentnet.Address) (OwnerReward, error) {
	return p.rewards.Get(owner)
}

// TotalGrade returns the grade sum of serving machines.
func (p *OnlineProfile) TotalGrade() (uint64, error) {
	return p.totalGrade.Get()
}

func (p *OnlineProfile) mustMachine(id rentnet.MachineID) (*Machine, error) {
	m, err := p.Machine(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMachineNotFound
	}
	return m, nil
}

func (p *OnlineProfile) requiredStake(gpuNum uint32) (uint64, error) {
	perGPU, err := p.params.Get(params.StakePerGPU)
	if err != nil {
		return 0, err
	}
	stake, overflow := math.SafeMul(perGPU, uint64(gpuNum))
	if overflow {
		return 0, ErrOverflow
	}
	return stake, nil
}

//
// Mutators
//

// AddMachine bonds a machine, reserving its stake, and queues it for verification.
// An exited machine may be bonded again.
func (p *OnlineProfile) AddMachine(owner rentnet.Address, id rentnet.MachineID, gpuNum uint32, price uint64, now uint32) error {
	if gpuNum == 0 || price == 0 {
		return ErrInvalidMachine
	}
	old, err := p.Machine(id)
	if err != nil {
		return err
	}
	if old != nil && old.Status != Exited {
		return ErrMachineExists
	}
	stake, err := p.requiredStake(gpuNum)
	if err != nil {
		return err
	}
	if err := p.ledger.Reserve(owner, stake); err != nil {
		return err
	}
	if old != nil && old.Owner != owner {
		if err := p.setOwner(old.Owner, id, false); err != nil {
			return err
		}
	}
	m := &Machine{
		ID:       id,
		Owner:    owner,
		GPUNum:   gpuNum,
		Price:    price,
		Stake:    stake,
		BondTime: now,
	}
	if old != nil {
		m.Status = old.Status
	}
	if err := p.setOwner(owner, id, true); err != nil {
		return err
	}
	logger.Debug("machine bonded", "machine", id, "owner", owner, "stake", stake)
	p.events.Emit("bonded", id.String(), owner, stake, "")
	return p.setStatus(m, WaitingVerify)
}

// Resubmit queues a refused or faulted machine for verification again,
// topping its stake up to the requirement.
func (p *OnlineProfile) Resubmit(owner rentnet.Address, id rentnet.MachineID) error {
	m, err := p.mustMachine(id)
	if err != nil {
		return err
	}
	if m.Owner != owner {
		return ErrNotMachineOwner
	}
	if m.Status != Refused && m.Status != Fault {
		return ErrStatusNotAllowed
	}
	stake, err := p.requiredStake(m.GPUNum)
	if err != nil {
		return err
	}
	if m.Stake < stake {
		if err := p.ledger.Reserve(owner, stake-m.Stake); err != nil {
			return err
		}
		m.Stake = stake
	}
	return p.setStatus(m, WaitingVerify)
}

// StartVerify marks a queued machine as under verification.
func (p *OnlineProfile) StartVerify(id rentnet.MachineID) error {
	m, err := p.mustMachine(id)
	if err != nil {
		return err
	}
	if m.Status != WaitingVerify {
		return ErrStatusNotAllowed
	}
	return p.setStatus(m, Verifying)
}

// ConfirmOnline brings a verified machine online with the info its committee agreed on.
func (p *OnlineProfile) ConfirmOnline(id rentnet.MachineID, info *Info, committees []rentnet.Address, now uint32) error {
	m, err := p.mustMachine(id)
	if err != nil {
		return err
	}
	if m.Status != Verifying {
		return ErrStatusNotAllowed
	}
	if info.GPUNum != m.GPUNum {
		return ErrGPUNumMismatch
	}
	m.Info = info
	m.OnlineTime = now
	m.Committees = committees
	m.Grade = grade.Calc(m.Price, m.Stake, info.CalcPoint)
	if _, err := p.totalGrade.Add(m.Grade); err != nil {
		return err
	}
	logger.Debug("machine online", "machine", id, "grade", m.Grade)
	return p.setStatus(m, Online)
}

// Refuse rejects a machine under verification.
func (p *OnlineProfile) Refuse(id rentnet.MachineID) error {
	m, err := p.mustMachine(id)
	if err != nil {
		return err
	}
	if m.Status != Verifying {
		return ErrStatusNotAllowed
	}
	return p.setStatus(m, Refused)
}

// MarkFault takes a serving machine offline after a confirmed fault report.
func (p *OnlineProfile) MarkFault(id rentnet.MachineID) error {
	m, err := p.mustMachine(id)
	if err != nil {
		return err
	}
	if !m.Status.IsServing() {
		return ErrStatusNotAllowed
	}
	if err := p.dropGrade(m); err != nil {
		return err
	}
	return p.setStatus(m, Fault)
}

// SetRented moves a machine between Online and Rented.
func (p *OnlineProfile) SetRented(id rentnet.MachineID, rented bool) error {
	m, err := p.mustMachine(id)
	if err != nil {
		return err
	}
	switch {
	case rented && m.Status == Online:
		return p.setStatus(m, Rented)
	case !rented && m.Status == Rented:
		return p.setStatus(m, Online)
	case rented && m.Status == Rented, !rented && m.Status == Online:
		return nil
	}
	return ErrStatusNotAllowed
}

// ExitMachine unbonds a machine that is neither rented nor under verification
// and releases its stake.
func (p *OnlineProfile) ExitMachine(owner rentnet.Address, id rentnet.MachineID) error {
	m, err := p.mustMachine(id)
	if err != nil {
		return err
	}
	if m.Owner != owner {
		return ErrNotMachineOwner
	}
	switch m.Status {
	case WaitingVerify, Online, Refused, Fault:
	default:
		return ErrStatusNotAllowed
	}
	if m.Status == Online {
		if err := p.dropGrade(m); err != nil {
			return err
		}
	}
	if err := p.ledger.Unreserve(owner, m.Stake); err != nil {
		return err
	}
	p.events.Emit("exited", id.String(), owner, m.Stake, "")
	m.Stake = 0
	return p.setStatus(m, Exited)
}

// ClaimRewards mints the claimable era rewards of owner.
func (p *OnlineProfile) ClaimRewards(owner rentnet.Address, minter committee.Minter) (uint64, error) {
	r, err := p.Reward(owner)
	if err != nil {
		return 0, err
	}
	if r.Claimable == 0 {
		return 0, ErrNothingToClaim
	}
	amount := r.Claimable
	claimed, overflow := math.SafeAdd(r.Claimed, amount)
	if overflow {
		return 0, ErrOverflow
	}
	if err := minter.Mint(owner, amount); err != nil {
		return 0, err
	}
	r.Claimable, r.Claimed = 0, claimed
	if err := p.rewards.Set(owner, r); err != nil {
		return 0, err
	}
	p.events.Emit("reward-claimed", "", owner, amount, "")
	return amount, nil
}

// reduceStake takes up to amount of the machine stake, regrading a serving machine.
func (p *OnlineProfile) reduceStake(m *Machine, amount uint64) (uint64, error) {
	taken := min(amount, m.Stake)
	if m.Status.IsServing() {
		if err := p.dropGrade(m); err != nil {
			return 0, err
		}
		m.Stake -= taken
		m.Grade = grade.Calc(m.Price, m.Stake, m.Info.CalcPoint)
		if _, err := p.totalGrade.Add(m.Grade); err != nil {
			return 0, err
		}
	} else {
		m.Stake -= taken
	}
	return taken, p.machines.Set(m.ID, m)
}

func (p *OnlineProfile) dropGrade(m *Machine) error {
	if _, err := p.totalGrade.Sub(m.Grade); err != nil {
		panic(fmt.Sprintf("total grade below grade %d of machine %s", m.Grade, m.ID))
	}
	m.Grade = 0
	return nil
}

// setStatus is the only writer of the status lists. It saves m.
func (p *OnlineProfile) setStatus(m *Machine, to Status) error {
	from := m.Status
	if from != None {
		ids, err := p.List(from)
		if err != nil {
			return err
		}
		if err := p.byStatus.Set(storage.Uint64Key(from), itemlist.Remove(ids, m.ID)); err != nil {
			return err
		}
	}
	ids, err := p.List(to)
	if err != nil {
		return err
	}
	if err := p.byStatus.Set(storage.Uint64Key(to), itemlist.Add(ids, m.ID)); err != nil {
		return err
	}
	m.Status = to
	if err := p.machines.Set(m.ID, m); err != nil {
		return err
	}
	p.events.Emit("status", m.ID.String(), m.Owner, 0, to.String())
	return nil
}

func (p *OnlineProfile) setOwner(owner rentnet.Address, id rentnet.MachineID, add bool) error {
	ids, err := p.OwnerMachines(owner)
	if err != nil {
		return err
	}
	if add {
		ids = itemlist.Add(ids, id)
	} else {
		ids = itemlist.Remove(ids, id)
	}
	return p.byOwner.Set(owner, ids)
}
