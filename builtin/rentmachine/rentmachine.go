// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rentmachine leases gpus of online machines to renters.
package rentmachine

import (
	"strconv"

	"github.com/holiman/uint256"

	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/metrics"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "rentmachine")

var (
	metricOrders = metrics.LazyLoadCounterVec("rent_order_count", []string{"status"})

	slotOrders   = storage.Slot("rent-orders")
	slotByStatus = storage.Slot("rent-by-status")
	slotMachines = storage.Slot("rent-machine-gpu")
	slotByRenter = storage.Slot("rent-by-renter")
	slotNextID   = storage.Slot("rent-next-id")
)

// RentMachine keeps rent orders.
type RentMachine struct {
	state    *state.State
	log      *events.Log
	orders   *storage.Mapping[storage.Uint64Key, *Order]
	byStatus *storage.Mapping[storage.Uint64Key, []uint64]
	machines *storage.Mapping[rentnet.MachineID, *MachineGPUOrder]
	byRenter *storage.Mapping[rentnet.Address, []uint64]
	nextID   *storage.Uint64

	params  *params.Params
	ledger  ledger.Adapter
	profile *onlineprofile.OnlineProfile
	events  *events.Emitter
}

func New(addr rentnet.Address, state *state.State, log *events.Log, params *params.Params, ledger ledger.Adapter, profile *onlineprofile.OnlineProfile) *RentMachine {
	sctx := storage.NewContext(addr, state)
	return &RentMachine{
		state:    state,
		log:      log,
		orders:   storage.NewMapping[storage.Uint64Key, *Order](sctx, slotOrders),
		byStatus: storage.NewMapping[storage.Uint64Key, []uint64](sctx, slotByStatus),
		machines: storage.NewMapping[rentnet.MachineID, *MachineGPUOrder](sctx, slotMachines),
		byRenter: storage.NewMapping[rentnet.Address, []uint64](sctx, slotByRenter),
		nextID:   storage.NewUint64(sctx, slotNextID),
		params:   params,
		ledger:   ledger,
		profile:  profile,
		events:   events.NewEmitter("rentmachine", log),
	}
}

// Payment returns what renting gpuNum of a machine's gpus for duration blocks costs.
// Price is per machine per era.
func Payment(price uint64, gpuNum, totalGPU, duration uint32) uint64 {
	if totalGPU == 0 {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(price), uint256.NewInt(uint64(gpuNum)))
	v.Mul(v, uint256.NewInt(uint64(duration)))
	v.Div(v, uint256.NewInt(uint64(totalGPU)*uint64(rentnet.BlocksPerEra)))
	return v.Uint64()
}

func orderSubject(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// Getters - no state change

// Order returns the order of id, nil if not found.
func (r *RentMachine) Order(id uint64) (*Order, error) {
	return r.orders.Get(storage.Uint64Key(id))
}

// List returns ids of orders with status.
func (r *RentMachine) List(status OrderStatus) ([]uint64, error) {
	return r.byStatus.Get(storage.Uint64Key(status))
}

// MachineOrders returns the active leases of a machine. Never nil.
func (r *RentMachine) MachineOrders(id rentnet.MachineID) (*MachineGPUOrder, error) {
	mo, err := r.machines.Get(id)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		mo = &MachineGPUOrder{}
	}
	return mo, nil
}

// RenterOrders returns ids of all orders of renter.
func (r *RentMachine) RenterOrders(renter rentnet.Address) ([]uint64, error) {
	return r.byRenter.Get(renter)
}

func (r *RentMachine) mustOrder(id uint64) (*Order, error) {
	o, err := r.Order(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

//
// Actions
//

// Rent leases the lowest free gpuNum gpus of a machine for duration blocks.
// The payment stays reserved on the renter until the order is confirmed.
func (r *RentMachine) Rent(renter rentnet.Address, id rentnet.MachineID, gpuNum, duration, now uint32) (uint64, error) {
	if duration == 0 {
		return 0, ErrInvalidDuration
	}
	m, err := r.profile.Machine(id)
	if err != nil {
		return 0, err
	}
	if m == nil || !m.Status.IsServing() {
		return 0, ErrMachineNotRented
	}
	mo, err := r.MachineOrders(id)
	if err != nil {
		return 0, err
	}
	if gpuNum == 0 || gpuNum > m.GPUNum-uint32(len(mo.UsedGPU)) {
		return 0, ErrNotEnoughGPU
	}

	var index []uint32
	for i := uint32(0); i < m.GPUNum && uint32(len(index)) < gpuNum; i++ {
		if !itemlist.Contains(mo.UsedGPU, i) {
			index = append(index, i)
		}
	}
	payment := Payment(m.Price, gpuNum, m.GPUNum, duration)
	if payment > 0 {
		if err := r.ledger.Reserve(renter, payment); err != nil {
			return 0, err
		}
	}
	window, err := r.params.Get(params.RentConfirmWindow)
	if err != nil {
		return 0, err
	}
	oid, err := r.nextID.Add(1)
	if err != nil {
		return 0, err
	}
	o := &Order{
		ID:              oid,
		Renter:          renter,
		MachineID:       id,
		GPUIndex:        index,
		Duration:        duration,
		Payment:         payment,
		RentTime:        now,
		ConfirmDeadline: now + uint32(window),
	}

	for _, i := range index {
		mo.UsedGPU = itemlist.Add(mo.UsedGPU, i)
	}
	mo.RentOrder = itemlist.Add(mo.RentOrder, oid)
	if err := r.machines.Set(id, mo); err != nil {
		return 0, err
	}
	ids, err := r.RenterOrders(renter)
	if err != nil {
		return 0, err
	}
	if err := r.byRenter.Set(renter, itemlist.Add(ids, oid)); err != nil {
		return 0, err
	}
	if err := r.profile.SetRented(id, true); err != nil {
		return 0, err
	}
	if err := r.setStatus(o, WaitingConfirm); err != nil {
		return 0, err
	}
	logger.Debug("machine rented", "order", oid, "machine", id, "gpus", index, "payment", payment)
	return oid, nil
}

// ConfirmRent starts an order once the renter has checked the machine.
// The reserved payment goes to the machine owner.
func (r *RentMachine) ConfirmRent(renter rentnet.Address, oid uint64, now uint32) error {
	o, err := r.mustOrder(oid)
	if err != nil {
		return err
	}
	if o.Renter != renter {
		return ErrNotRenter
	}
	if o.Status != WaitingConfirm {
		return ErrStatusNotAllowed
	}
	if now >= o.ConfirmDeadline {
		return ErrTimeNotAllow
	}
	m, err := r.profile.Machine(o.MachineID)
	if err != nil {
		return err
	}
	if o.Payment > 0 {
		if err := r.ledger.RepatriateReserved(renter, m.Owner, o.Payment, ledger.Free); err != nil {
			return err
		}
	}
	o.EndTime = now + o.Duration
	return r.setStatus(o, Renting)
}

// TerminateRent ends an order early. An unconfirmed order is refunded.
func (r *RentMachine) TerminateRent(renter rentnet.Address, oid uint64) error {
	o, err := r.mustOrder(oid)
	if err != nil {
		return err
	}
	if o.Renter != renter {
		return ErrNotRenter
	}
	return r.close(o)
}

// Housekeep cancels orders not confirmed in time and finishes expired ones.
func (r *RentMachine) Housekeep(now uint32) error {
	for _, status := range []OrderStatus{WaitingConfirm, Renting} {
		ids, err := r.List(status)
		if err != nil {
			return err
		}
		for _, id := range ids {
			err := reverts.Isolate(r.state, r.log, func() error {
				o, err := r.mustOrder(id)
				if err != nil {
					return err
				}
				if (o.Status == WaitingConfirm && now >= o.ConfirmDeadline) ||
					(o.Status == Renting && now >= o.EndTime) {
					return r.close(o)
				}
				return nil
			})
			if err != nil {
				if !reverts.IsRevertErr(err) {
					return err
				}
				logger.Warn("close order reverted", "order", id, "err", err)
			}
		}
	}
	return nil
}

// close releases the gpus of an active order.
func (r *RentMachine) close(o *Order) error {
	var to OrderStatus
	switch o.Status {
	case WaitingConfirm:
		if o.Payment > 0 {
			if err := r.ledger.Unreserve(o.Renter, o.Payment); err != nil {
				return err
			}
		}
		to = Canceled
	case Renting:
		to = Finished
	default:
		return ErrStatusNotAllowed
	}

	mo, err := r.MachineOrders(o.MachineID)
	if err != nil {
		return err
	}
	for _, i := range o.GPUIndex {
		mo.UsedGPU = itemlist.Remove(mo.UsedGPU, i)
	}
	mo.RentOrder = itemlist.Remove(mo.RentOrder, o.ID)
	if len(mo.RentOrder) == 0 {
		r.machines.Delete(o.MachineID)
		m, err := r.profile.Machine(o.MachineID)
		if err != nil {
			return err
		}
		if m.Status == onlineprofile.Rented {
			if err := r.profile.SetRented(o.MachineID, false); err != nil {
				return err
			}
		}
	} else if err := r.machines.Set(o.MachineID, mo); err != nil {
		return err
	}
	return r.setStatus(o, to)
}

func (r *RentMachine) setStatus(o *Order, to OrderStatus) error {
	if o.Status != 0 {
		ids, err := r.List(o.Status)
		if err != nil {
			return err
		}
		if err := r.byStatus.Set(storage.Uint64Key(o.Status), itemlist.Remove(ids, o.ID)); err != nil {
			return err
		}
	}
	ids, err := r.List(to)
	if err != nil {
		return err
	}
	if err := r.byStatus.Set(storage.Uint64Key(to), itemlist.Add(ids, o.ID)); err != nil {
		return err
	}
	o.Status = to
	if err := r.orders.Set(storage.Uint64Key(o.ID), o); err != nil {
		return err
	}
	metricOrders().AddWithLabel(1, map[string]string{"status": to.String()})
	r.events.Emit(to.String(), orderSubject(o.ID), o.Renter, o.Payment, o.MachineID.String())
	return nil
}
