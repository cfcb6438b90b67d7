// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rentmachine

import (
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/rentnet"
)

var (
	ErrOrderNotFound    = reverts.New("order not found")
	ErrNotRenter        = reverts.New("not the renter of the order")
	ErrMachineNotRented = reverts.New("machine can not be rented")
	ErrNotEnoughGPU     = reverts.New("not enough free gpu")
	ErrInvalidDuration  = reverts.New("invalid rent duration")
	ErrStatusNotAllowed = reverts.New("order status not allowed")
	ErrTimeNotAllow     = reverts.New("time not allowed")
)

// OrderStatus is the life cycle of a rent order.
type OrderStatus uint8

const (
	WaitingConfirm OrderStatus = iota + 1
	Renting
	Canceled
	Finished
)

var orderStatusNames = [...]string{"", "waiting-confirm", "renting", "canceled", "finished"}

func (s OrderStatus) String() string {
	if s != 0 && int(s) < len(orderStatusNames) {
		return orderStatusNames[s]
	}
	return "unknown"
}

// ParseOrderStatus parses the names returned by OrderStatus.String.
func ParseOrderStatus(name string) (OrderStatus, bool) {
	for i, n := range orderStatusNames {
		if n == name && i != 0 {
			return OrderStatus(i), true
		}
	}
	return 0, false
}

// IsActive reports whether the order holds gpus.
func (s OrderStatus) IsActive() bool {
	return s == WaitingConfirm || s == Renting
}

// Order leases some gpus of a machine.
type Order struct {
	ID        uint64
	Renter    rentnet.Address
	MachineID rentnet.MachineID
	GPUIndex  []uint32 // sorted
	Duration  uint32   // blocks
	Payment   uint64   // reserved on the renter until confirmed
	RentTime  uint32
	// ConfirmDeadline is the last block before an unconfirmed order is canceled.
	ConfirmDeadline uint32
	EndTime         uint32 // set on confirm
	Status          OrderStatus
}

// MachineGPUOrder tracks the leases of a machine.
type MachineGPUOrder struct {
	RentOrder []uint64
	UsedGPU   []uint32 // sorted and deduplicated
}
