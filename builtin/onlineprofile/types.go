// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package onlineprofile

import (
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/rentnet"
)

var (
	ErrMachineExists      = reverts.New("machine already bonded")
	ErrMachineNotFound    = reverts.New("machine not found")
	ErrNotMachineOwner    = reverts.New("not machine owner")
	ErrStatusNotAllowed   = reverts.New("machine status not allowed")
	ErrInvalidMachine     = reverts.New("invalid machine gpu number or price")
	ErrGPUNumMismatch     = reverts.New("verified gpu number mismatch")
	ErrOverflow           = reverts.New("machine stake overflow")
	ErrNothingToClaim     = reverts.New("no reward to claim")
	ErrSlashMachineAbsent = reverts.New("slashed machine not found")
)

// Status of a machine.
type Status uint8

const (
	None Status = iota
	WaitingVerify
	Verifying
	Online
	Rented
	Refused
	Fault
	Exited
)

var statusNames = [...]string{"none", "waiting-verify", "verifying", "online", "rented", "refused", "fault", "exited"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus parses the names returned by Status.String.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name && i != int(None) {
			return Status(i), true
		}
	}
	return None, false
}

// IsServing reports whether the machine earns era rewards.
func (s Status) IsServing() bool {
	return s == Online || s == Rented
}

// Info is the hardware description a committee verifies. Committee members
// agree when their encoded Info values are byte equal.
type Info struct {
	GPUType   string
	GPUNum    uint32
	GPUMemGB  uint64
	CPUCores  uint32
	MemoryGB  uint64
	DiskGB    uint64
	CalcPoint uint64 // base grade
}

// Machine is a bonded machine.
type Machine struct {
	ID         rentnet.MachineID
	Owner      rentnet.Address
	GPUNum     uint32
	Price      uint64 // per era for the whole machine
	Stake      uint64 // reserved on the owner's balance
	Status     Status
	Info       *Info `rlp:"nil"`
	BondTime   uint32
	OnlineTime uint32
	Grade      uint64
	// Committees confirmed the machine and share its era reward.
	Committees  []rentnet.Address
	TotalReward uint64
}

// OwnerReward is the reward account of a machine owner.
type OwnerReward struct {
	Claimable uint64
	Claimed   uint64
}
