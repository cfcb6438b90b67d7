// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package maintaincommittee

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/rentnet"
)

var (
	ErrReportNotFound   = reverts.New("report not found")
	ErrMachineNotServed = reverts.New("machine is not serving")
	ErrAlreadyReported  = reverts.New("machine already has an open report")
	ErrEmptyFaultKind   = reverts.New("empty fault kind")
)

// FaultKind describes what is wrong with a machine.
type FaultKind string

// Report status.
type Status uint8

const (
	WaitingVerify Status = iota + 1
	Verifying
	FaultConfirmed
	FaultRejected
	Inconclusive
)

var statusNames = [...]string{"", "waiting-verify", "verifying", "fault-confirmed", "fault-rejected", "inconclusive"}

func (s Status) String() string {
	if int(s) < len(statusNames) && s != 0 {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus parses the names returned by Status.String.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name && i != 0 {
			return Status(i), true
		}
	}
	return 0, false
}

// Report is a fault report on a serving machine.
type Report struct {
	ID         uint64
	Reporter   rentnet.Address
	MachineID  rentnet.MachineID
	Kind       FaultKind
	Deposit    uint64 // reserved on the reporter
	ReportTime uint32
	Status     Status
	SlashID    uint64 // pending slash created on resolution, 0 if none
}

// Verdict is what a committee member reveals about a report.
type Verdict struct {
	IsFault bool
	Detail  string
}

// Encode returns the normalized encoding committed to. A no-fault verdict
// carries no detail.
func (v *Verdict) Encode() []byte {
	n := *v
	if !n.IsFault {
		n.Detail = ""
	}
	data, err := rlp.EncodeToBytes(&n)
	if err != nil {
		panic(err)
	}
	return data
}
