// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tasks

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/rentnet"
)

// MemberOp is the progress of one booked member.
type MemberOp struct {
	Address     rentnet.Address  `json:"address"`
	Status      string           `json:"status"`
	BookedTime  uint32           `json:"bookedTime"`
	ConfirmHash *rentnet.Bytes32 `json:"confirmHash"`
	HashTime    uint32           `json:"hashTime"`
	ConfirmTime uint32           `json:"confirmTime"`
	Raw         hexutil.Bytes    `json:"raw"`
}

// Task is a verification task with a snapshot of every member's progress.
type Task struct {
	Kind         string            `json:"kind"`
	Subject      string            `json:"subject"`
	StakeLocked  uint64            `json:"stakeLocked"`
	BookTime     uint32            `json:"bookTime"`
	HashDeadline uint32            `json:"hashDeadline"`
	RawDeadline  uint32            `json:"rawDeadline"`
	Hashed       []rentnet.Address `json:"hashed"`
	Revealed     []rentnet.Address `json:"revealed"`
	Finalized    bool              `json:"finalized"`
	Members      []*MemberOp       `json:"members"`
}

// ParseKind parses the names returned by verification.Kind.String.
func ParseKind(name string) (verification.Kind, bool) {
	for _, k := range []verification.Kind{verification.MachineOnline, verification.FaultReport} {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Load returns the task of a subject, nil if it was never booked.
func Load(v *verification.Verification, kind verification.Kind, subject string) (*Task, error) {
	t, err := v.Task(kind, subject)
	if err != nil || t == nil {
		return nil, err
	}
	ops, err := v.Ops(kind, subject)
	if err != nil {
		return nil, err
	}
	out := &Task{
		Kind:         kind.String(),
		Subject:      subject,
		StakeLocked:  t.StakeLocked,
		BookTime:     t.BookTime,
		HashDeadline: t.HashDeadline,
		RawDeadline:  t.RawDeadline,
		Hashed:       nonNil(t.Hashed),
		Revealed:     nonNil(t.Revealed),
		Finalized:    t.Status == verification.TaskFinalized,
		Members:      make([]*MemberOp, 0, len(t.Members)),
	}
	for _, m := range t.Members {
		mo := &MemberOp{Address: m, Status: verification.None.String()}
		if op := ops[m]; op != nil {
			mo.Status = op.Status.String()
			mo.BookedTime = op.BookedTime
			mo.HashTime = op.HashTime
			mo.ConfirmTime = op.ConfirmTime
			mo.Raw = op.Raw
			if !op.ConfirmHash.IsZero() {
				h := op.ConfirmHash
				mo.ConfirmHash = &h
			}
		}
		out.Members = append(out.Members, mo)
	}
	return out, nil
}

func nonNil(addrs []rentnet.Address) []rentnet.Address {
	if addrs == nil {
		return []rentnet.Address{}
	}
	return addrs
}
