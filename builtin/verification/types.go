// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verification

import (
	"encoding/binary"
	"io"

	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/rentnet"
)

var (
	ErrTaskExists        = reverts.New("task already booked")
	ErrTaskNotFound      = reverts.New("task not found")
	ErrNotInBookList     = reverts.New("not in book list")
	ErrAlreadySubmitHash = reverts.New("already submit hash")
	ErrNotSubmitHash     = reverts.New("not submit hash")
	ErrAlreadySubmitRaw  = reverts.New("already submit raw")
	ErrTimeNotAllow      = reverts.New("time not allow")
	ErrInfoNotMatchHash  = reverts.New("info not match hash")
	ErrEmptyMembers      = reverts.New("no member to book")
)

// Kind is the kind of claim a task verifies.
type Kind uint8

const (
	MachineOnline Kind = iota + 1
	FaultReport
)

func (k Kind) String() string {
	switch k {
	case MachineOnline:
		return "machine"
	case FaultReport:
		return "report"
	default:
		return "unknown"
	}
}

// OpStatus is the progress of one member on one task. It only moves forward.
type OpStatus uint8

const (
	None OpStatus = iota
	Booked
	HashSubmitted
	RawSubmitted
	Confirmed
	Refused
	TimedOut
)

var opStatusNames = [...]string{"none", "booked", "hash-submitted", "raw-submitted", "confirmed", "refused", "timed-out"}

func (s OpStatus) String() string {
	if int(s) < len(opStatusNames) {
		return opStatusNames[s]
	}
	return "unknown"
}

// IsTerminal reports whether s is set by finalization.
func (s OpStatus) IsTerminal() bool {
	return s >= Confirmed
}

// MemberOp is the per member record of a task.
type MemberOp struct {
	Status      OpStatus
	BookedTime  uint32
	ConfirmHash rentnet.Bytes32
	HashTime    uint32
	ConfirmTime uint32
	Raw         []byte
}

// TaskStatus tells whether a task still accepts submissions.
type TaskStatus uint8

const (
	TaskOpen TaskStatus = iota
	TaskFinalized
)

// Task is one verification of a claim by an assigned committee set.
// Members, Hashed and Revealed are sorted.
type Task struct {
	Kind         Kind
	SubjectID    string
	Members      []rentnet.Address
	StakeLocked  uint64 // used stake locked on each member
	BookTime     uint32
	HashDeadline uint32 // hashes are accepted before this block
	RawDeadline  uint32 // reveals are accepted before this block
	Hashed       []rentnet.Address
	Revealed     []rentnet.Address
	Status       TaskStatus
}

// IsDue reports whether the task can be resolved at now: every member that
// can still act has acted, or the reveal window is over.
func (t *Task) IsDue(now uint32) bool {
	switch {
	case t.Status != TaskOpen:
		return false
	case len(t.Revealed) == len(t.Members):
		return true
	case now >= t.RawDeadline:
		return true
	case now >= t.HashDeadline && len(t.Revealed) == len(t.Hashed):
		return true
	}
	return false
}

// Stages lists the subjects of one kind a member works on, by stage.
type Stages struct {
	Booked    []string // waiting for the hash
	Hashed    []string // waiting for the reveal
	Confirmed []string // revealed, waiting for resolution
	Finished  []string // resolved in favour of the claim
}

// Commitment returns the hash a member submits before revealing raw.
func Commitment(kind Kind, subjectID string, raw, salt []byte) rentnet.Bytes32 {
	return rentnet.Blake2bFn(func(w io.Writer) {
		w.Write([]byte{byte(kind)})
		for _, b := range [][]byte{[]byte(subjectID), raw, salt} {
			w.Write(binary.BigEndian.AppendUint32(nil, uint32(len(b))))
			w.Write(b)
		}
	})
}
