// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slash

import (
	"slices"

	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/rentnet"
)

var (
	ErrSlashNotFound   = reverts.New("slash not found")
	ErrSlashNotPending = reverts.New("slash not pending")
	ErrNotSlashed      = reverts.New("not a slashed party")
	ErrReviewExists    = reverts.New("slash already under review")
	ErrNoReview        = reverts.New("slash has no open review")
	ErrTimeNotAllow    = reverts.New("review time not allow")
	ErrUnknownTarget   = reverts.New("unknown slash target")
)

// Target is the stake a slash takes from.
type Target uint8

const (
	TargetCommittee     Target = iota + 1 // committee stake
	TargetMachineStake                    // stake a machine owner reserved for a machine
	TargetReportDeposit                   // deposit of a fault reporter
)

func (t Target) String() string {
	switch t {
	case TargetCommittee:
		return "committee"
	case TargetMachineStake:
		return "machine-stake"
	case TargetReportDeposit:
		return "report-deposit"
	default:
		return "unknown"
	}
}

// Result is the settlement state of a slash. Only Pending slashes change.
type Result uint8

const (
	Pending Result = iota
	Canceled
	Executed
)

var resultNames = [...]string{"pending", "canceled", "executed"}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "unknown"
}

// ParseResult parses the names returned by Result.String.
func ParseResult(name string) (Result, bool) {
	for i, n := range resultNames {
		if n == name {
			return Result(i), true
		}
	}
	return 0, false
}

// ReviewStatus is the state of a review application.
type ReviewStatus uint8

const (
	ReviewOpen ReviewStatus = iota + 1
	ReviewRejected
	ReviewAccepted
)

// Review is an appeal against a pending slash, backed by a deposit.
type Review struct {
	Applicant rentnet.Address
	Reason    string
	ApplyTime uint32
	Deadline  uint32 // the council decides before this block
	Deposit   uint64
	Status    ReviewStatus
}

// PendingSlash is a slash waiting for its execution time.
type PendingSlash struct {
	ID        uint64
	Target    Target
	Reason    string
	MachineID rentnet.MachineID
	Subject   string // report or machine the slash is about
	SlashWho  []rentnet.Address
	// SlashAmount is taken from each slashed party.
	SlashAmount uint64
	// UnlockStake is the used stake of each slashed committee member released
	// on execution or cancel.
	UnlockStake uint64
	SlashTime   uint32
	ExecTime    uint32
	Reporter    *rentnet.Address `rlp:"nil"`
	RewardTo    []rentnet.Address
	Result      Result
	Review      *Review `rlp:"nil"`
}

// HasOpenReview reports whether a review waits for the council.
func (s *PendingSlash) HasOpenReview() bool {
	return s.Review != nil && s.Review.Status == ReviewOpen
}

// IsSlashed reports whether who is one of the slashed parties.
func (s *PendingSlash) IsSlashed(who rentnet.Address) bool {
	return slices.Contains(s.SlashWho, who)
}
