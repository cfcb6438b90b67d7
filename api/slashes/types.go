// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashes

import (
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/rentnet"
)

type Review struct {
	Applicant rentnet.Address `json:"applicant"`
	Reason    string          `json:"reason"`
	ApplyTime uint32          `json:"applyTime"`
	Deadline  uint32          `json:"deadline"`
	Deposit   uint64          `json:"deposit"`
	Status    string          `json:"status"`
}

// Slash is a pending, canceled or executed slash.
type Slash struct {
	ID          uint64            `json:"id"`
	Target      string            `json:"target"`
	Reason      string            `json:"reason"`
	MachineID   string            `json:"machineID,omitempty"`
	Subject     string            `json:"subject"`
	SlashWho    []rentnet.Address `json:"slashWho"`
	SlashAmount uint64            `json:"slashAmount"`
	UnlockStake uint64            `json:"unlockStake"`
	SlashTime   uint32            `json:"slashTime"`
	ExecTime    uint32            `json:"execTime"`
	Reporter    *rentnet.Address  `json:"reporter"`
	RewardTo    []rentnet.Address `json:"rewardTo"`
	Status      string            `json:"status"`
	Review      *Review           `json:"review"`
}

var reviewStatusNames = map[slash.ReviewStatus]string{
	slash.ReviewOpen:     "open",
	slash.ReviewRejected: "rejected",
	slash.ReviewAccepted: "accepted",
}

func convertSlash(ps *slash.PendingSlash) *Slash {
	out := &Slash{
		ID:          ps.ID,
		Target:      ps.Target.String(),
		Reason:      ps.Reason,
		MachineID:   ps.MachineID.String(),
		Subject:     ps.Subject,
		SlashWho:    ps.SlashWho,
		SlashAmount: ps.SlashAmount,
		UnlockStake: ps.UnlockStake,
		SlashTime:   ps.SlashTime,
		ExecTime:    ps.ExecTime,
		Reporter:    ps.Reporter,
		RewardTo:    ps.RewardTo,
		Status:      ps.Result.String(),
	}
	if out.SlashWho == nil {
		out.SlashWho = []rentnet.Address{}
	}
	if out.RewardTo == nil {
		out.RewardTo = []rentnet.Address{}
	}
	if r := ps.Review; r != nil {
		out.Review = &Review{
			Applicant: r.Applicant,
			Reason:    r.Reason,
			ApplyTime: r.ApplyTime,
			Deadline:  r.Deadline,
			Deposit:   r.Deposit,
			Status:    reviewStatusNames[r.Status],
		}
	}
	return out
}
