// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus folds the revealed verdicts of a committee into one outcome.
package consensus

import (
	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/rentnet"
)

// Outcome is the result of a verification task.
type Outcome uint8

const (
	Inconclusive Outcome = iota
	Confirmed
	Refused
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Refused:
		return "refused"
	default:
		return "inconclusive"
	}
}

// Vote is the revealed verdict of one committee member.
type Vote struct {
	Member rentnet.Address
	// Support is true when the member confirms the claim.
	Support bool
	// Observation is the normalized encoding of what the member revealed.
	// Votes agree when their observations are byte equal.
	Observation []byte
}

// Resolution classifies every member of a task.
// Member lists are sorted by address.
type Resolution struct {
	Outcome  Outcome
	Majority []byte // observation of the winning partition, nil if inconclusive

	Honest       []rentnet.Address // agreed with the majority
	Inconsistent []rentnet.Address // revealed a minority observation
	Unruly       []rentnet.Address // never revealed a valid observation
	Undecided    []rentnet.Address // revealed, but no majority formed
}

// Punished returns members to be slashed: inconsistent first, then unruly.
func (r *Resolution) Punished() []rentnet.Address {
	out := make([]rentnet.Address, 0, len(r.Inconsistent)+len(r.Unruly))
	out = append(out, r.Inconsistent...)
	return append(out, r.Unruly...)
}

type partition struct {
	observation string
	support     bool
	members     []rentnet.Address
}

// Resolve partitions votes by observation and picks the strict majority.
// A tie, a plurality without majority, no votes at all, or responders that
// all refused is Inconclusive, so an unanimous refusal never earns reward.
func Resolve(votes []Vote, unruly []rentnet.Address) *Resolution {
	return resolve(votes, unruly, true)
}

// ResolveMajority is Resolve without the unanimous refusal rule. It serves
// claims where a refusal is itself a verdict, like rejecting a fault report.
func ResolveMajority(votes []Vote, unruly []rentnet.Address) *Resolution {
	return resolve(votes, unruly, false)
}

func resolve(votes []Vote, unruly []rentnet.Address, refusalInconclusive bool) *Resolution {
	res := &Resolution{}
	for _, m := range unruly {
		res.Unruly = itemlist.AddFunc(res.Unruly, m)
	}

	var parts []*partition
	index := make(map[string]*partition)
	for _, v := range votes {
		p, ok := index[string(v.Observation)]
		if !ok {
			p = &partition{observation: string(v.Observation), support: v.Support}
			index[p.observation] = p
			parts = append(parts, p)
		}
		p.members = append(p.members, v.Member)
	}

	var winner *partition
	for _, p := range parts {
		if 2*len(p.members) > len(votes) {
			winner = p
			break
		}
	}

	if winner != nil && refusalInconclusive && !winner.support && len(winner.members) == len(votes) {
		winner = nil
	}

	if winner == nil {
		for _, v := range votes {
			res.Undecided = itemlist.AddFunc(res.Undecided, v.Member)
		}
		return res
	}

	if winner.support {
		res.Outcome = Confirmed
	} else {
		res.Outcome = Refused
	}
	res.Majority = []byte(winner.observation)
	for _, p := range parts {
		for _, m := range p.members {
			if p == winner {
				res.Honest = itemlist.AddFunc(res.Honest, m)
			} else {
				res.Inconsistent = itemlist.AddFunc(res.Inconsistent, m)
			}
		}
	}
	return res
}
