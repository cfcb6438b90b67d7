// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committees

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/rentnet"
)

type Stake struct {
	Staked         uint64 `json:"staked"`
	Used           uint64 `json:"used"`
	Free           uint64 `json:"free"`
	CanClaimReward uint64 `json:"canClaimReward"`
	ClaimedReward  uint64 `json:"claimedReward"`
}

type Stages struct {
	Booked    []string `json:"booked"`
	Hashed    []string `json:"hashed"`
	Confirmed []string `json:"confirmed"`
	Finished  []string `json:"finished"`
}

// Member is the full record of a committee member.
type Member struct {
	Address   rentnet.Address `json:"address"`
	Status    string          `json:"status"`
	Stake     Stake           `json:"stake"`
	BoxPubkey hexutil.Bytes   `json:"boxPubkey"`
	Machines  *Stages         `json:"machines"`
	Reports   *Stages         `json:"reports"`
}

// Listed is a member as returned by the list query.
type Listed struct {
	Address rentnet.Address `json:"address"`
	Status  string          `json:"status"`
}

func convertStages(s *verification.Stages) *Stages {
	orEmpty := func(v []string) []string {
		if v == nil {
			return []string{}
		}
		return v
	}
	return &Stages{
		Booked:    orEmpty(s.Booked),
		Hashed:    orEmpty(s.Hashed),
		Confirmed: orEmpty(s.Confirmed),
		Finished:  orEmpty(s.Finished),
	}
}
