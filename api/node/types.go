// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/rentnet/rentnet/rentnet"
)

// Info is the static part of the node description.
type Info struct {
	Version string          `json:"version"`
	Master  rentnet.Address `json:"master"`
}

type BestBlock struct {
	ID        rentnet.Bytes32 `json:"id"`
	Number    uint32          `json:"number"`
	Timestamp uint64          `json:"timestamp"`
}

// Status is the node description returned by /node/info.
type Status struct {
	Info
	GenesisID   rentnet.Bytes32 `json:"genesisID"`
	ChainTag    byte            `json:"chainTag"`
	Best        BestBlock       `json:"best"`
	PendingSize int             `json:"pendingActions"`
}
