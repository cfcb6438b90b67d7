// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package action

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/rentnet"
)

// Receipt is the result of executing an action.
type Receipt struct {
	ActionID rentnet.Bytes32
	Origin   rentnet.Address
	Kind     Kind
	Reverted bool
	Error    string // revert reason
	Events   []*events.Event
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes the hash of the encoded receipts.
func (rs Receipts) RootHash() rentnet.Bytes32 {
	return rentnet.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, rs)
	})
}
