// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/rentnet"
)

// BlockMessage is pushed for every new block.
type BlockMessage struct {
	Number       uint32            `json:"number"`
	ID           rentnet.Bytes32   `json:"id"`
	ParentID     rentnet.Bytes32   `json:"parentID"`
	Timestamp    uint64            `json:"timestamp"`
	Seed         rentnet.Bytes32   `json:"seed"`
	StateRoot    rentnet.Bytes32   `json:"stateRoot"`
	ReceiptsRoot rentnet.Bytes32   `json:"receiptsRoot"`
	Signer       rentnet.Address   `json:"signer"`
	Actions      []rentnet.Bytes32 `json:"actions"`
}

func convertBlock(b *block.Block) *BlockMessage {
	header := b.Header()
	signer, _ := header.Signer()
	ids := make([]rentnet.Bytes32, 0, len(b.Actions()))
	for _, a := range b.Actions() {
		ids = append(ids, a.ID())
	}
	return &BlockMessage{
		Number:       header.Number(),
		ID:           header.ID(),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		Seed:         header.Seed(),
		StateRoot:    header.StateRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
		Signer:       signer,
		Actions:      ids,
	}
}

// EventMessage is pushed for every matching settlement event.
type EventMessage struct {
	Module   string          `json:"module"`
	Name     string          `json:"name"`
	Subject  string          `json:"subject,omitempty"`
	Account  rentnet.Address `json:"account"`
	Amount   uint64          `json:"amount"`
	Detail   string          `json:"detail,omitempty"`
	BlockID  rentnet.Bytes32 `json:"blockID"`
	Number   uint32          `json:"blockNumber"`
	ActionID rentnet.Bytes32 `json:"actionID"`
}

func convertEvent(ev *logdb.Event) *EventMessage {
	return &EventMessage{
		Module:   ev.Module,
		Name:     ev.Name,
		Subject:  ev.Subject,
		Account:  ev.Account,
		Amount:   ev.Amount,
		Detail:   ev.Detail,
		BlockID:  ev.BlockID,
		Number:   ev.BlockNumber,
		ActionID: ev.ActionID,
	}
}
