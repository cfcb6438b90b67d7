// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/rentnet"
)

type JSONBlockSummary struct {
	Number       uint32          `json:"number"`
	ID           rentnet.Bytes32 `json:"id"`
	Size         uint64          `json:"size"`
	ParentID     rentnet.Bytes32 `json:"parentID"`
	Timestamp    uint64          `json:"timestamp"`
	Seed         rentnet.Bytes32 `json:"seed"`
	Proof        hexutil.Bytes   `json:"proof"`
	ActionsRoot  rentnet.Bytes32 `json:"actionsRoot"`
	ReceiptsRoot rentnet.Bytes32 `json:"receiptsRoot"`
	StateRoot    rentnet.Bytes32 `json:"stateRoot"`
	Signer       rentnet.Address `json:"signer"`
}

type JSONCollapsedBlock struct {
	*JSONBlockSummary
	Actions []rentnet.Bytes32 `json:"actions"`
}

type JSONEvent struct {
	Module  string          `json:"module"`
	Name    string          `json:"name"`
	Subject string          `json:"subject,omitempty"`
	Account rentnet.Address `json:"account"`
	Amount  uint64          `json:"amount"`
	Detail  string          `json:"detail,omitempty"`
}

type JSONEmbeddedAction struct {
	ID       rentnet.Bytes32 `json:"id"`
	Kind     string          `json:"kind"`
	Nonce    uint64          `json:"nonce"`
	Origin   rentnet.Address `json:"origin"`
	Size     uint64          `json:"size"`
	Reverted bool            `json:"reverted"`
	Error    string          `json:"error,omitempty"`
	Events   []*JSONEvent    `json:"events"`
}

type JSONExpandedBlock struct {
	*JSONBlockSummary
	Actions []*JSONEmbeddedAction `json:"actions"`
}

func buildJSONBlockSummary(blk *block.Block) *JSONBlockSummary {
	header := blk.Header()
	signer, _ := header.Signer()
	return &JSONBlockSummary{
		Number:       header.Number(),
		ID:           header.ID(),
		Size:         blk.Size(),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		Seed:         header.Seed(),
		Proof:        header.Proof(),
		ActionsRoot:  header.ActionsRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
		StateRoot:    header.StateRoot(),
		Signer:       signer,
	}
}

// ConvertEvents converts settlement events to their JSON form.
func ConvertEvents(evs []*events.Event) []*JSONEvent {
	out := make([]*JSONEvent, 0, len(evs))
	for _, ev := range evs {
		out = append(out, &JSONEvent{
			Module:  ev.Module,
			Name:    ev.Name,
			Subject: ev.Subject,
			Account: ev.Account,
			Amount:  ev.Amount,
			Detail:  ev.Detail,
		})
	}
	return out
}

func buildJSONEmbeddedActions(actions action.Actions, receipts action.Receipts) []*JSONEmbeddedAction {
	out := make([]*JSONEmbeddedAction, 0, len(actions))
	for i, a := range actions {
		r := receipts[i]
		out = append(out, &JSONEmbeddedAction{
			ID:       a.ID(),
			Kind:     a.Kind().String(),
			Nonce:    a.Nonce(),
			Origin:   r.Origin,
			Size:     a.Size(),
			Reverted: r.Reverted,
			Error:    r.Error,
			Events:   ConvertEvents(r.Events),
		})
	}
	return out
}
