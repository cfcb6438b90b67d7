// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/api/blocks"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/rentnet"
)

// RawAction is the hex encoded rlp of a signed action.
type RawAction struct {
	Raw string `json:"raw"`
}

func (ra *RawAction) decode() (*action.Action, error) {
	data, err := hexutil.Decode(ra.Raw)
	if err != nil {
		return nil, err
	}
	var a action.Action
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// BlockContext locates an action in the chain.
type BlockContext struct {
	ID        rentnet.Bytes32 `json:"id"`
	Number    uint32          `json:"number"`
	Timestamp uint64          `json:"timestamp"`
}

// Action is the JSON form of an action with its decoded payload.
type Action struct {
	ID       rentnet.Bytes32 `json:"id"`
	ChainTag byte            `json:"chainTag"`
	Nonce    uint64          `json:"nonce"`
	Kind     string          `json:"kind"`
	Origin   rentnet.Address `json:"origin"`
	Payload  any             `json:"payload"`
	Size     uint64          `json:"size"`
	Meta     *BlockContext   `json:"meta"`
}

// Receipt is the JSON form of an action receipt.
type Receipt struct {
	ActionID rentnet.Bytes32     `json:"actionID"`
	Origin   rentnet.Address     `json:"origin"`
	Kind     string              `json:"kind"`
	Reverted bool                `json:"reverted"`
	Error    string              `json:"error,omitempty"`
	Events   []*blocks.JSONEvent `json:"events"`
	Meta     BlockContext        `json:"meta"`
}

func convertAction(a *action.Action, header *block.Header) (*Action, error) {
	origin, err := a.Signer()
	if err != nil {
		return nil, errors.Wrap(err, "recover origin")
	}
	payload, err := a.Payload()
	if err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}
	out := &Action{
		ID:       a.ID(),
		ChainTag: a.ChainTag(),
		Nonce:    a.Nonce(),
		Kind:     a.Kind().String(),
		Origin:   origin,
		Payload:  payload,
		Size:     a.Size(),
	}
	if header != nil {
		out.Meta = &BlockContext{
			ID:        header.ID(),
			Number:    header.Number(),
			Timestamp: header.Timestamp(),
		}
	}
	return out, nil
}

func convertReceipt(r *action.Receipt, header *block.Header) *Receipt {
	return &Receipt{
		ActionID: r.ActionID,
		Origin:   r.Origin,
		Kind:     r.Kind.String(),
		Reverted: r.Reverted,
		Error:    r.Error,
		Events:   blocks.ConvertEvents(r.Events),
		Meta: BlockContext{
			ID:        header.ID(),
			Number:    header.Number(),
			Timestamp: header.Timestamp(),
		},
	}
}
