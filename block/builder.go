// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/rentnet"
)

// genesisParentID makes the inferred number of a block without parent 0.
var genesisParentID = rentnet.Bytes32{0xff, 0xff, 0xff, 0xff}

// Builder to make it easy to build a block object.
type Builder struct {
	headerBody headerBody
	actions    action.Actions
}

// ParentID set parent id.
func (b *Builder) ParentID(id rentnet.Bytes32) *Builder {
	b.headerBody.ParentID = id
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.headerBody.Timestamp = ts
	return b
}

// Seed set the random seed and its proof.
func (b *Builder) Seed(seed rentnet.Bytes32, proof []byte) *Builder {
	b.headerBody.Seed = seed
	b.headerBody.Proof = append([]byte(nil), proof...)
	return b
}

// ReceiptsRoot set receipts root.
func (b *Builder) ReceiptsRoot(hash rentnet.Bytes32) *Builder {
	b.headerBody.ReceiptsRoot = hash
	return b
}

// StateRoot set state root.
func (b *Builder) StateRoot(hash rentnet.Bytes32) *Builder {
	b.headerBody.StateRoot = hash
	return b
}

// Action add an action.
func (b *Builder) Action(a *action.Action) *Builder {
	b.actions = append(b.actions, a)
	return b
}

// Build build a block object.
func (b *Builder) Build() *Block {
	header := Header{body: b.headerBody}
	if header.body.ParentID.IsZero() {
		header.body.ParentID = genesisParentID
	}
	header.body.ActionsRoot = b.actions.RootHash()

	return &Block{
		header:  &header,
		actions: b.actions,
	}
}
