// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the first block and initial state of a network.
package genesis

import (
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	id      rentnet.Bytes32
	name    string
}

// Build build the genesis block and the stage of its initial state.
func (g *Genesis) Build(stater *state.Stater) (*block.Block, *state.Stage, []*events.Event, error) {
	return g.builder.Build(stater)
}

// ID returns genesis block ID.
func (g *Genesis) ID() rentnet.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}
