// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp  uint64
	stateProcs []func(m *builtin.Modules) error
	extraData  [28]byte
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process, run against the builtin modules bound to the genesis state.
func (b *Builder) State(proc func(m *builtin.Modules) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ExtraData set extra data, which will be put into last 28 bytes of genesis parent id.
func (b *Builder) ExtraData(data [28]byte) *Builder {
	b.extraData = data
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (rentnet.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return rentnet.Bytes32{}, err
	}
	defer db.Close()

	blk, _, _, err := b.Build(state.NewStater(db))
	if err != nil {
		return rentnet.Bytes32{}, err
	}
	return blk.Header().ID(), nil
}

// Build build genesis block according to presets.
func (b *Builder) Build(stater *state.Stater) (*block.Block, *state.Stage, []*events.Event, error) {
	st := stater.NewState()
	log := &events.Log{}
	mods := builtin.New(st, &builtin.Env{Timestamp: b.timestamp}, log)

	for _, proc := range b.stateProcs {
		if err := proc(mods); err != nil {
			return nil, nil, nil, errors.Wrap(err, "state process")
		}
	}

	stage := st.Stage()
	parentID := rentnet.Bytes32{0xff, 0xff, 0xff, 0xff} // so, genesis number is 0
	copy(parentID[4:], b.extraData[:])

	blk := new(block.Builder).
		ParentID(parentID).
		Timestamp(b.timestamp).
		StateRoot(stage.ChainedRoot(rentnet.Bytes32{})).
		Build()
	return blk, stage, log.All(), nil
}
