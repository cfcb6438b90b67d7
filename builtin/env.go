// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/rentnet/rentnet/builtin/random"
	"github.com/rentnet/rentnet/rentnet"
)

// Env is the block context builtin modules run in.
type Env struct {
	Number    uint32
	Timestamp uint64
	// Seed is the verifiable random output of the block proposer.
	Seed rentnet.Bytes32
}

var _ random.Source = (*Env)(nil)

// Random derives randomness for subject from the block seed.
func (env *Env) Random(subject []byte) rentnet.Bytes32 {
	return rentnet.Blake2b(env.Seed[:], subject)
}

// Era returns the era of the block.
func (env *Env) Era() uint32 {
	return rentnet.CurrentEra(env.Number)
}
