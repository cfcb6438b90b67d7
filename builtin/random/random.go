// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package random draws committee members for verification tasks.
package random

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var slotNonce = storage.Slot("random-nonce")

// Source yields a 256 bit seed for a subject. It must be deterministic given
// chain state and unknown before the seed producing block is sealed.
type Source interface {
	Random(subject []byte) rentnet.Bytes32
}

// SeedSource derives randomness from a block seed.
type SeedSource rentnet.Bytes32

// Random implements Source.
func (s SeedSource) Random(subject []byte) rentnet.Bytes32 {
	return rentnet.Blake2b(s[:], subject)
}

// Random draws numbers from a Source, salting each draw with a nonce kept in state.
type Random struct {
	nonce  *storage.Uint64
	source Source
}

func New(addr rentnet.Address, state *state.State, source Source) *Random {
	return &Random{
		nonce:  storage.NewUint64(storage.NewContext(addr, state), slotNonce),
		source: source,
	}
}

// Nonce returns the nonce of the last draw.
func (r *Random) Nonce() (uint64, error) {
	return r.nonce.Get()
}

// U32 returns a number in [0, max].
func (r *Random) U32(max uint32) (uint32, error) {
	nonce, err := r.nonce.Next()
	if err != nil {
		return 0, errors.Wrap(err, "next nonce")
	}
	var subject [8]byte
	binary.BigEndian.PutUint64(subject[:], nonce)
	seed := r.source.Random(subject[:])
	v := binary.BigEndian.Uint64(seed[:8])
	return uint32(v % (uint64(max) + 1)), nil
}

// Choose picks k distinct candidates. All of them are returned, sorted, when
// there are no more than k.
func (r *Random) Choose(candidates []rentnet.Address, k int) ([]rentnet.Address, error) {
	pool := append([]rentnet.Address(nil), candidates...)
	if len(pool) <= k {
		var all []rentnet.Address
		for _, c := range pool {
			all = itemlist.AddFunc(all, c)
		}
		return all, nil
	}

	var chosen []rentnet.Address
	for range k {
		i, err := r.U32(uint32(len(pool) - 1))
		if err != nil {
			return nil, err
		}
		chosen = itemlist.AddFunc(chosen, pool[i])
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return chosen, nil
}

// CurrentEra returns the era of height.
func CurrentEra(height uint32) uint32 {
	return rentnet.CurrentEra(height)
}
