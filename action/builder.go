// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package action

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Builder to make it easy to build an action.
type Builder struct {
	body body
	err  error
}

// NewBuilder creates a builder for payload.
func NewBuilder(p Payload) *Builder {
	b := &Builder{}
	b.body.Kind = p.Kind()
	b.body.Payload, b.err = rlp.EncodeToBytes(p)
	return b
}

// ChainTag set chain tag.
func (b *Builder) ChainTag(tag byte) *Builder {
	b.body.ChainTag = tag
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build builds an unsigned action.
func (b *Builder) Build() (*Action, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Action{body: b.body}, nil
}

// MustBuild builds an unsigned action and panics on failure.
func (b *Builder) MustBuild() *Action {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}
