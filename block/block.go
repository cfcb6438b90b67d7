// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package block defines block headers and bodies.
package block

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rentnet/rentnet/action"
)

// Block is an immutable block type.
type Block struct {
	header  *Header
	actions action.Actions

	cache struct {
		size atomic.Uint64
	}
}

// Body defines body of a block.
type Body struct {
	Actions action.Actions
}

// Compose compose a block with all needed components
// Note: This method is usually to recover a block by its portions, and the ActionsRoot is not verified.
func Compose(header *Header, actions action.Actions) *Block {
	return &Block{
		header:  header,
		actions: append(action.Actions(nil), actions...),
	}
}

// WithSignature create a new block object with signature set.
func (b *Block) WithSignature(sig []byte) *Block {
	return &Block{
		header:  b.header.WithSignature(sig),
		actions: b.actions,
	}
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.header
}

// Actions returns a copy of actions.
func (b *Block) Actions() action.Actions {
	return append(action.Actions(nil), b.actions...)
}

// Body returns body of a block.
func (b *Block) Body() *Body {
	return &Body{append(action.Actions(nil), b.actions...)}
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{
		b.header,
		b.actions,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header  Header
		Actions action.Actions
	}{}
	if err := s.Decode(&payload); err != nil {
		return err
	}
	*b = Block{
		header:  &payload.Header,
		actions: payload.Actions,
	}
	return nil
}

// Size returns block size in bytes.
func (b *Block) Size() uint64 {
	if cached := b.cache.size.Load(); cached != 0 {
		return cached
	}
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		return 0
	}
	b.cache.size.Store(uint64(len(data)))
	return uint64(len(data))
}

func (b *Block) String() string {
	return fmt.Sprintf(`Block(%v)
%v
Actions: %v`, b.Size(), b.header, b.actions)
}
