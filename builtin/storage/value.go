// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/rentnet"
)

// Value is a single RLP encoded value stored at a fixed slot.
type Value[V any] struct {
	context *Context
	pos     rentnet.Bytes32
}

func NewValue[V any](context *Context, pos rentnet.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.address, v.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.context.address, v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Uint64 is a counter slot.
type Uint64 struct {
	*Value[uint64]
}

func NewUint64(context *Context, pos rentnet.Bytes32) *Uint64 {
	return &Uint64{NewValue[uint64](context, pos)}
}

// Add adds delta and returns the new value. It fails on overflow.
func (u *Uint64) Add(delta uint64) (uint64, error) {
	cur, err := u.Get()
	if err != nil {
		return 0, err
	}
	next, overflow := math.SafeAdd(cur, delta)
	if overflow {
		return 0, errors.New("uint64 slot overflow")
	}
	return next, u.Set(next)
}

// Sub subtracts delta and returns the new value. It fails on underflow.
func (u *Uint64) Sub(delta uint64) (uint64, error) {
	cur, err := u.Get()
	if err != nil {
		return 0, err
	}
	next, underflow := math.SafeSub(cur, delta)
	if underflow {
		return 0, errors.New("uint64 slot underflow")
	}
	return next, u.Set(next)
}

// Next increments the counter and returns the new value, wrapping to 0 past the max.
func (u *Uint64) Next() (uint64, error) {
	cur, err := u.Get()
	if err != nil {
		return 0, err
	}
	cur++ // wraps at max
	return cur, u.Set(cur)
}
