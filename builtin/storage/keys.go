// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"encoding/binary"
)

// Uint64Key keys a mapping by integer id.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// CompositeKey keys a mapping by several parts.
type CompositeKey []Key

func (k CompositeKey) Bytes() []byte {
	var out []byte
	for _, part := range k {
		b := part.Bytes()
		out = binary.BigEndian.AppendUint32(out, uint32(len(b)))
		out = append(out, b...)
	}
	return out
}

// StringKey keys a mapping by name.
type StringKey string

func (k StringKey) Bytes() []byte {
	return []byte(k)
}
