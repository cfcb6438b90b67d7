// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/kv"
	"github.com/rentnet/rentnet/rentnet"
)

const (
	hdrBucket     = kv.Bucket("c.h") // block id => header
	bodyBucket    = kv.Bucket("c.b") // block id => actions
	receiptBucket = kv.Bucket("c.r") // block id => receipts
	numBucket     = kv.Bucket("c.n") // number => block id
	actionBucket  = kv.Bucket("c.a") // action id => location
	propBucket    = kv.Bucket("c.p") // named properties such as best block
)

var bestBlockIDKey = []byte("best-block-id")

// ActionMeta locates an action in the chain.
type ActionMeta struct {
	BlockID rentnet.Bytes32
	Index   uint64
}

func numberKey(num uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, num)
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func loadHeader(r kv.Getter, id rentnet.Bytes32) (*block.Header, error) {
	var header block.Header
	if err := loadRLP(r, id[:], &header); err != nil {
		return nil, err
	}
	return &header, nil
}

func loadActions(r kv.Getter, id rentnet.Bytes32) (action.Actions, error) {
	var actions action.Actions
	if err := loadRLP(r, id[:], &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func loadReceipts(r kv.Getter, id rentnet.Bytes32) (action.Receipts, error) {
	var receipts action.Receipts
	if err := loadRLP(r, id[:], &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}
