// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/rentnet/rentnet/chain"
)

// maxReadBlocks bounds the blocks one Read walks, so a far behind reader
// catches up over several writes.
const maxReadBlocks = 100

type blockReader struct {
	repo  *chain.Repository
	next  uint32
	cache *messageCache
}

func newBlockReader(repo *chain.Repository, next uint32, cache *messageCache) *blockReader {
	return &blockReader{
		repo:  repo,
		next:  next,
		cache: cache,
	}
}

// Read returns messages of blocks from the reader position up to the best
// block. ok is false when there is nothing new.
func (br *blockReader) Read() ([][]byte, bool, error) {
	best := br.repo.BestBlock().Number()
	if br.next > best {
		return nil, false, nil
	}
	var msgs [][]byte
	for ; br.next <= best && len(msgs) < maxReadBlocks; br.next++ {
		blk, err := br.repo.GetBlockByNumber(br.next)
		if err != nil {
			return nil, false, err
		}
		msg, _, err := br.cache.GetOrAdd(blk.Header().ID(), func() ([]byte, error) {
			return json.Marshal(convertBlock(blk))
		})
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, true, nil
}
