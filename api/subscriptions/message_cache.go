// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/rentnet/rentnet/rentnet"
)

const maxMessageCacheSize = 1000

// messageCache shares encoded block messages between subscribers, so each
// block is encoded once however many sockets follow the chain.
type messageCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

func newMessageCache(size uint32) *messageCache {
	size = min(max(size, 1), maxMessageCacheSize)
	cache, _ := lru.New(int(size))
	return &messageCache{cache: cache}
}

// GetOrAdd returns the cached message of block id, building it with create
// on a miss. created reports a miss.
func (mc *messageCache) GetOrAdd(id rentnet.Bytes32, create func() ([]byte, error)) (msg []byte, created bool, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if cached, ok := mc.cache.Get(id); ok {
		return cached.([]byte), false, nil
	}
	if msg, err = create(); err != nil {
		return nil, false, err
	}
	mc.cache.Add(id, msg)
	return msg, true, nil
}
