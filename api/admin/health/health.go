// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

type BlockIngestion struct {
	ID        rentnet.Bytes32 `json:"id"`
	Number    uint32          `json:"number"`
	Timestamp *time.Time      `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
	Packing        bool            `json:"packing"`
}

const delayBuffer = 5 * time.Second

type health struct {
	lock          sync.RWMutex
	newBestBlock  time.Time
	bestBlockID   rentnet.Bytes32
	bestNumber    uint32
	packing       bool
	blockInterval time.Duration
	repo          *chain.Repository
}

func newHealth(repo *chain.Repository, blockInterval time.Duration) *health {
	return &health{
		repo:          repo,
		blockInterval: blockInterval,
	}
}

// run polls the best block until ctx is done.
func (h *health) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		h.check()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *health) check() {
	best := h.repo.BestBlock()

	h.lock.Lock()
	defer h.lock.Unlock()
	if best.ID() != h.bestBlockID {
		h.newBestBlock = time.Now()
		h.bestBlockID = best.ID()
		h.bestNumber = best.Number()
	}
}

// PackingStatus records whether the local packer is producing blocks.
func (h *health) PackingStatus(packing bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.packing = packing
}

func (h *health) status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ts := h.newBestBlock
	return &Status{
		// a block has been seen within one interval plus some slack
		Healthy: h.packing && time.Since(h.newBestBlock) <= h.blockInterval+delayBuffer,
		BlockIngestion: &BlockIngestion{
			ID:        h.bestBlockID,
			Number:    h.bestNumber,
			Timestamp: &ts,
		},
		Packing: h.packing,
	}
}
