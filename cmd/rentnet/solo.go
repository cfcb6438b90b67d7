// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/co"
	"github.com/rentnet/rentnet/packer"
	"github.com/rentnet/rentnet/rentnet"
)

// ActionPool is the part of the action pool the packing loop consumes.
type ActionPool interface {
	Executables() action.Actions
	Remove(id rentnet.Bytes32) bool
}

// Solo packs a block every block interval on top of the best block.
type Solo struct {
	repo          *chain.Repository
	packer        *packer.Packer
	masterKey     *ecdsa.PrivateKey
	pool          ActionPool
	blockInterval uint64
	onPacked      func(ok bool)
}

func newSolo(
	repo *chain.Repository,
	pk *packer.Packer,
	masterKey *ecdsa.PrivateKey,
	pool ActionPool,
	blockInterval uint64,
	onPacked func(ok bool),
) *Solo {
	if blockInterval == 0 {
		blockInterval = rentnet.BlockInterval
	}
	if onPacked == nil {
		onPacked = func(bool) {}
	}
	return &Solo{
		repo:          repo,
		packer:        pk,
		masterKey:     masterKey,
		pool:          pool,
		blockInterval: blockInterval,
		onPacked:      onPacked,
	}
}

// Run packs blocks until ctx is done.
func (s *Solo) Run(ctx context.Context) error {
	var goes co.Goes
	defer goes.Wait()

	logger.Info("prepared to pack block", "interval", s.blockInterval)
	goes.Go(func() { s.loop(ctx) })

	<-ctx.Done()
	return nil
}

func (s *Solo) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval packing service......")
			return
		case <-ticker.C:
			now := uint64(time.Now().Unix())
			if now%s.blockInterval != 0 {
				continue
			}
			if _, err := s.pack(now); err != nil {
				logger.Error("failed to pack block", "err", err)
				s.onPacked(false)
				continue
			}
			s.onPacked(true)
		}
	}
}

// pack builds a block at the given timestamp from the pool executables and
// commits it. Actions packed, known or invalid leave the pool.
func (s *Solo) pack(now uint64) (*packer.Packed, error) {
	best := s.repo.BestBlock()
	if now <= best.Timestamp() {
		return nil, errors.New("timestamp not after best block")
	}
	flow, err := s.packer.Schedule(best, now)
	if err != nil {
		return nil, errors.Wrap(err, "schedule")
	}

	for _, a := range s.pool.Executables() {
		if err := flow.Adopt(a); err != nil {
			if packer.IsBlockFull(err) {
				break
			}
			if packer.IsKnownAction(err) || packer.IsBadAction(err) {
				logger.Debug("drop action", "id", a.ID(), "err", err)
				s.pool.Remove(a.ID())
				continue
			}
			logger.Warn("failed to adopt action", "id", a.ID(), "err", err)
		}
	}

	packed, err := flow.Pack(s.masterKey)
	if err != nil {
		return nil, errors.Wrap(err, "pack")
	}
	if err := s.packer.Commit(packed); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	for _, a := range packed.Block.Actions() {
		s.pool.Remove(a.ID())
	}

	header := packed.Block.Header()
	logger.Info("📦 new block packed",
		"actions", len(packed.Block.Actions()),
		"events", len(packed.Events),
		"id", header.ID(),
		"number", header.Number(),
	)
	return packed, nil
}
