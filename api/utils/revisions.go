// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
)

var logger = log.WithContext("pkg", "api")

// Revision refers to a block: the best one, a number or an id.
type Revision struct {
	val any
}

// ParseRevision parses a path or query parameter into a revision.
// Empty and "best" mean the best block.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "best" {
		return &Revision{nil}, nil
	}
	if len(revision) == 66 || len(revision) == 64 {
		blockID, err := rentnet.ParseBytes32(revision)
		if err != nil {
			return nil, err
		}
		return &Revision{blockID}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 0)
	if err != nil {
		return nil, err
	}
	if n > math.MaxUint32 {
		return nil, errors.New("block number out of max uint32")
	}
	return &Revision{uint32(n)}, nil
}

// GetBlock loads the block a revision refers to.
func GetBlock(rev *Revision, repo *chain.Repository) (*block.Block, error) {
	switch val := rev.val.(type) {
	case rentnet.Bytes32:
		return repo.GetBlock(val)
	case uint32:
		return repo.GetBlockByNumber(val)
	default:
		return repo.GetBlock(repo.BestBlock().ID())
	}
}

// BestModules binds the builtin modules to the state of the best block.
// Only the head state is kept, so queries always read the best block.
// Writes made through the returned modules are never committed.
func BestModules(repo *chain.Repository) (*builtin.Modules, *block.Header) {
	best := repo.BestBlock()
	env := &builtin.Env{
		Number:    best.Number(),
		Timestamp: best.Timestamp(),
		Seed:      best.Seed(),
	}
	return builtin.New(repo.Stater().NewState(), env, nil), best
}
