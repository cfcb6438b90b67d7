// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain runs an in-memory devnet chain for tests.
package testchain

import (
	"fmt"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/packer"
	"github.com/rentnet/rentnet/state"
	"github.com/rentnet/rentnet/test/datagen"
)

// Chain is a devnet chain backed by memory databases. Blocks are packed by
// the first dev account.
type Chain struct {
	db     *lvldb.LevelDB
	repo   *chain.Repository
	logDB  *logdb.LogDB
	packer *packer.Packer
}

// NewDefault creates a chain from the devnet genesis.
func NewDefault() (*Chain, error) {
	return NewWithGenesis(genesis.NewDevnet())
}

// NewWithGenesis creates a chain from gene.
func NewWithGenesis(gene *genesis.Genesis) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	b0, stage, _, err := gene.Build(state.NewStater(db))
	if err != nil {
		return nil, err
	}
	repo, err := chain.NewRepository(db, b0, stage)
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, err
	}
	return &Chain{
		db:     db,
		repo:   repo,
		logDB:  logDB,
		packer: packer.New(repo, logDB, genesis.DevAccounts()[0].PrivateKey),
	}, nil
}

// Repo returns the block repository.
func (c *Chain) Repo() *chain.Repository {
	return c.repo
}

// LogDB returns the event log.
func (c *Chain) LogDB() *logdb.LogDB {
	return c.logDB
}

// GenesisBlock returns the genesis block.
func (c *Chain) GenesisBlock() *block.Block {
	return c.repo.GenesisBlock()
}

// Modules binds the builtin modules to the best state. Writes are discarded.
func (c *Chain) Modules() *builtin.Modules {
	best := c.repo.BestBlock()
	return builtin.New(c.repo.Stater().NewState(), &builtin.Env{
		Number:    best.Number(),
		Timestamp: best.Timestamp(),
		Seed:      best.Seed(),
	}, nil)
}

// Sign builds an action with a random nonce signed by the dev account at idx.
func (c *Chain) Sign(p action.Payload, idx int) *action.Action {
	a := action.NewBuilder(p).
		ChainTag(c.repo.ChainTag()).
		Nonce(datagen.RandUint64()).
		MustBuild()
	return action.MustSign(a, genesis.DevAccounts()[idx].PrivateKey)
}

// MintBlock packs actions into a new best block. Any action failing to be
// adopted fails the mint.
func (c *Chain) MintBlock(actions ...*action.Action) (*packer.Packed, error) {
	best := c.repo.BestBlock()
	flow, err := c.packer.Schedule(best, best.Timestamp()+10)
	if err != nil {
		return nil, fmt.Errorf("unable to schedule: %w", err)
	}
	for _, a := range actions {
		if err := flow.Adopt(a); err != nil {
			return nil, fmt.Errorf("unable to adopt action %v: %w", a.ID(), err)
		}
	}
	packed, err := flow.Pack(genesis.DevAccounts()[0].PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("unable to pack: %w", err)
	}
	if err := c.packer.Commit(packed); err != nil {
		return nil, fmt.Errorf("unable to commit: %w", err)
	}
	return packed, nil
}

// Close releases the databases.
func (c *Chain) Close() {
	c.repo.Close()
	c.logDB.Close()
	c.db.Close()
}
