// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package packer builds, signs and commits new blocks.
package packer

import (
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/runtime"
	"github.com/rentnet/rentnet/state"
	"github.com/rentnet/rentnet/vrf"
)

var logger = log.WithContext("pkg", "packer")

// Packer to pack actions and build new blocks.
type Packer struct {
	repo      *chain.Repository
	logDB     *logdb.LogDB
	masterKey *ecdsa.PrivateKey
	master    rentnet.Address
}

// New create a new Packer instance. logDB may be nil.
func New(repo *chain.Repository, logDB *logdb.LogDB, masterKey *ecdsa.PrivateKey) *Packer {
	return &Packer{
		repo:      repo,
		logDB:     logDB,
		masterKey: masterKey,
		master:    rentnet.Address(crypto.PubkeyToAddress(masterKey.PublicKey)),
	}
}

// Master returns the address of the block signer.
func (p *Packer) Master() rentnet.Address {
	return p.master
}

// Schedule creates a packing flow on top of the parent block.
// Only the best block can be built on, since state is kept for the head only.
func (p *Packer) Schedule(parent *block.Header, timestamp uint64) (*Flow, error) {
	if best := p.repo.BestBlock(); parent.ID() != best.ID() {
		return nil, errParentNotBest
	}
	if timestamp <= parent.Timestamp() {
		return nil, errTimestampTooEarly
	}

	num := parent.Number() + 1
	beta, proof, err := vrf.Prove(p.masterKey, vrf.Alpha(parent.Seed(), num))
	if err != nil {
		return nil, errors.Wrap(err, "vrf prove")
	}
	env := &builtin.Env{
		Number:    num,
		Timestamp: timestamp,
		Seed:      vrf.Seed(beta),
	}
	st := p.repo.Stater().NewState()
	rt := runtime.New(st, env, p.repo.ChainTag())
	return newFlow(p, parent, rt, proof), nil
}

// Commit writes the packed block to the repository and its events to the log db.
func (p *Packer) Commit(packed *Packed) error {
	start := time.Now()
	header := packed.Block.Header()
	// logs go first so that block subscribers find the events of the block
	if p.logDB != nil {
		batch := p.logDB.Prepare(header)
		for _, r := range packed.Receipts {
			batch.ForAction(r.ActionID).Insert(r.Events)
		}
		batch.ForAction(rentnet.Bytes32{}).Insert(packed.Events)
		if err := batch.Commit(); err != nil {
			return errors.Wrap(err, "write logs")
		}
	}
	if err := p.repo.AddBlock(packed.Block, packed.Receipts, packed.Stage); err != nil {
		return errors.Wrap(err, "add block")
	}

	for _, r := range packed.Receipts {
		countEvents(r.Events)
	}
	countEvents(packed.Events)
	logger.Debug("block committed",
		"number", header.Number(),
		"id", header.ID(),
		"actions", len(packed.Receipts),
		"elapsed", time.Since(start),
	)
	return nil
}

func countEvents(evs []*events.Event) {
	for _, ev := range evs {
		metricEventCounter().AddWithLabel(1, map[string]string{"module": ev.Module, "name": ev.Name})
	}
}

// VerifySeed checks the seed of a block against its parent and the block signer.
func VerifySeed(parent, header *block.Header) error {
	if header.ParentID() != parent.ID() {
		return errors.New("parent mismatch")
	}
	pub, err := crypto.SigToPub(header.SigningHash().Bytes(), header.Signature())
	if err != nil {
		return errors.Wrap(err, "recover signer")
	}
	beta, err := vrf.Verify(pub, vrf.Alpha(parent.Seed(), header.Number()), header.Proof())
	if err != nil {
		return errors.Wrap(err, "vrf verify")
	}
	if vrf.Seed(beta) != header.Seed() {
		return errors.New("seed mismatch")
	}
	return nil
}

// Packed is a signed block ready to be committed.
type Packed struct {
	Block    *block.Block
	Receipts action.Receipts
	Stage    *state.Stage
	// Events emitted by housekeeping.
	Events []*events.Event
}
